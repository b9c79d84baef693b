// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package config

import "time"

// Config is the root configuration for a Bibsync run.
//
// Configuration is loaded via Koanf v2 with layered sources
// (highest priority wins): environment variables, YAML config file,
// built-in defaults. See Load.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Admin    AdminConfig    `koanf:"admin"`
	Registry RegistryConfig `koanf:"registry"`
	ILS      ILSConfig      `koanf:"ils"`
	Batch    BatchConfig    `koanf:"batch"`
	Partners PartnerJobConfig `koanf:"partners"`
	Users    UserJobConfig    `koanf:"users"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// AdminConfig controls the optional operational HTTP surface
// (/healthz, /readyz, /metrics) exposed while a run is in progress.
type AdminConfig struct {
	Enabled bool          `koanf:"enabled"`
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=0,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// RegistryConfig configures the source registry client
// (the Base Bibliotek style feed records are fetched from).
type RegistryConfig struct {
	URL               string        `koanf:"url" validate:"required,url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"min=0"`
}

// ILSConfig configures the target ILS REST API client.
type ILSConfig struct {
	Host              string        `koanf:"host" validate:"required,url"`
	APIKey            string        `koanf:"api_key" validate:"required"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"min=0"`
	BreakerEnabled    bool          `koanf:"breaker_enabled"`
}

// BatchConfig controls the orchestrator.
type BatchConfig struct {
	// Workers bounds the number of records processed concurrently.
	Workers int `koanf:"workers" validate:"min=1"`

	// KeyFile is the newline-delimited list of record keys (bibnr) to process.
	KeyFile string `koanf:"key_file" validate:"required"`

	// CodeMappingFile is the JSON array mapping bibnr to ILS institution codes.
	CodeMappingFile string `koanf:"code_mapping_file" validate:"required"`
}

// PartnerJobConfig configures the partner synchronization job.
//
// NotFoundCode is the ILS domain error code that identifies "partner does
// not exist yet" inside a 400 error envelope. It differs between resource
// kinds and between ILS installations, so it is configuration, never a
// constant.
type PartnerJobConfig struct {
	Enabled bool `koanf:"enabled"`

	Resource     string `koanf:"resource"`
	NotFoundCode string `koanf:"not_found_code"`

	// CreatedAny2xx accepts any 2xx status for a create. The partner
	// resource historically accepts any 2xx while the user resource
	// requires exactly 200; the asymmetry is preserved per resource.
	CreatedAny2xx bool `koanf:"created_any_2xx"`

	// ISOServer and ISOPort are embedded into ISO resource-sharing
	// profiles for records whose catalog system integrates with the ILS.
	ISOServer string `koanf:"iso_server"`
	ISOPort   string `koanf:"iso_port"`

	// NationalDepotBibnr identifies the national depot library whose
	// institution/location/holding codes are overridden regardless of
	// profile classification. Data-driven by design; see DESIGN.md.
	NationalDepotBibnr string `koanf:"national_depot_bibnr"`

	// DepotInstitutionCode and DepotLocationCode are the override values
	// applied when a record matches NationalDepotBibnr.
	DepotInstitutionCode string `koanf:"depot_institution_code"`
	DepotLocationCode    string `koanf:"depot_location_code"`

	ReportFile string `koanf:"report_file"`
}

// UserJobConfig configures the user synchronization job.
type UserJobConfig struct {
	Enabled bool `koanf:"enabled"`

	Resource     string `koanf:"resource"`
	NotFoundCode string `koanf:"not_found_code"`

	// CreatedAny2xx is false for the user resource: a create only counts
	// as successful on exactly HTTP 200. See PartnerJobConfig.CreatedAny2xx.
	CreatedAny2xx bool `koanf:"created_any_2xx"`

	// ReportLabel is the fixed label column emitted in user report lines.
	ReportLabel string `koanf:"report_label"`

	ReportFile string `koanf:"report_file"`
}

// defaultConfig returns a Config with all default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Admin: AdminConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    8977,
			Timeout: 10 * time.Second,
		},
		Registry: RegistryConfig{
			URL:               "",
			APIKey:            "",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
		},
		ILS: ILSConfig{
			Host:              "",
			APIKey:            "",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			BreakerEnabled:    true,
		},
		Batch: BatchConfig{
			Workers:         8,
			KeyFile:         "",
			CodeMappingFile: "",
		},
		Partners: PartnerJobConfig{
			Enabled:       true,
			Resource:      "partners",
			NotFoundCode:  "",
			CreatedAny2xx: true,
			ISOServer:     "",
			ISOPort:       "9001",
			ReportFile:    "partners-report.txt",
		},
		Users: UserJobConfig{
			Enabled:       false,
			Resource:      "users",
			NotFoundCode:  "",
			CreatedAny2xx: false, // user resource requires exactly HTTP 200 on create
			ReportLabel:   "users",
			ReportFile:    "users-report.txt",
		},
	}
}
