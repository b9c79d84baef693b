// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bibsync/internal/api"
	"github.com/tomtom215/bibsync/internal/batch"
	"github.com/tomtom215/bibsync/internal/codes"
	"github.com/tomtom215/bibsync/internal/config"
	"github.com/tomtom215/bibsync/internal/convert"
	"github.com/tomtom215/bibsync/internal/logging"
	"github.com/tomtom215/bibsync/internal/registry"
	"github.com/tomtom215/bibsync/internal/report"
	"github.com/tomtom215/bibsync/internal/upsert"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a synchronization batch",
	RunE:  runBatch,
}

// dryRunUpserter satisfies batch.Upserter without touching the ILS.
type dryRunUpserter struct{}

func (dryRunUpserter) Upsert(_ context.Context, entity upsert.Entity) (upsert.Outcome, error) {
	if _, err := entity.Payload(); err != nil {
		return "", err
	}
	logging.Debug().Str("code", entity.EntityCode()).Msg("Dry run, skipping ILS write")
	return upsert.OutcomeUpdated, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	runPartners, runUsers := cfg.Partners.Enabled, cfg.Users.Enabled
	if flagPartners || flagUsers {
		runPartners, runUsers = flagPartners, flagUsers
	}
	if runPartners && !cfg.Partners.Enabled {
		return fmt.Errorf("partner job is disabled in configuration")
	}
	if runUsers && !cfg.Users.Enabled {
		return fmt.Errorf("user job is disabled in configuration")
	}

	dir, err := loadDirectory(cfg.Batch.CodeMappingFile)
	if err != nil {
		return err
	}

	keyFile := cfg.Batch.KeyFile
	if flagKeyFile != "" {
		keyFile = flagKeyFile
	}
	keys, err := loadKeys(keyFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var admin *api.Server
	if cfg.Admin.Enabled {
		admin = api.NewServer(&cfg.Admin)
		go func() {
			if err := admin.Start(); err != nil {
				logging.Error().Err(err).Msg("Admin server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := admin.Shutdown(shutdownCtx); err != nil {
				logging.Warn().Err(err).Msg("Admin server shutdown failed")
			}
		}()
		admin.SetReady(true)
	}

	source := registry.NewClient(&cfg.Registry)
	countries := convert.DefaultCountryTable()
	conjunctions := convert.DefaultConjunctionTable()

	logging.Info().
		Int("keys", len(keys)).
		Bool("partners", runPartners).
		Bool("users", runUsers).
		Bool("dry_run", flagDryRun).
		Msg("Synchronization starting")

	var interrupted error

	if runPartners {
		converter := convert.NewPartnerConverter(dir, countries, conjunctions, convert.PartnerOptions{
			ISOServer:            cfg.Partners.ISOServer,
			ISOPort:              cfg.Partners.ISOPort,
			NationalDepotBibnr:   cfg.Partners.NationalDepotBibnr,
			DepotInstitutionCode: cfg.Partners.DepotInstitutionCode,
			DepotLocationCode:    cfg.Partners.DepotLocationCode,
		})
		upserter := newUpserter(&cfg.ILS, upsert.Resource{
			Name:          cfg.Partners.Resource,
			NotFoundCode:  cfg.Partners.NotFoundCode,
			CreatedAny2xx: cfg.Partners.CreatedAny2xx,
		})
		rep := report.NewBuilder(report.PartnerStyle, "")

		o := batch.New("partners", source, batch.ConvertFunc(func(rec *registry.Record) (upsert.Entity, error) {
			return converter.Convert(rec)
		}), upserter, dir, rep, cfg.Batch.Workers)

		count, err := o.Run(ctx, keys)
		logging.Info().Int("succeeded", count).Int("total", len(keys)).Msg("Partner job finished")
		writeReport(cfg.Partners.ReportFile, rep)
		if err != nil {
			interrupted = err
		}
	}

	if runUsers && interrupted == nil {
		converter := convert.NewUserConverter(dir, countries, conjunctions, convert.DefaultCategoryTable())
		upserter := newUpserter(&cfg.ILS, upsert.Resource{
			Name:          cfg.Users.Resource,
			NotFoundCode:  cfg.Users.NotFoundCode,
			CreatedAny2xx: cfg.Users.CreatedAny2xx,
		})
		rep := report.NewBuilder(report.UserStyle, cfg.Users.ReportLabel)

		o := batch.New("users", source, batch.ConvertFunc(func(rec *registry.Record) (upsert.Entity, error) {
			return converter.Convert(rec)
		}), upserter, dir, rep, cfg.Batch.Workers)

		count, err := o.Run(ctx, keys)
		logging.Info().Int("succeeded", count).Int("total", len(keys)).Msg("User job finished")
		writeReport(cfg.Users.ReportFile, rep)
		if err != nil {
			interrupted = err
		}
	}

	// Per-record failures never fail the process; they live in the report
	// and the next scheduled run retries them. Interruption is no different
	// once the reports are written.
	if interrupted != nil {
		logging.Warn().Err(interrupted).Msg("Run interrupted, reports cover completed records only")
	}
	return nil
}

// newUpserter builds the ILS client for one resource, or the dry-run stub.
func newUpserter(cfg *config.ILSConfig, resource upsert.Resource) batch.Upserter {
	if flagDryRun {
		return dryRunUpserter{}
	}
	return upsert.NewClient(cfg, resource)
}

// loadDirectory reads and validates the bibnr-to-institution-code mapping.
// Any defect in the mapping aborts the run before a record is processed.
func loadDirectory(path string) (*codes.Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("code mapping file: %w", err)
	}
	dir, err := codes.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("code mapping file %s: %w", path, err)
	}
	logging.Info().Str("path", path).Int("entries", dir.Len()).Msg("Code mapping loaded")
	return dir, nil
}

// loadKeys reads the newline-delimited batch input.
func loadKeys(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("no key file: set batch.key_file or pass --keys")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("key file: %w", err)
	}
	defer f.Close()

	keys, err := registry.ReadKeys(f)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("key file %s contains no keys", path)
	}
	return keys, nil
}

// writeReport renders the report to its configured file, or to stdout when
// no path is configured. A report write failure is logged, not fatal: the
// run outcome already happened.
func writeReport(path string, rep *report.Builder) {
	rendered := rep.Render()
	if path == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		logging.Error().Err(err).Str("path", path).Msg("Report write failed")
		fmt.Print(rendered)
		return
	}
	logging.Info().Str("path", path).Msg("Report written")
}
