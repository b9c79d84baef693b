// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import (
	"strings"
	"time"

	"github.com/tomtom215/bibsync/internal/codes"
	"github.com/tomtom215/bibsync/internal/models"
	"github.com/tomtom215/bibsync/internal/registry"
)

// Fixed profile intervals (days). The resend interval applies to NCIP
// peer-to-peer partners, the claim interval to ISO partners with
// auto-claim enabled.
const (
	ncipResendIntervalDays = 3
	isoClaimIntervalDays   = 7
)

// isoCatalogSystems lists the catalog-system families whose libraries
// integrate with the ILS over the structured ISO protocol. Matching is
// case-insensitive on the leading family name.
var isoCatalogSystems = []string{"BIBSYS", "ALMA"}

// PartnerOptions carries the environment-level inputs to partner
// conversion that are configuration rather than record data.
type PartnerOptions struct {
	// ISOServer and ISOPort locate the ILS resource-sharing endpoint
	// embedded into ISO profiles.
	ISOServer string
	ISOPort   string

	// NationalDepotBibnr, when it matches a record, overrides the
	// institution/location/holding codes with the depot codes below,
	// regardless of which profile branch fired.
	NationalDepotBibnr   string
	DepotInstitutionCode string
	DepotLocationCode    string
}

// PartnerConverter maps source records to Partner entities. All lookup
// tables are read-only and injected at construction; the clock is
// injectable for closure tests.
type PartnerConverter struct {
	dir          *codes.Directory
	countries    CountryTable
	conjunctions ConjunctionTable
	opts         PartnerOptions
	now          func() time.Time
}

// NewPartnerConverter creates a partner converter.
func NewPartnerConverter(dir *codes.Directory, countries CountryTable, conjunctions ConjunctionTable, opts PartnerOptions) *PartnerConverter {
	return &PartnerConverter{
		dir:          dir,
		countries:    countries,
		conjunctions: conjunctions,
		opts:         opts,
		now:          time.Now,
	}
}

// WithClock replaces the converter's clock. Test hook.
func (c *PartnerConverter) WithClock(now func() time.Time) *PartnerConverter {
	c.now = now
	return c
}

// Convert maps one source record to a Partner entity.
//
// A missing institution name or customer-type classifier yields a
// ValidationError; any other failure (e.g. a malformed closure date) is a
// recoverable conversion error. Neither aborts the batch.
func (c *PartnerConverter) Convert(rec *registry.Record) (*models.Partner, error) {
	if err := requirePartnerFields(rec); err != nil {
		return nil, err
	}

	closed, err := isClosed(rec, c.now())
	if err != nil {
		return nil, err
	}
	status := models.PartnerStatusActive
	if closed {
		status = models.PartnerStatusInactive
	}

	country := c.countries.Normalize(rec.Country)
	symbol := partnerSymbol(rec.Country, rec.Bibnr)

	details := models.PartnerDetails{
		Code:    symbol,
		Name:    c.conjunctions.DisplayName(rec.Name, rec.Country),
		Status:  status,
		Profile: c.profileFor(rec, symbol),
	}
	if institution, ok := c.dir.Lookup(rec.Bibnr); ok {
		details.InstitutionCode = institution
	}

	// National depot override wins over every profile branch.
	if c.opts.NationalDepotBibnr != "" && rec.Bibnr == c.opts.NationalDepotBibnr {
		details.InstitutionCode = c.opts.DepotInstitutionCode
		details.LocationCode = c.opts.DepotLocationCode
		details.HoldingCode = c.opts.DepotLocationCode
	}

	return &models.Partner{
		Details:     details,
		ContactInfo: contactInfoFor(rec, country),
	}, nil
}

// profileFor classifies the record's resource-sharing profile.
// Three-way decision, first match wins:
//  1. an NCIP endpoint means a peer-to-peer profile
//  2. an ILS-integrated catalog system means a structured ISO profile
//  3. everything else falls back to plain email
func (c *PartnerConverter) profileFor(rec *registry.Record, symbol string) models.Profile {
	email := preferredEmail(rec)

	if strings.TrimSpace(rec.NCIPURI) != "" {
		return models.NewNCIPProfile(symbol, email, ncipResendIntervalDays)
	}
	if isISOCatalogSystem(rec.CatalogSystem) {
		return models.NewISOProfile(symbol, c.opts.ISOServer, c.opts.ISOPort, isoClaimIntervalDays)
	}
	return models.NewEmailProfile(email)
}

// preferredEmail resolves the profile contact email: best, else regular,
// else the empty string.
func preferredEmail(rec *registry.Record) string {
	if best := strings.TrimSpace(rec.EmailBest); best != "" {
		return best
	}
	return strings.TrimSpace(rec.EmailRegular)
}

// isISOCatalogSystem reports whether the catalog-system tag belongs to one
// of the ILS-integrated families.
func isISOCatalogSystem(catalogSystem string) bool {
	tag := strings.ToUpper(strings.TrimSpace(catalogSystem))
	for _, family := range isoCatalogSystems {
		if strings.HasPrefix(tag, family) {
			return true
		}
	}
	return false
}

// requirePartnerFields gates on the structural fields partner conversion
// cannot proceed without.
func requirePartnerFields(rec *registry.Record) error {
	var missing []string
	if strings.TrimSpace(rec.Name) == "" {
		missing = append(missing, "inst")
	}
	if strings.TrimSpace(rec.CustomerType) == "" {
		missing = append(missing, "bibltype")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing, Record: rec.Diagnostic()}
	}
	return nil
}
