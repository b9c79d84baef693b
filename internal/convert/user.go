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

// externalIDTypeISIL is the identifier type for ISIL codes carried on users.
const externalIDTypeISIL = "ISIL"

// UserConverter maps source records to institutional User entities.
type UserConverter struct {
	dir          *codes.Directory
	countries    CountryTable
	conjunctions ConjunctionTable
	categories   *CategoryTable
	now          func() time.Time
}

// NewUserConverter creates a user converter.
func NewUserConverter(dir *codes.Directory, countries CountryTable, conjunctions ConjunctionTable, categories *CategoryTable) *UserConverter {
	return &UserConverter{
		dir:          dir,
		countries:    countries,
		conjunctions: conjunctions,
		categories:   categories,
		now:          time.Now,
	}
}

// WithClock replaces the converter's clock. Test hook.
func (c *UserConverter) WithClock(now func() time.Time) *UserConverter {
	c.now = now
	return c
}

// Convert maps one source record to a User entity.
//
// The user-group code is derived from the library category; a category
// outside the whitelist renders the NOTFOUND sentinel rather than failing
// the record.
func (c *UserConverter) Convert(rec *registry.Record) (*models.User, error) {
	if err := requireUserFields(rec); err != nil {
		return nil, err
	}

	closed, err := isClosed(rec, c.now())
	if err != nil {
		return nil, err
	}
	status := models.UserStatusActive
	if closed {
		status = models.UserStatusInactive
	}

	category := c.categories.Category(rec.Bibnr, rec.CustomerType)

	user := &models.User{
		PrimaryID:   rec.Bibnr,
		Name:        c.conjunctions.DisplayName(rec.Name, rec.Country),
		Status:      status,
		UserGroup:   c.categories.UserGroup(category),
		ContactInfo: contactInfoFor(rec, c.countries.Normalize(rec.Country)),
	}
	if isil := strings.TrimSpace(rec.ISIL); isil != "" {
		user.ExternalIDs = append(user.ExternalIDs, models.ExternalID{
			Type:  externalIDTypeISIL,
			Value: isil,
		})
	}

	return user, nil
}

// requireUserFields gates on the structural fields user conversion cannot
// proceed without.
func requireUserFields(rec *registry.Record) error {
	var missing []string
	if strings.TrimSpace(rec.Bibnr) == "" {
		missing = append(missing, "bibnr")
	}
	if strings.TrimSpace(rec.Name) == "" {
		missing = append(missing, "inst")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing, Record: rec.Diagnostic()}
	}
	return nil
}
