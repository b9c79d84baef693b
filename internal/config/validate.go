// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance (thread-safe, caches struct info)
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that required configuration is present and valid.
// Any error returned here is fatal: the run must abort before a single
// record is processed.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed %q validation (value: %v)",
				fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	if !c.Partners.Enabled && !c.Users.Enabled {
		return fmt.Errorf("no job enabled: set BIBSYNC_PARTNERS_ENABLED=true or BIBSYNC_USERS_ENABLED=true")
	}

	if err := c.validatePartners(); err != nil {
		return err
	}
	return c.validateUsers()
}

// validatePartners validates the partner job section (only if enabled).
func (c *Config) validatePartners() error {
	if !c.Partners.Enabled {
		return nil
	}
	if c.Partners.Resource == "" {
		return fmt.Errorf("BIBSYNC_PARTNERS_RESOURCE is required when the partner job is enabled")
	}
	if c.Partners.NotFoundCode == "" {
		return fmt.Errorf("BIBSYNC_PARTNERS_NOT_FOUND_CODE is required when the partner job is enabled")
	}
	if c.Partners.NationalDepotBibnr != "" && c.Partners.DepotInstitutionCode == "" {
		return fmt.Errorf("BIBSYNC_PARTNERS_DEPOT_INSTITUTION_CODE is required when a national depot bibnr is configured")
	}
	return nil
}

// validateUsers validates the user job section (only if enabled).
func (c *Config) validateUsers() error {
	if !c.Users.Enabled {
		return nil
	}
	if c.Users.Resource == "" {
		return fmt.Errorf("BIBSYNC_USERS_RESOURCE is required when the user job is enabled")
	}
	if c.Users.NotFoundCode == "" {
		return fmt.Errorf("BIBSYNC_USERS_NOT_FOUND_CODE is required when the user job is enabled")
	}
	return nil
}
