// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/bibsync/internal/registry"
)

// closureDateLayout is the registry's date format for closure bounds.
const closureDateLayout = "2006-01-02"

// isClosed derives the closure status of a library.
//
// An explicit non-empty closure marker means closed, irrespective of any
// date range. Otherwise the library is closed iff now falls within the
// inclusive range formed by whichever of {from, to} bounds are present;
// a missing bound leaves that side open. No marker and no bounds means open.
//
// A malformed date is a recoverable conversion error, not a batch abort.
func isClosed(rec *registry.Record, now time.Time) (bool, error) {
	if strings.TrimSpace(rec.Closed) != "" {
		return true, nil
	}

	from := strings.TrimSpace(rec.ClosedFrom)
	to := strings.TrimSpace(rec.ClosedTo)
	if from == "" && to == "" {
		return false, nil
	}

	closed := true
	if from != "" {
		f, err := time.Parse(closureDateLayout, from)
		if err != nil {
			return false, fmt.Errorf("malformed closure start date %q: %w", from, err)
		}
		if now.Before(f) {
			closed = false
		}
	}
	if to != "" {
		t, err := time.Parse(closureDateLayout, to)
		if err != nil {
			return false, fmt.Errorf("malformed closure end date %q: %w", to, err)
		}
		// The end bound is inclusive of the whole day.
		if !now.Before(t.AddDate(0, 0, 1)) {
			closed = false
		}
	}
	return closed, nil
}
