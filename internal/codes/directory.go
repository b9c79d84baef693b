// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package codes provides the read-only directory mapping source library
// numbers (bibnr) to ILS institution codes.
//
// The directory is loaded once at orchestration start and is immutable for
// the remainder of the run, so lookups need no locking. Any malformed or
// incomplete mapping entry is a fatal configuration error: no partial
// mapping is acceptable, because a silent miss would route records to the
// wrong institution.
package codes

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrEmptyMapping indicates the mapping input was empty or contained no entries.
var ErrEmptyMapping = errors.New("code mapping is empty")

// mappingEntry is one element of the JSON mapping array.
type mappingEntry struct {
	Bibnr    string `json:"bibnr"`
	AlmaCode string `json:"almaCode"`
}

// Directory is an immutable lookup from bibnr to ILS institution code.
type Directory struct {
	byBibnr map[string]string
}

// Load parses and validates the JSON code mapping.
//
// It fails when the input is empty, is not a well-formed JSON array, or
// contains any entry with a missing/empty key or value. All failures are
// fatal to the run.
func Load(raw []byte) (*Directory, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyMapping
	}

	var entries []mappingEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse code mapping: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyMapping
	}

	byBibnr := make(map[string]string, len(entries))
	for i, e := range entries {
		if e.Bibnr == "" {
			return nil, fmt.Errorf("code mapping entry %d: empty bibnr", i)
		}
		if e.AlmaCode == "" {
			return nil, fmt.Errorf("code mapping entry %d (bibnr %s): empty target code", i, e.Bibnr)
		}
		byBibnr[e.Bibnr] = e.AlmaCode
	}

	return &Directory{byBibnr: byBibnr}, nil
}

// Lookup returns the target-system code for a bibnr. A miss is not an
// error; the second return reports whether the bibnr is mapped.
func (d *Directory) Lookup(bibnr string) (string, bool) {
	code, ok := d.byBibnr[bibnr]
	return code, ok
}

// Len returns the number of mapped libraries.
func (d *Directory) Len() int {
	return len(d.byBibnr)
}
