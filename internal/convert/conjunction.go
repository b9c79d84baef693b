// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import "strings"

// ConjunctionTable maps alpha-2 country codes to the localized word for
// "and", used to substitute `&` in institution display names. A map
// literal rather than control flow, so new languages are data changes.
type ConjunctionTable map[string]string

// defaultConjunction is the national fallback for unmapped countries.
const defaultConjunction = "og"

// DefaultConjunctionTable returns the country-to-conjunction table.
func DefaultConjunctionTable() ConjunctionTable {
	return ConjunctionTable{
		"NO": "og",
		"DK": "og",
		"SE": "och",
		"FI": "ja",
		"IS": "og",
		"DE": "und",
		"NL": "en",
		"FR": "et",
		"GB": "and",
		"US": "and",
	}
}

// DisplayName substitutes any `&` in the institution name with the
// localized conjunction for the record's country.
func (t ConjunctionTable) DisplayName(name, alpha2 string) string {
	if !strings.Contains(name, "&") {
		return name
	}
	word := defaultConjunction
	if w, ok := t[strings.ToUpper(strings.TrimSpace(alpha2))]; ok {
		word = w
	}
	return strings.ReplaceAll(name, "&", word)
}
