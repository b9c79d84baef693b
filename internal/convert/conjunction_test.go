// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import "testing"

func TestConjunctionTable_DisplayName(t *testing.T) {
	table := DefaultConjunctionTable()

	cases := []struct {
		name, country, want string
	}{
		{"Arkiv & Bibliotek", "NO", "Arkiv og Bibliotek"},
		{"Arkiv & Bibliotek", "SE", "Arkiv och Bibliotek"},
		{"Archiv & Bibliothek", "DE", "Archiv und Bibliothek"},
		{"Arkisto & Kirjasto", "FI", "Arkisto ja Kirjasto"},
		// Unmapped country falls back to the national conjunction.
		{"Arkiv & Bibliotek", "ZZ", "Arkiv og Bibliotek"},
		{"Arkiv & Bibliotek", "", "Arkiv og Bibliotek"},
		// No ampersand, no change.
		{"Deichmanske bibliotek", "NO", "Deichmanske bibliotek"},
	}
	for _, tc := range cases {
		if got := table.DisplayName(tc.name, tc.country); got != tc.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tc.name, tc.country, got, tc.want)
		}
	}
}
