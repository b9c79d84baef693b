// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import "testing"

func TestCountryTable_Normalize(t *testing.T) {
	table := DefaultCountryTable()

	cases := []struct{ in, want string }{
		{"NO", "NOR"},
		{"SE", "SWE"},
		{"DE", "DEU"},
		{"DK", "DNK"},
		{"no", "NOR"},
		{" no ", "NOR"},
		{"ZZ", "ZZ"}, // unknown passes through uppercased, silently
		{"zz", "ZZ"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := table.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
