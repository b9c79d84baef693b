// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import "strings"

// CountryTable maps ISO 3166-1 alpha-2 country codes to alpha-3. It is
// built once at process start and passed read-only into the converters;
// there is no package-level mutable state.
type CountryTable map[string]string

// DefaultCountryTable returns the alpha-2 to alpha-3 table covering the
// countries that occur in the registry feed.
func DefaultCountryTable() CountryTable {
	return CountryTable{
		"AT": "AUT",
		"BE": "BEL",
		"CA": "CAN",
		"CH": "CHE",
		"CZ": "CZE",
		"DE": "DEU",
		"DK": "DNK",
		"EE": "EST",
		"ES": "ESP",
		"FI": "FIN",
		"FO": "FRO",
		"FR": "FRA",
		"GB": "GBR",
		"GL": "GRL",
		"GR": "GRC",
		"HU": "HUN",
		"IE": "IRL",
		"IS": "ISL",
		"IT": "ITA",
		"LT": "LTU",
		"LU": "LUX",
		"LV": "LVA",
		"NL": "NLD",
		"NO": "NOR",
		"PL": "POL",
		"PT": "PRT",
		"RU": "RUS",
		"SE": "SWE",
		"SJ": "SJM",
		"SK": "SVK",
		"US": "USA",
	}
}

// Normalize converts an alpha-2 code to alpha-3. On a miss the uppercased
// alpha-2 code passes through unchanged; a miss is a silent degrade, not
// an error.
func (t CountryTable) Normalize(alpha2 string) string {
	code := strings.ToUpper(strings.TrimSpace(alpha2))
	if alpha3, ok := t[code]; ok {
		return alpha3
	}
	return code
}
