// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import (
	"strings"

	"github.com/tomtom215/bibsync/internal/models"
)

// Category is the derived library category of a record.
type Category string

// Library categories.
const (
	CategoryPublic   Category = "PUBLIC"
	CategorySchool   Category = "SCHOOL"
	CategoryAcademic Category = "ACADEMIC"
	CategoryHealth   Category = "HEALTH"
	CategorySpecial  Category = "SPECIAL"
	CategoryNational Category = "NATIONAL"
	CategoryForeign  Category = "FOREIGN"
	CategoryUnknown  Category = "UNKNOWN"
)

// prefixBand maps a leading bibnr prefix to a category. Bands are matched
// longest prefix first, so a three-character band shadows its one-character
// parent.
type prefixBand struct {
	prefix   string
	category Category
}

// keywordRule maps a customer-type keyword to a category. Rules are
// matched in slice order so a token containing several keywords always
// classifies the same way.
type keywordRule struct {
	keyword  string
	category Category
}

// CategoryTable drives the library-category decision: bibnr prefix bands
// first, then free-text customer-type keywords, then the Unknown sentinel.
// Built once at process start and passed read-only into the converters.
type CategoryTable struct {
	bands    []prefixBand
	keywords []keywordRule
	groups   map[Category]string
}

// DefaultCategoryTable returns the table matching the registry's number
// bands and customer-type vocabulary.
func DefaultCategoryTable() *CategoryTable {
	return &CategoryTable{
		// Longest prefixes first: matching stops at the first hit.
		bands: []prefixBand{
			{"100", CategoryNational}, // national library band
			{"60", CategoryForeign},   // Denmark
			{"61", CategoryForeign},
			{"70", CategoryForeign}, // Sweden
			{"71", CategoryForeign},
			{"80", CategoryForeign}, // Finland
			{"1", CategoryPublic},
			{"2", CategorySchool},
			{"3", CategoryAcademic},
			{"4", CategorySpecial},
			{"5", CategoryHealth},
		},
		// First matching rule wins; order is part of the contract.
		keywords: []keywordRule{
			{"FOLK", CategoryPublic},
			{"FYLK", CategoryPublic},
			{"SKOLE", CategorySchool},
			{"VGS", CategorySchool},
			{"GRS", CategorySchool},
			{"UNIV", CategoryAcademic},
			{"HGSK", CategoryAcademic},
			{"FAG", CategoryAcademic},
			{"FORSK", CategoryAcademic},
			{"SYK", CategoryHealth},
			{"HELSE", CategoryHealth},
			{"MED", CategoryHealth},
			{"FENG", CategorySpecial},
			{"MUS", CategorySpecial},
			{"ARK", CategorySpecial},
			{"NASJ", CategoryNational},
		},
		// User-group whitelist: categories outside this map render as the
		// NOTFOUND sentinel rather than failing the record.
		groups: map[Category]string{
			CategoryPublic:   "PUBLIC",
			CategorySchool:   "SCHOOL",
			CategoryAcademic: "ACADEMIC",
			CategoryHealth:   "HEALTH",
			CategorySpecial:  "SPECIAL",
			CategoryNational: "NATIONAL",
		},
	}
}

// Category derives the library category for a record. The bibnr prefix
// bands win; the customer-type field is the fallback, testing up to two
// `+`-separated tokens independently against the ordered keyword rules.
func (t *CategoryTable) Category(bibnr, customerType string) Category {
	for _, band := range t.bands {
		if strings.HasPrefix(bibnr, band.prefix) {
			return band.category
		}
	}

	tokens := strings.SplitN(strings.ToUpper(customerType), "+", 2)
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		for _, rule := range t.keywords {
			if strings.Contains(token, rule.keyword) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}

// UserGroup maps a category to its user-group code. Categories outside
// the whitelist map to the NOTFOUND sentinel, never an error.
func (t *CategoryTable) UserGroup(category Category) string {
	if group, ok := t.groups[category]; ok {
		return group
	}
	return models.UserGroupNotFound
}
