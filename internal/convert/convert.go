// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package convert implements the rule engine mapping a source registry
// record into a target Partner or User entity.
//
// Every sub-rule (preferred contact selection, country normalization,
// closure derivation, profile classification, category derivation,
// conjunction substitution) is a pure function over the record and the
// read-only tables passed into the converter at construction. No rule
// performs I/O; time-dependent rules take their clock from the converter.
//
// Conversion failures are recoverable: the orchestrator catches them,
// records the failure in the report, and continues with the next record.
package convert

import (
	"fmt"
	"strings"
)

// ValidationError reports required structural fields missing from a source
// record. It carries a rendered diagnostic of the record for the report.
type ValidationError struct {
	Missing []string
	Record  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record missing required field(s) %s (%s)",
		strings.Join(e.Missing, ", "), e.Record)
}

// partnerSymbol derives the resource-sharing symbol: UPPER(country)-bibnr.
func partnerSymbol(country, bibnr string) string {
	return strings.ToUpper(strings.TrimSpace(country)) + "-" + bibnr
}
