// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package report accumulates per-group run results and renders them as
// the plain-text summary handed to operators after a batch run.
package report

import (
	"fmt"
	"strings"
	"sync"
)

// PlaceholderKey buckets results whose group key could not be derived.
const PlaceholderKey = "(ukjent)"

// Style selects the line format. The two jobs historically emit slightly
// different columns and both formats are kept stable for downstream
// parsing.
type Style int

const (
	// PartnerStyle renders "<key>\tok:<n>\tfailures:<n>\tfailed:[a, b]".
	PartnerStyle Style = iota
	// UserStyle renders "<key>\tfailures:<n>\t<label>\tfailed:[a, b]".
	UserStyle
)

// entry is the tally for one group key.
type entry struct {
	ok       int
	failures []string
}

// Builder accumulates grouped successes and failures.
//
// Thread Safety: safe for concurrent use. Group keys render in first-seen
// order, which under concurrency is the order Add calls won the lock.
type Builder struct {
	mu    sync.Mutex
	style Style
	label string
	order []string
	byKey map[string]*entry
}

// NewBuilder creates a report builder. The label is only rendered by
// UserStyle and is ignored otherwise.
func NewBuilder(style Style, label string) *Builder {
	return &Builder{
		style: style,
		label: label,
		byKey: make(map[string]*entry),
	}
}

// AddSuccess tallies one successful record under the given group key.
func (b *Builder) AddSuccess(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entryFor(key).ok++
}

// AddFailure tallies one failed record under the given group key. The
// detail string identifies the record and the failure cause.
func (b *Builder) AddFailure(key, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.entryFor(key)
	e.failures = append(e.failures, detail)
}

// entryFor returns the tally for key, creating it in first-seen order.
// Callers must hold the lock.
func (b *Builder) entryFor(key string) *entry {
	if key == "" {
		key = PlaceholderKey
	}
	e, ok := b.byKey[key]
	if !ok {
		e = &entry{}
		b.byKey[key] = e
		b.order = append(b.order, key)
	}
	return e
}

// Render produces the report text, one line per group key in first-seen
// order. Rendering does not reset the builder.
func (b *Builder) Render() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	for _, key := range b.order {
		e := b.byKey[key]
		switch b.style {
		case UserStyle:
			fmt.Fprintf(&sb, "%s\tfailures:%d\t%s\tfailed:[%s]\n", key, len(e.failures), b.label, strings.Join(e.failures, ", "))
		default:
			fmt.Fprintf(&sb, "%s\tok:%d\tfailures:%d\tfailed:[%s]\n", key, e.ok, len(e.failures), strings.Join(e.failures, ", "))
		}
	}
	return sb.String()
}
