// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import (
	"testing"
	"time"

	"github.com/tomtom215/bibsync/internal/registry"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsClosed(t *testing.T) {
	t.Run("explicit marker closes regardless of dates", func(t *testing.T) {
		rec := &registry.Record{Closed: "X", ClosedFrom: "2016-05-10", ClosedTo: "2016-05-20"}
		closed, err := isClosed(rec, date("2099-01-01"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if !closed {
			t.Error("marker set but library reported open")
		}
	})

	t.Run("now within range is closed", func(t *testing.T) {
		rec := &registry.Record{ClosedFrom: "2016-05-10", ClosedTo: "2016-05-20"}
		closed, err := isClosed(rec, date("2016-05-15"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if !closed {
			t.Error("now inside range but library reported open")
		}
	})

	t.Run("now after range is open", func(t *testing.T) {
		rec := &registry.Record{ClosedFrom: "2016-05-10", ClosedTo: "2016-05-20"}
		closed, err := isClosed(rec, date("2016-05-25"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if closed {
			t.Error("now after range but library reported closed")
		}
	})

	t.Run("now before range is open", func(t *testing.T) {
		rec := &registry.Record{ClosedFrom: "2016-05-10", ClosedTo: "2016-05-20"}
		closed, err := isClosed(rec, date("2016-05-05"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if closed {
			t.Error("now before range but library reported closed")
		}
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		rec := &registry.Record{ClosedFrom: "2016-05-10", ClosedTo: "2016-05-20"}
		for _, day := range []string{"2016-05-10", "2016-05-20"} {
			closed, err := isClosed(rec, date(day))
			if err != nil {
				t.Fatalf("isClosed(%s) error = %v", day, err)
			}
			if !closed {
				t.Errorf("bound day %s reported open, want closed", day)
			}
		}
	})

	t.Run("open start bound still excludes", func(t *testing.T) {
		rec := &registry.Record{ClosedTo: "2016-05-20"}
		closed, err := isClosed(rec, date("2016-05-25"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if closed {
			t.Error("now after end bound but library reported closed")
		}

		closed, err = isClosed(rec, date("2016-05-01"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if !closed {
			t.Error("now before open-ended start but library reported open")
		}
	})

	t.Run("open end bound still excludes", func(t *testing.T) {
		rec := &registry.Record{ClosedFrom: "2016-05-10"}
		closed, err := isClosed(rec, date("2016-05-01"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if closed {
			t.Error("now before start bound but library reported closed")
		}
	})

	t.Run("no marker and no bounds is open", func(t *testing.T) {
		closed, err := isClosed(&registry.Record{}, date("2016-05-15"))
		if err != nil {
			t.Fatalf("isClosed() error = %v", err)
		}
		if closed {
			t.Error("empty closure data but library reported closed")
		}
	})

	t.Run("malformed date is a recoverable error", func(t *testing.T) {
		rec := &registry.Record{ClosedFrom: "10.05.2016"}
		if _, err := isClosed(rec, date("2016-05-15")); err == nil {
			t.Error("isClosed() succeeded on malformed date")
		}
	})
}
