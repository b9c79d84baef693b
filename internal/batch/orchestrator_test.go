// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/bibsync/internal/codes"
	"github.com/tomtom215/bibsync/internal/convert"
	"github.com/tomtom215/bibsync/internal/registry"
	"github.com/tomtom215/bibsync/internal/report"
	"github.com/tomtom215/bibsync/internal/upsert"
)

// stubEntity satisfies upsert.Entity for pipeline tests.
type stubEntity struct{ code string }

func (e stubEntity) EntityCode() string       { return e.code }
func (e stubEntity) Payload() ([]byte, error) { return []byte("<x/>"), nil }

// fakeSource serves records from a map; unknown keys fail.
type fakeSource struct{ records map[string]*registry.Record }

func (s *fakeSource) Record(_ context.Context, bibnr string) (*registry.Record, error) {
	rec, ok := s.records[bibnr]
	if !ok {
		return nil, fmt.Errorf("registry request for %s failed with status 404", bibnr)
	}
	return rec, nil
}

// fakeUpserter counts upserts and optionally fails specific codes.
type fakeUpserter struct {
	mu     sync.Mutex
	codes  []string
	failOn string
}

func (u *fakeUpserter) Upsert(_ context.Context, entity upsert.Entity) (upsert.Outcome, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	code := entity.EntityCode()
	if u.failOn != "" && code == u.failOn {
		return "", fmt.Errorf("upsert %s rejected", code)
	}
	u.codes = append(u.codes, code)
	return upsert.OutcomeUpdated, nil
}

func (u *fakeUpserter) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.codes)
}

func testRecords(keys ...string) map[string]*registry.Record {
	records := make(map[string]*registry.Record, len(keys))
	for _, key := range keys {
		records[key] = &registry.Record{Bibnr: key, Name: "Bibliotek " + key, CustomerType: "FOLK"}
	}
	return records
}

func passthroughConverter() ConvertFunc {
	return func(rec *registry.Record) (upsert.Entity, error) {
		if strings.TrimSpace(rec.CustomerType) == "" {
			return nil, &convert.ValidationError{Missing: []string{"bibltype"}, Record: rec.Diagnostic()}
		}
		return stubEntity{code: rec.Bibnr}, nil
	}
}

func emptyDirectory(t *testing.T) *codes.Directory {
	t.Helper()
	dir, err := codes.Load([]byte(`[{"bibnr":"0000000","almaCode":"UNUSED"}]`))
	if err != nil {
		t.Fatalf("load directory: %v", err)
	}
	return dir
}

func TestOrchestrator_Run(t *testing.T) {
	t.Run("all keys succeed", func(t *testing.T) {
		keys := []string{"1000001", "1000002", "1000003"}
		source := &fakeSource{records: testRecords(keys...)}
		upserter := &fakeUpserter{}
		rep := report.NewBuilder(report.PartnerStyle, "")

		o := New("partners", source, passthroughConverter(), upserter, emptyDirectory(t), rep, 4)
		count, err := o.Run(context.Background(), keys)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if count != 3 {
			t.Errorf("Run() = %d, want 3", count)
		}
		if upserter.count() != 3 {
			t.Errorf("upserts = %d, want 3", upserter.count())
		}
	})

	t.Run("one conversion failure isolates to its record", func(t *testing.T) {
		keys := []string{"1000001", "1000002", "1000003"}
		records := testRecords(keys...)
		records["1000002"].CustomerType = "" // fails the required-field gate

		source := &fakeSource{records: records}
		upserter := &fakeUpserter{}
		rep := report.NewBuilder(report.PartnerStyle, "")

		o := New("partners", source, passthroughConverter(), upserter, emptyDirectory(t), rep, 2)
		count, err := o.Run(context.Background(), keys)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if count != 2 {
			t.Errorf("Run() = %d, want 2", count)
		}
		if upserter.count() != 2 {
			t.Errorf("upserts = %d, want 2, bad record must not be written", upserter.count())
		}
		rendered := rep.Render()
		if !strings.Contains(rendered, "1000002: convert") {
			t.Errorf("report missing the conversion failure:\n%s", rendered)
		}
	})

	t.Run("panicking converter is recovered", func(t *testing.T) {
		keys := []string{"1000001", "1000002"}
		source := &fakeSource{records: testRecords(keys...)}
		upserter := &fakeUpserter{}
		rep := report.NewBuilder(report.PartnerStyle, "")

		converter := ConvertFunc(func(rec *registry.Record) (upsert.Entity, error) {
			if rec.Bibnr == "1000002" {
				panic("nil table dereference")
			}
			return stubEntity{code: rec.Bibnr}, nil
		})

		o := New("partners", source, converter, upserter, emptyDirectory(t), rep, 2)
		count, err := o.Run(context.Background(), keys)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Run() = %d, want 1", count)
		}
		if !strings.Contains(rep.Render(), "panic") {
			t.Errorf("report missing the panic entry:\n%s", rep.Render())
		}
	})

	t.Run("fetch failure is recorded and skipped", func(t *testing.T) {
		source := &fakeSource{records: testRecords("1000001")} // 1000002 unknown
		upserter := &fakeUpserter{}
		rep := report.NewBuilder(report.PartnerStyle, "")

		o := New("partners", source, passthroughConverter(), upserter, emptyDirectory(t), rep, 1)
		count, err := o.Run(context.Background(), []string{"1000001", "1000002"})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Run() = %d, want 1", count)
		}
		if !strings.Contains(rep.Render(), "1000002: fetch") {
			t.Errorf("report missing the fetch failure:\n%s", rep.Render())
		}
	})

	t.Run("upsert failure is recorded and skipped", func(t *testing.T) {
		keys := []string{"1000001", "1000002"}
		source := &fakeSource{records: testRecords(keys...)}
		upserter := &fakeUpserter{failOn: "1000002"}
		rep := report.NewBuilder(report.PartnerStyle, "")

		o := New("partners", source, passthroughConverter(), upserter, emptyDirectory(t), rep, 2)
		count, err := o.Run(context.Background(), keys)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if count != 1 {
			t.Errorf("Run() = %d, want 1", count)
		}
		if !strings.Contains(rep.Render(), "1000002: upsert") {
			t.Errorf("report missing the upsert failure:\n%s", rep.Render())
		}
	})

	t.Run("records group under the mapped institution code", func(t *testing.T) {
		dir, err := codes.Load([]byte(`[{"bibnr":"1000001","almaCode":"NO-ALPHA"}]`))
		if err != nil {
			t.Fatalf("load directory: %v", err)
		}

		keys := []string{"1000001", "1000002"}
		source := &fakeSource{records: testRecords(keys...)}
		rep := report.NewBuilder(report.PartnerStyle, "")

		o := New("partners", source, passthroughConverter(), &fakeUpserter{}, dir, rep, 1)
		if _, err := o.Run(context.Background(), keys); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		rendered := rep.Render()
		if !strings.Contains(rendered, "NO-ALPHA\tok:1") {
			t.Errorf("mapped key not grouped under institution code:\n%s", rendered)
		}
		if !strings.Contains(rendered, "1000002\tok:1") {
			t.Errorf("unmapped key not grouped under bibnr:\n%s", rendered)
		}
	})

	t.Run("cancelled context surfaces as the run error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		source := &fakeSource{records: testRecords("1000001")}
		rep := report.NewBuilder(report.PartnerStyle, "")
		o := New("partners", source, passthroughConverter(), &fakeUpserter{}, emptyDirectory(t), rep, 1)

		if _, err := o.Run(ctx, []string{"1000001"}); err == nil {
			t.Error("Run() returned nil error on cancelled context")
		}
	})
}
