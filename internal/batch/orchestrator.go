// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package batch drives a synchronization run: a bounded worker pool that
// fetches, converts, and upserts one record per key, isolating every
// failure at the per-record boundary so one bad record never aborts the
// run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bibsync/internal/codes"
	"github.com/tomtom215/bibsync/internal/convert"
	"github.com/tomtom215/bibsync/internal/logging"
	"github.com/tomtom215/bibsync/internal/metrics"
	"github.com/tomtom215/bibsync/internal/registry"
	"github.com/tomtom215/bibsync/internal/report"
	"github.com/tomtom215/bibsync/internal/upsert"
)

// RecordSource fetches one source record by key.
type RecordSource interface {
	Record(ctx context.Context, bibnr string) (*registry.Record, error)
}

// Converter maps one source record to an upsertable entity.
type Converter interface {
	Convert(rec *registry.Record) (upsert.Entity, error)
}

// ConvertFunc adapts a plain conversion function to the Converter
// interface.
type ConvertFunc func(rec *registry.Record) (upsert.Entity, error)

func (f ConvertFunc) Convert(rec *registry.Record) (upsert.Entity, error) { return f(rec) }

// Upserter synchronizes one entity against the ILS.
type Upserter interface {
	Upsert(ctx context.Context, entity upsert.Entity) (upsert.Outcome, error)
}

// Orchestrator runs one synchronization job over a list of record keys.
//
// Thread Safety: Run may not be called concurrently on the same
// Orchestrator; the collaborators it drives are shared across its workers
// and must be concurrency-safe themselves.
type Orchestrator struct {
	job       string
	source    RecordSource
	converter Converter
	upserter  Upserter
	dir       *codes.Directory
	report    *report.Builder
	workers   int
}

// New creates an orchestrator for one job.
func New(job string, source RecordSource, converter Converter, upserter Upserter, dir *codes.Directory, rep *report.Builder, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		job:       job,
		source:    source,
		converter: converter,
		upserter:  upserter,
		dir:       dir,
		report:    rep,
		workers:   workers,
	}
}

// Run processes every key and returns the number that fully succeeded.
// Failures are logged, counted in metrics, and recorded in the report;
// they never abort the run. Only context cancellation is returned as an
// error, alongside the successes achieved before it.
func (o *Orchestrator) Run(ctx context.Context, keys []string) (int, error) {
	runID := uuid.NewString()
	log := logging.With().Str("run_id", runID).Str("job", o.job).Logger()
	start := time.Now()

	log.Info().Int("keys", len(keys)).Int("workers", o.workers).Msg("Batch run starting")

	var successes atomic.Int64

	g := &errgroup.Group{}
	g.SetLimit(o.workers)
	for _, key := range keys {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if o.processOne(ctx, &log, key) {
				successes.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	count := int(successes.Load())
	metrics.ObserveBatchRun(o.job, time.Since(start), count)
	log.Info().Int("succeeded", count).Int("failed", len(keys)-count).Dur("elapsed", time.Since(start)).Msg("Batch run finished")

	return count, ctx.Err()
}

// processOne runs the fetch-convert-upsert pipeline for a single key.
// Panics from defect-class conversion bugs are recovered here so a single
// poisoned record cannot take down the whole run.
func (o *Orchestrator) processOne(ctx context.Context, log *zerolog.Logger, key string) (ok bool) {
	groupKey := key

	defer func() {
		if r := recover(); r != nil {
			ok = false
			metrics.RecordsProcessed.WithLabelValues(o.job, "convert_error").Inc()
			metrics.ConversionErrors.WithLabelValues(o.job, "defect").Inc()
			log.Error().Str("bibnr", key).Interface("panic", r).Msg("Record processing panicked")
			o.report.AddFailure(groupKey, fmt.Sprintf("%s: panic: %v", key, r))
		}
	}()

	rec, err := o.source.Record(ctx, key)
	if err != nil {
		metrics.RecordsProcessed.WithLabelValues(o.job, "fetch_error").Inc()
		log.Warn().Err(err).Str("bibnr", key).Msg("Record fetch failed")
		o.report.AddFailure(o.groupKeyFor(key), fmt.Sprintf("%s: fetch: %v", key, err))
		return false
	}
	groupKey = o.groupKeyFor(rec.Bibnr)

	entity, err := o.converter.Convert(rec)
	if err != nil {
		metrics.RecordsProcessed.WithLabelValues(o.job, "convert_error").Inc()
		metrics.ConversionErrors.WithLabelValues(o.job, conversionReason(err)).Inc()
		log.Warn().Err(err).Str("bibnr", key).Msg("Record conversion failed")
		o.report.AddFailure(groupKey, fmt.Sprintf("%s: convert: %v", key, err))
		return false
	}

	outcome, err := o.upserter.Upsert(ctx, entity)
	if err != nil {
		metrics.RecordsProcessed.WithLabelValues(o.job, "upsert_error").Inc()
		log.Warn().Err(err).Str("bibnr", key).Msg("Record upsert failed")
		o.report.AddFailure(groupKey, fmt.Sprintf("%s: upsert: %v", key, err))
		return false
	}

	metrics.RecordsProcessed.WithLabelValues(o.job, "success").Inc()
	log.Debug().Str("bibnr", key).Str("outcome", string(outcome)).Msg("Record synchronized")
	o.report.AddSuccess(groupKey)
	return true
}

// groupKeyFor derives the report group key: the mapped institution code
// when the directory knows the bibnr, else the bibnr itself. An empty key
// buckets under the report placeholder.
func (o *Orchestrator) groupKeyFor(bibnr string) string {
	if code, ok := o.dir.Lookup(bibnr); ok {
		return code
	}
	return bibnr
}

// conversionReason classifies a conversion failure for metrics.
func conversionReason(err error) string {
	var verr *convert.ValidationError
	if errors.As(err, &verr) {
		return "validation"
	}
	return "other"
}
