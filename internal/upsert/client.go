// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package upsert implements the idempotent create-or-update protocol
// against the ILS REST API.
//
// Each entity is synchronized with a fetch-then-write exchange:
//
//	GET  /{resource}/{code}  -> 200            entity exists, update it
//	GET  /{resource}/{code}  -> 400 + NF code  entity absent, create it
//	anything else                              record a failure, no write
//
// The "not found" discriminator is a domain error code inside a 400 error
// envelope, not an HTTP 404; which code means "absent" is per-resource
// configuration. There are no retries: a failed record surfaces in the run
// report and the next scheduled run covers it.
package upsert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bibsync/internal/config"
	"github.com/tomtom215/bibsync/internal/metrics"
)

// maxErrorBodySize limits the amount of response body read for error
// reporting, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// Entity is anything the client can synchronize: it knows its own resource
// code (the URL path segment) and its wire payload.
type Entity interface {
	EntityCode() string
	Payload() ([]byte, error)
}

// Outcome reports which write the upsert performed.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Resource describes one ILS REST resource kind and its protocol quirks.
type Resource struct {
	// Name is the URL path segment and the metrics label, e.g. "partners".
	Name string

	// NotFoundCode is the domain error code that marks "does not exist yet"
	// inside a 400 error envelope.
	NotFoundCode string

	// CreatedAny2xx accepts any 2xx status for a create. The partner
	// resource accepts any 2xx; the user resource requires exactly 200.
	CreatedAny2xx bool
}

// presence is the three-way classification of a fetch.
type presence int

const (
	presenceExists presence = iota
	presenceAbsent
)

// errorEnvelope is the ILS error response shape. Only the error codes
// matter; everything else in the envelope is ignored.
type errorEnvelope struct {
	ErrorsExist bool `json:"errorsExist"`
	ErrorList   struct {
		Errors []struct {
			ErrorCode string `json:"errorCode"`
		} `json:"error"`
	} `json:"errorList"`
}

// hasCode reports whether the envelope carries the given domain error code.
func (e *errorEnvelope) hasCode(code string) bool {
	for _, apiErr := range e.ErrorList.Errors {
		if apiErr.ErrorCode == code {
			return true
		}
	}
	return false
}

// Client performs upsert exchanges for one resource kind.
//
// Thread Safety: safe for concurrent use; the rate limiter and circuit
// breaker are shared across workers.
type Client struct {
	host     string
	apiKey   string
	resource Resource
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *breaker
}

// NewClient creates an upsert client for one resource kind.
func NewClient(cfg *config.ILSConfig, resource Resource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	c := &Client{
		host:     cfg.Host,
		apiKey:   cfg.APIKey,
		resource: resource,
		client:   &http.Client{Timeout: timeout},
		limiter:  limiter,
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker("ils-" + resource.Name)
	}
	return c
}

// Upsert synchronizes one entity: fetch to classify presence, then create
// or update accordingly. The returned Outcome reports which write happened.
func (c *Client) Upsert(ctx context.Context, entity Entity) (Outcome, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpsertDuration(c.resource.Name, time.Since(start))
	}()

	code := entity.EntityCode()
	if code == "" {
		return "", fmt.Errorf("%s upsert: empty entity code", c.resource.Name)
	}

	state, err := c.fetch(ctx, code)
	if err != nil {
		return "", err
	}

	payload, err := entity.Payload()
	if err != nil {
		return "", err
	}

	if state == presenceExists {
		if err := c.update(ctx, code, payload); err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	}
	if err := c.create(ctx, code, payload); err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

// fetch classifies the entity's presence in the ILS. A 400 response is only
// "absent" when its error envelope carries the configured not-found code;
// any other 400 is a real failure and must not trigger a create.
func (c *Client) fetch(ctx context.Context, code string) (presence, error) {
	resp, err := c.do(ctx, http.MethodGet, code, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return presenceExists, nil

	case resp.StatusCode == http.StatusBadRequest:
		body := readBodyForError(resp.Body)
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return 0, fmt.Errorf("%s fetch %s: undecodable 400 response: %s", c.resource.Name, code, string(body))
		}
		if envelope.hasCode(c.resource.NotFoundCode) {
			return presenceAbsent, nil
		}
		return 0, &RemoteError{Resource: c.resource.Name, Operation: "fetch", Code: code, StatusCode: resp.StatusCode, Body: string(body)}

	default:
		body := readBodyForError(resp.Body)
		return 0, &RemoteError{Resource: c.resource.Name, Operation: "fetch", Code: code, StatusCode: resp.StatusCode, Body: string(body)}
	}
}

// update replaces an existing entity. Any 2xx status counts as success.
func (c *Client) update(ctx context.Context, code string, payload []byte) error {
	resp, err := c.do(ctx, http.MethodPut, code, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		return &RemoteError{Resource: c.resource.Name, Operation: "update", Code: code, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// create registers a new entity. The accepted status range is per-resource:
// any 2xx, or exactly 200.
func (c *Client) create(ctx context.Context, code string, payload []byte) error {
	resp, err := c.do(ctx, http.MethodPost, code, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	ok := resp.StatusCode == http.StatusOK
	if c.resource.CreatedAny2xx {
		ok = resp.StatusCode >= 200 && resp.StatusCode <= 299
	}
	if !ok {
		body := readBodyForError(resp.Body)
		return &RemoteError{Resource: c.resource.Name, Operation: "create", Code: code, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// do issues one rate-limited, breaker-protected HTTP exchange and records
// it in metrics. The caller owns the response body.
//
// Fetch and update address the entity at /{resource}/{code}; create posts
// to the collection at /{resource}, the code travels only in the body.
func (c *Client) do(ctx context.Context, method, code string, payload []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s/%s", c.host, c.resource.Name, code)
	if method == http.MethodPost {
		reqURL = fmt.Sprintf("%s/%s", c.host, c.resource.Name)
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/xml")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "apikey "+c.apiKey)
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s failed: %w", c.resource.Name, method, code, err)
	}

	metrics.RecordUpsertRequest(c.resource.Name, method, resp.StatusCode)
	return resp, nil
}

// roundTrip sends the request through the circuit breaker when one is
// configured. HTTP error statuses are not breaker failures; only transport
// errors count, so a burst of 400s cannot trip the circuit.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.client.Do(req)
	}
	return c.breaker.execute(func() (*http.Response, error) {
		return c.client.Do(req)
	})
}

// readBodyForError reads the response body for error reporting (max 64KB).
// One extra byte is read so a body of exactly the limit is not mislabeled
// as truncated.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize+1))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) > maxErrorBodySize {
		return append(body[:maxErrorBodySize], []byte("\n... (truncated)")...)
	}
	return body
}
