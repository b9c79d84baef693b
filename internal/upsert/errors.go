// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package upsert

import "fmt"

// RemoteError is an ILS response the protocol could not accept: a fetch
// that is neither "exists" nor "absent", or a write outside the accepted
// status range. The body excerpt is capped at 64KB.
type RemoteError struct {
	Resource   string
	Operation  string // "fetch", "create", "update"
	Code       string // entity code
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s %s failed with status %d: %s", e.Resource, e.Operation, e.Code, e.StatusCode, e.Body)
}
