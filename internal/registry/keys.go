// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package registry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadKeys parses the newline-delimited record key list (one bibnr per
// line). Blank lines and surrounding whitespace are ignored; order and
// duplicates are preserved, since the orchestrator's report keys on
// first-seen order.
func ReadKeys(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key := strings.TrimSpace(scanner.Text())
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key list: %w", err)
	}
	return keys, nil
}
