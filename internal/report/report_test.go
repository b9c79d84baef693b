// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package report

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestBuilder_RenderPartnerStyle(t *testing.T) {
	t.Run("interleaved adds render in first-seen key order", func(t *testing.T) {
		b := NewBuilder(PartnerStyle, "")
		b.AddSuccess("lib001")
		b.AddSuccess("lib002")
		b.AddFailure("lib003", "A")
		b.AddFailure("lib003", "B")
		b.AddSuccess("lib003")
		b.AddSuccess("lib003")

		want := "lib001\tok:1\tfailures:0\tfailed:[]\n" +
			"lib002\tok:1\tfailures:0\tfailed:[]\n" +
			"lib003\tok:2\tfailures:2\tfailed:[A, B]\n"
		if got := b.Render(); got != want {
			t.Errorf("Render() =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("empty builder renders nothing", func(t *testing.T) {
		if got := NewBuilder(PartnerStyle, "").Render(); got != "" {
			t.Errorf("Render() = %q, want empty", got)
		}
	})

	t.Run("empty key buckets under the placeholder", func(t *testing.T) {
		b := NewBuilder(PartnerStyle, "")
		b.AddFailure("", "record 123: no mapping")

		got := b.Render()
		if !strings.HasPrefix(got, PlaceholderKey+"\t") {
			t.Errorf("Render() = %q, want line keyed %q", got, PlaceholderKey)
		}
	})

	t.Run("render does not reset the tallies", func(t *testing.T) {
		b := NewBuilder(PartnerStyle, "")
		b.AddSuccess("lib001")
		first := b.Render()
		if second := b.Render(); second != first {
			t.Errorf("second Render() = %q, want %q", second, first)
		}
	})
}

func TestBuilder_RenderUserStyle(t *testing.T) {
	b := NewBuilder(UserStyle, "users")
	b.AddSuccess("lib001")
	b.AddFailure("lib001", "1030310: convert failed")

	want := "lib001\tfailures:1\tusers\tfailed:[1030310: convert failed]\n"
	if got := b.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBuilder_ConcurrentAdds(t *testing.T) {
	b := NewBuilder(PartnerStyle, "")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("lib%03d", n%3)
			for j := 0; j < 100; j++ {
				if j%10 == 0 {
					b.AddFailure(key, "x")
				} else {
					b.AddSuccess(key)
				}
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(b.Render(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3:\n%s", len(lines), b.Render())
	}
	// 10 goroutines over 3 keys: keys 0 gets 4 workers, 1 and 2 get 3.
	var totalOK, totalFailed int
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			t.Fatalf("unparseable line %q", line)
		}
		var ok, failures int
		fmt.Sscanf(fields[1], "ok:%d", &ok)
		fmt.Sscanf(fields[2], "failures:%d", &failures)
		totalOK += ok
		totalFailed += failures
	}
	if totalOK != 900 || totalFailed != 100 {
		t.Errorf("totals ok=%d failed=%d, want 900/100", totalOK, totalFailed)
	}
}
