// Package prefetch wraps a ByteSource and a fixed set of pre-issued byte
// ranges, serving later Slice calls from whichever cached fetch covers them
// instead of issuing a new round trip per column.
package prefetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyparquet-go/parquet/source"
)

// Range is a byte range to prefetch, as produced by the plan package.
type Range struct {
	Start, End int64
}

// NoPrefetchError is returned by Slice when no issued range covers the
// requested [start, end).
type NoPrefetchError struct {
	Start, End int64
}

func (e *NoPrefetchError) Error() string {
	return fmt.Sprintf("parquet: no prefetched range covers [%d, %d)", e.Start, e.End)
}

type entry struct {
	start, end int64
	once       sync.Once
	data       []byte
	err        error
}

// Buffer serves Slice requests out of a set of ranges fetched once, up
// front, concurrently.
type Buffer struct {
	src     source.ByteSource
	entries []*entry
}

// New builds a Buffer over the given ranges. Fetches aren't issued until the
// first call to Slice or Prewarm.
func New(src source.ByteSource, ranges []Range) *Buffer {
	entries := make([]*entry, len(ranges))
	for i, r := range ranges {
		entries[i] = &entry{start: r.Start, end: r.End}
	}
	return &Buffer{src: src, entries: entries}
}

// Prewarm issues every range's fetch concurrently and waits for them all to
// either land or fail, so that later Slice calls never block on I/O.
func (b *Buffer) Prewarm(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(len(b.entries))
	for _, e := range b.entries {
		e := e
		go func() {
			defer wg.Done()
			b.fetch(ctx, e)
		}()
	}
	wg.Wait()

	for _, e := range b.entries {
		if e.err != nil {
			return e.err
		}
	}
	return nil
}

func (b *Buffer) fetch(ctx context.Context, e *entry) {
	e.once.Do(func() {
		e.data, e.err = b.src.Fetch(ctx, e.start, e.end)
	})
}

// Slice returns the bytes of [start, end), fetching (and memoising) its
// covering range the first time it's needed. Fails with NoPrefetchError if
// no issued range covers the request.
func (b *Buffer) Slice(ctx context.Context, start, end int64) ([]byte, error) {
	for _, e := range b.entries {
		if e.start <= start && end <= e.end {
			b.fetch(ctx, e)
			if e.err != nil {
				return nil, e.err
			}
			return e.data[start-e.start : end-e.start], nil
		}
	}
	return nil, &NoPrefetchError{Start: start, End: end}
}
