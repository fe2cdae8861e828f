package source

import (
	"context"
	"fmt"
	"io"
)

// FromReaderAt adapts a local io.ReaderAt (an *os.File, a bytes.Reader, ...)
// to ByteSource, the way the teacher's OpenFile wraps a reader for a local
// file. Fetch blocks synchronously; there is no concurrency to exploit when
// the source is already in memory or on local disk.
func FromReaderAt(r io.ReaderAt, size int64) ByteSource {
	return &readerAtSource{r: r, size: size}
}

type readerAtSource struct {
	r    io.ReaderAt
	size int64
}

func (s *readerAtSource) Size(ctx context.Context) (int64, error) {
	return s.size, nil
}

func (s *readerAtSource) Fetch(ctx context.Context, start, end int64) ([]byte, error) {
	if start < 0 || end < start || end > s.size {
		return nil, fmt.Errorf("parquet: invalid byte range [%d, %d) of %d-byte file", start, end, s.size)
	}
	buf := make([]byte, end-start)
	if _, err := io.ReadFull(io.NewSectionReader(s.r, start, end-start), buf); err != nil {
		return nil, &Error{Start: start, End: end, Err: err}
	}
	return buf, nil
}
