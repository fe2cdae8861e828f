// Package lz4 implements the LZ4_RAW parquet compression codec.
package lz4

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/format"
)

func init() {
	compress.Register(&Codec{})
}

type Codec struct {
	d compress.Decompressor
}

func (c *Codec) String() string { return "LZ4_RAW" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Lz4Raw }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.d.Decode(dst, src, newReader)
}

func newReader(r io.Reader) (compress.Reader, error) {
	return &reader{reader: r}, nil
}

type reader struct {
	buffer bytes.Buffer
	data   []byte
	offset int
	reader io.Reader
}

func (r *reader) Close() error {
	r.offset = len(r.data)
	r.reader = nil
	return nil
}

func (r *reader) Reset(rr io.Reader) error {
	r.buffer.Reset()
	r.data = r.data[:0]
	r.offset = 0
	r.reader = rr
	return nil
}

func (r *reader) Read(b []byte) (n int, err error) {
	if r.offset == 0 && len(r.data) == 0 {
		if err := r.decompress(); err != nil {
			return 0, err
		}
	}
	n = copy(b, r.data[r.offset:])
	r.offset += n
	if r.offset == len(r.data) {
		err = io.EOF
	}
	return n, err
}

// decompress grows its output buffer and retries when lz4.UncompressBlock
// reports the destination was too small — LZ4_RAW carries no uncompressed
// size field, so parquet readers can't size the buffer up front.
func (r *reader) decompress() error {
	if r.reader == nil {
		return io.EOF
	}
	if _, err := r.buffer.ReadFrom(r.reader); err != nil {
		return err
	}

	if size := 3 * r.buffer.Len(); cap(r.data) < size {
		r.data = make([]byte, size)
	} else {
		r.data = r.data[:cap(r.data)]
	}

	for {
		n, err := lz4.UncompressBlock(r.buffer.Bytes(), r.data)
		if err != nil {
			r.data = make([]byte, 2*len(r.data))
			continue
		}
		r.data = r.data[:n]
		return nil
	}
}
