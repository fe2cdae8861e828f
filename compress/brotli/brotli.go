// Package brotli implements the BROTLI parquet compression codec.
package brotli

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/format"
)

func init() {
	compress.Register(&Codec{})
}

type Codec struct {
	d compress.Decompressor
}

func (c *Codec) String() string { return "BROTLI" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.d.Decode(dst, src, newReader)
}

func newReader(r io.Reader) (compress.Reader, error) {
	return &reader{Reader: brotli.NewReader(r)}, nil
}

// reader adapts *brotli.Reader, which has no Close method of its own, to the
// compress.Reader contract.
type reader struct{ *brotli.Reader }

func (r *reader) Close() error { return nil }

func (r *reader) Reset(rr io.Reader) error {
	if rr == nil {
		return nil
	}
	return r.Reader.Reset(rr)
}
