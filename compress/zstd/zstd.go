// Package zstd implements the ZSTD parquet compression codec.
package zstd

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/format"
)

func init() {
	compress.Register(&Codec{})
}

type Codec struct {
	d compress.Decompressor
}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.d.Decode(dst, src, newReader)
}

func newReader(r io.Reader) (compress.Reader, error) {
	z, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return reader{z}, nil
}

// reader adapts *zstd.Decoder (which has no Close-then-reuse semantics of
// its own Reset error return) to the compress.Reader contract.
type reader struct{ *zstd.Decoder }

func (r reader) Close() error {
	r.Decoder.Close()
	return nil
}

func (r reader) Reset(rr io.Reader) error {
	return r.Decoder.Reset(rr)
}
