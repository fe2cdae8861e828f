// Package uncompressed implements the identity "codec" used by columns
// written with CompressionCodec UNCOMPRESSED.
package uncompressed

import (
	"github.com/hyparquet-go/parquet/compress"
	"github.com/hyparquet-go/parquet/format"
)

func init() {
	compress.Register(&Codec{})
}

type Codec struct{}

func (c *Codec) String() string { return "UNCOMPRESSED" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Uncompressed }

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
