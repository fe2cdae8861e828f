// Package compress provides the generic contract implemented by parquet
// decompression codecs, and a pooled helper for building one out of an
// io.Reader-based decompressor.
//
// https://github.com/apache/parquet-format/blob/master/Compression.md
package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/hyparquet-go/parquet/format"
)

// Codec is implemented by the compress sub-packages. Codec instances must be
// safe to use concurrently from multiple goroutines.
//
// Unlike the teacher codec this is modelled on, Codec here is decode-only:
// this library never writes parquet files.
type Codec interface {
	// String returns a human-readable name for the codec.
	String() string

	// CompressionCodec returns the code of the compression codec in the
	// parquet format.
	CompressionCodec() format.CompressionCodec

	// Decode writes the uncompressed version of src to dst and returns it,
	// growing dst if its capacity is too small.
	Decode(dst, src []byte) ([]byte, error)
}

// Reader is the subset of a streaming decompressor's API the Decompressor
// helper needs to recycle instances across calls.
type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

// Decompressor pools Readers so that repeated Decode calls on the same codec
// don't pay allocation cost for the decompressor's internal state on every
// page.
type Decompressor struct {
	readers sync.Pool
}

// Decode decompresses src into dst using a pooled Reader obtained from
// newReader, or built fresh the first time.
func (d *Decompressor) Decode(dst, src []byte, newReader func(io.Reader) (Reader, error)) ([]byte, error) {
	input := bytes.NewReader(src)

	r, _ := d.readers.Get().(Reader)
	if r != nil {
		if err := r.Reset(input); err != nil {
			return dst, err
		}
	} else {
		var err error
		if r, err = newReader(input); err != nil {
			return dst, err
		}
	}

	defer func() {
		if err := r.Reset(nil); err == nil {
			d.readers.Put(r)
		}
	}()

	output := bytes.NewBuffer(dst[:0])
	_, err := output.ReadFrom(r)
	return output.Bytes(), err
}

// ByCodec looks up the default Codec implementation for a format compression
// code, or nil if none is registered.
func ByCodec(codec format.CompressionCodec) Codec {
	return registry[codec]
}

var registry = map[format.CompressionCodec]Codec{}

// Register installs a Codec as the default implementation for its
// compression code. Called from each compress/* subpackage's init.
func Register(c Codec) {
	registry[c.CompressionCodec()] = c
}

// UnsupportedCodecError is returned by Decompress when no Codec is
// registered for the requested compression code.
type UnsupportedCodecError struct {
	Codec format.CompressionCodec
}

func (e *UnsupportedCodecError) Error() string {
	return "parquet: unsupported compression codec: " + e.Codec.String()
}

// LengthMismatchError is returned by Decompress when a codec produces a
// different number of bytes than the page header declared.
type LengthMismatchError struct {
	Codec format.CompressionCodec
	Want  int
	Got   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("parquet: %s: decompressed to %d bytes, page header declared %d", e.Codec, e.Got, e.Want)
}

// Decompress decompresses src with the codec registered for the given
// compression code and verifies the result is exactly uncompressedLen bytes
// long, matching the contract every page reader relies on.
func Decompress(codec format.CompressionCodec, dst, src []byte, uncompressedLen int) ([]byte, error) {
	c := ByCodec(codec)
	if c == nil {
		return nil, &UnsupportedCodecError{Codec: codec}
	}
	out, err := c.Decode(dst, src)
	if err != nil {
		return nil, err
	}
	if len(out) != uncompressedLen {
		return nil, &LengthMismatchError{Codec: codec, Want: uncompressedLen, Got: len(out)}
	}
	return out, nil
}
