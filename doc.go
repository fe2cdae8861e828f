// Package parquet is a read-only decoder for the Apache Parquet file format:
// footer/metadata parsing, schema modelling, byte-range planning, page
// decoding, and Dremel-style nested record assembly, orchestrated here into
// a single streaming Read entry point (spec.md §4.J's row-group
// orchestrator).
//
// Decompression and random-access byte sourcing are external collaborators
// (source.ByteSource, compress.Codec); this package wires the default codec
// set (compress/{snappy,gzip,zstd,brotli,lz4,uncompressed}) in so callers
// get a working decoder out of the box, the way the teacher's top-level
// package registers its own codec implementations.
package parquet

import (
	_ "github.com/hyparquet-go/parquet/compress/brotli"
	_ "github.com/hyparquet-go/parquet/compress/gzip"
	_ "github.com/hyparquet-go/parquet/compress/lz4"
	_ "github.com/hyparquet-go/parquet/compress/snappy"
	_ "github.com/hyparquet-go/parquet/compress/uncompressed"
	_ "github.com/hyparquet-go/parquet/compress/zstd"
)
