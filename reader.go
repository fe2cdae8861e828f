package parquet

import (
	"context"
	"fmt"

	"github.com/hyparquet-go/parquet/format"
	"github.com/hyparquet-go/parquet/source"
)

// DefaultInitialFetch is the trailing window ReadMetadata fetches before
// knowing the footer's actual size (spec.md §4.B: "try 512 KiB first,
// refetch if metadata exceeds that window").
const DefaultInitialFetch = 512 * 1024

// ReadMetadata fetches and decodes a file's footer. It first fetches the
// trailing initialFetch bytes (DefaultInitialFetch if initialFetch<=0); if
// the encoded metadata turns out to be larger than that window, it refetches
// exactly the bytes it's missing.
func ReadMetadata(ctx context.Context, src source.ByteSource, initialFetch int64) (*format.FileMetaData, error) {
	if initialFetch <= 0 {
		initialFetch = DefaultInitialFetch
	}

	size, err := src.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("parquet: reading file size: %w", err)
	}

	window := initialFetch
	if window > size {
		window = size
	}
	start := size - window
	buf, err := src.Fetch(ctx, start, size)
	if err != nil {
		return nil, fmt.Errorf("parquet: fetching footer: %w", err)
	}

	metadataLength, err := format.FooterMetadataLength(buf)
	if badLen, ok := err.(*format.BadMetadataLengthError); ok && window < size {
		// The first fetch's window didn't even cover the whole encoded
		// Thrift struct, so FooterMetadataLength couldn't validate it
		// against what it was given (spec.md §4.B). badLen.MetadataLength
		// is still the length the trailer actually encodes; refetch a
		// window wide enough to hold it and decode for real.
		metadataLength = badLen.MetadataLength
		err = nil
	}
	if err != nil {
		return nil, err
	}

	footerStart := size - 8 - int64(metadataLength)
	if footerStart < start {
		if footerStart < 0 {
			return nil, &format.BadMetadataLengthError{MetadataLength: metadataLength, Available: size - 8}
		}
		// The first fetch didn't reach far enough back to cover the whole
		// Thrift struct; refetch exactly the missing prefix instead of
		// re-requesting bytes we already have.
		prefix, err := src.Fetch(ctx, footerStart, start)
		if err != nil {
			return nil, fmt.Errorf("parquet: refetching footer: %w", err)
		}
		buf = append(prefix, buf...)
		start = footerStart
	}

	footer := buf[footerStart-start : int64(len(buf))-8]
	return format.DecodeFileMetaData(footer, metadataLength)
}
