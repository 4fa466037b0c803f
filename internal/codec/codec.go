// Package codec provides transparent decompression of artifact streams.
//
// The pipeline treats compression as an opaque byte-stream transform:
// callers hand in an open reader plus the file path, and the codec is
// selected by filename extension. Paths with no recognized compression
// extension pass through unchanged, so the same call site works for
// plain and compressed members.
package codec

import (
	"io"
	"path/filepath"

	"compress/bzip2"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Decode wraps r with the decompressor matching path's extension.
// Recognized extensions: .bz2, .gz, .zst. Anything else returns r
// unchanged. The returned ReadCloser must be closed by the caller;
// closing it does not close the underlying reader.
func Decode(path string, r io.Reader) (io.ReadCloser, error) {
	switch filepath.Ext(path) {
	case ".bz2":
		// The standard library ships a decompressor only, which is all
		// the pipeline needs: .bz2 artifacts are never produced here.
		return io.NopCloser(bzip2.NewReader(r)), nil
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// IsCompressed reports whether path carries a recognized compression
// extension.
func IsCompressed(path string) bool {
	switch filepath.Ext(path) {
	case ".bz2", ".gz", ".zst":
		return true
	}
	return false
}
