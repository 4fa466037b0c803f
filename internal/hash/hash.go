// Package hash computes content-integrity digests over artifact files.
//
// Digests are SHA-256, hex encoded. Three modes cover the corpus: raw
// bytes for plain files, decompressed bytes for compressed files whose
// decoded content is the provenance unit, and a decompressed
// ASCII-filtered mode for compressed payloads that carry non-ASCII
// noise which must not influence the digest.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/harrison/datacat/internal/codec"
	"github.com/harrison/datacat/internal/models"
)

// Mode selects how a file's bytes are fed into the digest.
type Mode int

const (
	// RawBytes digests the file content exactly as stored.
	RawBytes Mode = iota

	// DecompressedBytes decompresses the stream and digests the decoded
	// bytes.
	DecompressedBytes

	// DecompressedASCIIFiltered decompresses the stream and digests only
	// the bytes that are valid ASCII. Filtering is byte-wise, so chunk
	// boundaries cannot change which bytes survive.
	DecompressedASCIIFiltered
)

// String returns the mode name used in diagnostics.
func (m Mode) String() string {
	switch m {
	case RawBytes:
		return "raw"
	case DecompressedBytes:
		return "decompressed"
	case DecompressedASCIIFiltered:
		return "decompressed-ascii"
	}
	return "unknown"
}

// chunkSize matches the 8 KiB read window the corpus hashes were
// produced with. The digest is independent of this value; it only
// bounds memory per read.
const chunkSize = 8192

// File computes the hex-encoded SHA-256 digest of path under the given
// mode. Any read or decompression failure is returned as a
// *models.ReadError; callers treat that as "hash unavailable" and must
// abandon the enclosing group rather than substitute a placeholder.
func File(path string, mode Mode) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &models.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var src io.Reader = f
	if mode != RawBytes {
		dec, err := codec.Decode(path, f)
		if err != nil {
			return "", &models.ReadError{Path: path, Err: err}
		}
		defer dec.Close()
		src = dec
	}

	digest := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if mode == DecompressedASCIIFiltered {
				chunk = filterASCII(chunk)
			}
			digest.Write(chunk)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &models.ReadError{Path: path, Err: err}
		}
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// filterASCII drops every byte outside the 7-bit ASCII range. The
// decision is per byte, never spanning a chunk boundary.
func filterASCII(chunk []byte) []byte {
	kept := make([]byte, 0, len(chunk))
	for _, b := range chunk {
		if b < 0x80 {
			kept = append(kept, b)
		}
	}
	return kept
}
