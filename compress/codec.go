// Package compress provides the compression codecs used by the flag-buffer
// store. Packed edge flags are short, repetitive word streams; the cheap
// byte-oriented codecs (S2, LZ4) usually suffice, Zstd trades speed for the
// best ratio on large imports, and None keeps the stream inspectable.
package compress

import (
	"fmt"
)

// Type identifies a compression algorithm in stream headers.
type Type uint8

const (
	None Type = 0x1 // None stores payloads uncompressed.
	Zstd Type = 0x2 // Zstd uses Zstandard compression.
	S2   Type = 0x3 // S2 uses S2 (Snappy-compatible) compression.
	LZ4  Type = 0x4 // LZ4 uses LZ4 block compression.
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Codec compresses and decompresses complete payloads. Implementations are
// stateless values safe for concurrent use; internal buffers are pooled.
type Codec interface {
	// Compress returns the compressed form of data in a fresh slice.
	Compress(data []byte) ([]byte, error)
	// Decompress restores data previously produced by Compress.
	Decompress(data []byte) ([]byte, error)
}

// New returns the codec for the given type.
func New(t Type) (Codec, error) {
	switch t {
	case None:
		return noopCodec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	case S2:
		return s2Codec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", uint8(t))
	}
}
