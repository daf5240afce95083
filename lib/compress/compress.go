// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress compresses small stored blobs with a named
// algorithm. The algorithm is recorded alongside each blob as a Tag so
// that readers never guess.
package compress

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies the algorithm a blob was compressed with. Values are
// persisted; do not renumber.
type Tag uint8

const (
	// None stores the bytes as given.
	None Tag = 0

	// LZ4 is LZ4 block compression: fast, modest ratio.
	LZ4 Tag = 1

	// Zstd is zstd at the default level: better ratio for JSON-like
	// payloads.
	Zstd Tag = 2
)

func (tag Tag) String() string {
	switch tag {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseTag parses "none", "lz4" or "zstd". The empty string means
// None.
func ParseTag(name string) (Tag, error) {
	switch name {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("compress: unknown algorithm %q (want none, lz4 or zstd)", name)
	}
}

func (tag Tag) MarshalText() ([]byte, error) {
	return []byte(tag.String()), nil
}

func (tag *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*tag = parsed
	return nil
}

// ErrIncompressible is returned by Compress when the output would not
// be smaller than the input.
var ErrIncompressible = errors.New("compress: data is incompressible")

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress compresses data with tag. None returns data itself.
func Compress(data []byte, tag Tag) ([]byte, error) {
	switch tag {
	case None:
		return data, nil
	case LZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(data)))
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("compress: lz4: %w", err)
		}
		if written == 0 || written >= len(data) {
			return nil, ErrIncompressible
		}
		return destination[:written], nil
	case Zstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, ErrIncompressible
		}
		return compressed, nil
	default:
		return nil, fmt.Errorf("compress: unsupported tag %d", uint8(tag))
	}
}

// CompressOrStore compresses data with tag, falling back to None when
// the data does not shrink. Returns the bytes and the tag actually
// used.
func CompressOrStore(data []byte, tag Tag) ([]byte, Tag, error) {
	compressed, err := Compress(data, tag)
	if errors.Is(err, ErrIncompressible) {
		return data, None, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return compressed, tag, nil
}

// Decompress reverses Compress. size is the original length and is
// verified.
func Decompress(compressed []byte, tag Tag, size int) ([]byte, error) {
	switch tag {
	case None:
		if len(compressed) != size {
			return nil, fmt.Errorf("compress: stored blob is %d bytes, expected %d", len(compressed), size)
		}
		return compressed, nil
	case LZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(compressed, destination)
		if err != nil {
			return nil, fmt.Errorf("compress: lz4: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("compress: lz4 produced %d bytes, expected %d", read, size)
		}
		return destination, nil
	case Zstd:
		result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("compress: zstd: %w", err)
		}
		if len(result) != size {
			return nil, fmt.Errorf("compress: zstd produced %d bytes, expected %d", len(result), size)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("compress: unsupported tag %d", uint8(tag))
	}
}
