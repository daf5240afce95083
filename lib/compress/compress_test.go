// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func compressibleJSON() []byte {
	return bytes.Repeat([]byte(`{"name":"sdfdownloadtasks/operations/1","done":false},`), 200)
}

func TestRoundTrip(t *testing.T) {
	data := compressibleJSON()
	for _, tag := range []Tag{None, LZ4, Zstd} {
		t.Run(tag.String(), func(t *testing.T) {
			compressed, err := Compress(data, tag)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if tag != None && len(compressed) >= len(data) {
				t.Errorf("%s did not shrink repetitive JSON (%d -> %d)", tag, len(data), len(compressed))
			}
			restored, err := Decompress(compressed, tag, len(data))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(restored, data) {
				t.Error("round trip changed the data")
			}
		})
	}
}

func TestCompressOrStoreFallsBack(t *testing.T) {
	random := make([]byte, 256)
	rand.Read(random)

	if _, err := Compress(random, Zstd); !errors.Is(err, ErrIncompressible) {
		t.Fatalf("Compress(random) = %v, want ErrIncompressible", err)
	}
	stored, tag, err := CompressOrStore(random, Zstd)
	if err != nil {
		t.Fatalf("CompressOrStore: %v", err)
	}
	if tag != None || !bytes.Equal(stored, random) {
		t.Errorf("fallback returned tag %s", tag)
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	data := compressibleJSON()
	compressed, err := Compress(data, Zstd)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decompress(compressed, Zstd, len(data)+1); err == nil {
		t.Error("size mismatch accepted")
	}
	if _, err := Decompress([]byte("abc"), None, 4); err == nil {
		t.Error("size mismatch accepted for none")
	}
	if _, err := Decompress(compressed, Tag(9), len(data)); err == nil {
		t.Error("unknown tag accepted")
	}
}

func TestParseTag(t *testing.T) {
	for name, want := range map[string]Tag{"": None, "none": None, "lz4": LZ4, "zstd": Zstd} {
		got, err := ParseTag(name)
		if err != nil || got != want {
			t.Errorf("ParseTag(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseTag("gzip"); err == nil {
		t.Error("ParseTag accepted gzip")
	}

	var tag Tag
	if err := tag.UnmarshalText([]byte("lz4")); err != nil || tag != LZ4 {
		t.Errorf("UnmarshalText = %v, %v", tag, err)
	}
}
