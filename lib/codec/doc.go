// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration.
//
// JSON is the wire format of the Display & Video 360 API and of CLI
// output. CBOR is used for bytes this module keeps for itself, such as
// operation snapshots in the journal. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2), so the same logical value
// always produces the same bytes and snapshots can be compared
// byte-for-byte.
//
//	data, err := codec.Marshal(op)
//	err = codec.Unmarshal(data, &op)
//
// Struct fields without a cbor tag use their json tag, so API types
// need no second set of annotations.
package codec
