// Package model defines stable boundary types for API layers.
//
// Account identity (digests, signatures, guardian registry keys) is unaffected
// by any projection. These structs are the only types intended for direct
// JSON serialization by consumers; identities cross the wire as 0x-prefixed
// hex strings and signatures as base64 byte blobs.
package model
