// Package keys provides local-first key management for warden principals.
//
// Pure, deterministic primitives (seed parsing, guardian-seed derivation,
// identity projection, signing helpers) are stable. The filesystem-backed
// Store is a convenience for development and single-operator deployments and
// is not part of the protocol contract.
package keys
