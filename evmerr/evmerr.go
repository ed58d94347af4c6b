// Package evmerr holds the sentinel error kinds shared by every codec
// package in this module. Call sites wrap one of these with fmt.Errorf and
// %w so callers can still errors.Is against the kind while getting a
// specific message.
package evmerr

import "errors"

var (
	// ErrInvalidType marks a type string or descriptor that does not
	// correspond to a known ABI base kind.
	ErrInvalidType = errors.New("evmcodec: invalid type")

	// ErrIncompatibleValue marks a runtime value whose shape does not
	// match the descriptor it is being checked or encoded against.
	ErrIncompatibleValue = errors.New("evmcodec: incompatible value")

	// ErrOutOfRange marks an integer value outside the range its declared
	// bit width allows.
	ErrOutOfRange = errors.New("evmcodec: value out of range")

	// ErrMalformedEncoding marks a non-canonical RLP buffer, a bad ABI
	// offset or length, or a truncated buffer.
	ErrMalformedEncoding = errors.New("evmcodec: malformed encoding")

	// ErrSignatureMismatch marks an event log whose topic0 does not match
	// the hash of the expected signature.
	ErrSignatureMismatch = errors.New("evmcodec: signature mismatch")

	// ErrUtf8 marks a dynamic bytes value that was expected to be valid
	// UTF-8 (a string parameter) but was not.
	ErrUtf8 = errors.New("evmcodec: invalid utf-8")

	// ErrLegacyChain marks an EIP-1559 operation attempted against
	// information that implies a pre-London chain.
	ErrLegacyChain = errors.New("evmcodec: eip-1559 not supported on this chain")

	// ErrTransport wraps an opaque failure from the JSON-RPC collaborator.
	ErrTransport = errors.New("evmcodec: transport error")
)
