// Package common holds the primitive value types shared by every codec
// package in this module: a fixed-width Address, a non-owning Hex view over
// a byte string, and the Keccak-256 helpers EIP-55 checksumming and the ABI
// layer both need.
package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BottleFmt/gobottle"
	"golang.org/x/crypto/sha3"

	"github.com/ModChain/evmcodec/evmerr"
)

// AddressLength is the fixed byte length of an Ethereum address.
const AddressLength = 20

// Zero is the sentinel address used to distinguish "explicitly zero" from
// "unset" at call sites that otherwise use a pointer or an ok-bool.
var Zero = Address{}

// Address is a fixed-width 20-byte Ethereum account or contract address.
type Address [AddressLength]byte

// BytesToAddress left-truncates or left-pads b to AddressLength bytes, the
// same rule the ABI decoder applies when pulling an address out of a
// 32-byte slot.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// ParseAddress parses a 42-character 0x-prefixed address string. If the
// string mixes case, its EIP-55 checksum is verified; an all-lowercase (or
// all-uppercase-after-0x) string skips the checksum check.
func ParseAddress(s string) (Address, error) {
	if len(s) != 2+2*AddressLength || !strings.HasPrefix(s, "0x") {
		return Address{}, fmt.Errorf("%w: address must be %d characters starting with 0x", evmerr.ErrIncompatibleValue, 2+2*AddressLength)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", evmerr.ErrIncompatibleValue, err)
	}
	a := BytesToAddress(raw)
	if hasMixedHexCase(s[2:]) {
		if s != a.Checksum() {
			return Address{}, fmt.Errorf("%w: bad EIP-55 checksum", evmerr.ErrIncompatibleValue)
		}
	}
	return a, nil
}

func hasMixedHexCase(s string) bool {
	return s != strings.ToLower(s) && s != strings.ToUpper(s)
}

// Bytes returns the raw 20-byte address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the lowercase 0x-prefixed hex form, with no checksum casing.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String implements fmt.Stringer by returning the EIP-55 checksummed form.
func (a Address) String() string {
	return a.Checksum()
}

// IsZero reports whether a is the Zero sentinel.
func (a Address) IsZero() bool {
	return a == Zero
}

// Checksum returns the mixed-case EIP-55 checksummed representation of a.
//
// The rule: hex-encode the address in lowercase, Keccak-256 hash that hex
// string (as ASCII bytes, not the decoded address), then for every hex
// digit in [a-f], uppercase it if the corresponding nibble of the hash is
// >= 8.
func (a Address) Checksum() string {
	lower := hex.EncodeToString(a[:])
	hash := Keccak256([]byte(lower))

	out := make([]byte, len(lower)+2)
	out[0], out[1] = '0', 'x'
	copy(out[2:], lower)

	for i := 0; i < len(lower); i++ {
		c := out[2+i]
		if c < 'a' || c > 'f' {
			continue
		}
		var nibble byte
		if i%2 == 0 {
			nibble = hash[i/2] >> 4
		} else {
			nibble = hash[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[2+i] = c - 32 // uppercase
		}
	}
	return string(out)
}

// Keccak256 hashes data with the Legacy Keccak-256 construction Ethereum
// uses everywhere: selectors, topic0, EIP-55 checksums.
func Keccak256(data ...[]byte) []byte {
	buf := make([]byte, 0, 32*len(data))
	for _, d := range data {
		buf = append(buf, d...)
	}
	return gobottle.Hash(buf, sha3.NewLegacyKeccak256)
}
