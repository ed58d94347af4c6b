package common

import (
	"fmt"
	"math/big"

	"github.com/ModChain/evmcodec/evmerr"
)

// One arbitrary-precision integer type (math/big.Int) serves both codecs in
// this module; these two helpers are its only encoding-facing surface, per
// the module's design notes: to_be_bytes_minimal for RLP (no leading zero
// byte, negative rejected) and to_be_bytes_fixed(32) for ABI (two's
// complement, left-padded).

// MinimalBytes returns the minimal big-endian encoding of a non-negative
// integer: no leading zero byte, and zero encodes as the empty slice. It is
// the representation RLP's integer normalization rule requires.
func MinimalBytes(v *big.Int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative integer has no RLP encoding", evmerr.ErrOutOfRange)
	}
	if v.Sign() == 0 {
		return nil, nil
	}
	return v.Bytes(), nil
}

// FixedBytes32 returns the 32-byte ABI slot encoding of v under bit width
// bits: left-padded with 0x00 for non-negative values (uintN, or a
// non-negative intN), left-padded with 0xFF two's-complement for negative
// intN. bits must be a multiple of 8 in [8,256]; v must fit the declared
// range or an OutOfRange error is returned.
func FixedBytes32(v *big.Int, bits int, signed bool) ([32]byte, error) {
	var out [32]byte
	if bits <= 0 || bits > 256 || bits%8 != 0 {
		return out, fmt.Errorf("%w: invalid bit width %d", evmerr.ErrOutOfRange, bits)
	}

	if !signed {
		if v.Sign() < 0 {
			return out, fmt.Errorf("%w: negative value for unsigned uint%d", evmerr.ErrOutOfRange, bits)
		}
		max := maxUint(bits)
		if v.Cmp(max) > 0 {
			return out, fmt.Errorf("%w: value exceeds uint%d", evmerr.ErrOutOfRange, bits)
		}
		v.FillBytes(out[:])
		return out, nil
	}

	minV, maxV := signedRange(bits)
	if v.Cmp(minV) < 0 || v.Cmp(maxV) > 0 {
		return out, fmt.Errorf("%w: value outside int%d range", evmerr.ErrOutOfRange, bits)
	}
	if v.Sign() >= 0 {
		v.FillBytes(out[:])
		return out, nil
	}
	// two's complement over 256 bits: 2^256 + v
	mod := new(big.Int).Lsh(big.NewInt(1), 256)
	twos := new(big.Int).Add(mod, v)
	twos.FillBytes(out[:])
	return out, nil
}

// DecodeFixedBytes32 inverts FixedBytes32, validating that the declared bit
// width is respected: for unsigned values, every byte above the declared
// width must be zero; for signed values, those bytes must be a consistent
// sign-extension of the retained sign bit.
func DecodeFixedBytes32(slot [32]byte, bits int, signed bool) (*big.Int, error) {
	if bits <= 0 || bits > 256 || bits%8 != 0 {
		return nil, fmt.Errorf("%w: invalid bit width %d", evmerr.ErrOutOfRange, bits)
	}
	nbytes := bits / 8
	highBytes := slot[:32-nbytes]

	if !signed {
		for _, b := range highBytes {
			if b != 0 {
				return nil, fmt.Errorf("%w: uint%d high bits set", evmerr.ErrOutOfRange, bits)
			}
		}
		return new(big.Int).SetBytes(slot[32-nbytes:]), nil
	}

	negative := nbytes > 0 && slot[32-nbytes]&0x80 != 0
	var signByte byte
	if negative {
		signByte = 0xff
	}
	for _, b := range highBytes {
		if b != signByte {
			return nil, fmt.Errorf("%w: int%d sign extension is inconsistent", evmerr.ErrOutOfRange, bits)
		}
	}
	if !negative {
		return new(big.Int).SetBytes(slot[32-nbytes:]), nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	raw := new(big.Int).SetBytes(slot[32-nbytes:])
	return new(big.Int).Sub(raw, mod), nil
}

func maxUint(bits int) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return max.Sub(max, big.NewInt(1))
}

func signedRange(bits int) (min, max *big.Int) {
	max = new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min = new(big.Int).Neg(max)
	max = max.Sub(max, big.NewInt(1))
	return
}
