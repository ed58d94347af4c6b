package abi

import (
	"fmt"
	"math/big"

	"github.com/ModChain/evmcodec/evmerr"
)

// EncodePacked implements Solidity's `abi.encodePacked`: every leaf is
// written at its natural byte width with no 32-byte padding, no length
// prefix, and no offset pointers. It exists for hashing and key-derivation
// use (e.g. mapping storage slots, EIP-712-style domain separators) and
// must never be used to build calldata: a packed encoding is not generally
// reversible, since two adjacent dynamic values can produce output
// indistinguishable from a different pair of values.
func EncodePacked(types []Type, values []Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("%w: %d types but %d values", evmerr.ErrIncompatibleValue, len(types), len(values))
	}
	var out []byte
	for i, t := range types {
		b, err := encodePackedValue(t, values[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func encodePackedValue(t Type, v Value) ([]byte, error) {
	if t.IsArray() {
		elemT := t.Elem()
		elems, ok := v.Elems()
		if !ok {
			return nil, fmt.Errorf("%w: expected array value for %s", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		var out []byte
		for _, e := range elems {
			b, err := encodePackedValue(elemT, e)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	}

	switch t.Kind {
	case KindTuple:
		elems, ok := v.Elems()
		if !ok {
			return nil, fmt.Errorf("%w: expected tuple value for %s", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		var out []byte
		for i, f := range t.Tuple {
			b, err := encodePackedValue(f.Type, elems[i])
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil

	case KindAddress:
		a, ok := v.Address()
		if !ok {
			return nil, fmt.Errorf("%w: expected address value", evmerr.ErrIncompatibleValue)
		}
		return append([]byte(nil), a.Bytes()...), nil

	case KindBool:
		b, ok := v.Bool()
		if !ok {
			return nil, fmt.Errorf("%w: expected bool value", evmerr.ErrIncompatibleValue)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case KindFixedBytes:
		data, ok := v.Bytes()
		if !ok || len(data) != t.FixedSize {
			return nil, fmt.Errorf("%w: expected bytes%d value", evmerr.ErrIncompatibleValue, t.FixedSize)
		}
		return append([]byte(nil), data...), nil

	case KindBytes, KindString:
		data, ok := v.Bytes()
		if !ok {
			return nil, fmt.Errorf("%w: expected %s value", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		return append([]byte(nil), data...), nil

	case KindUint, KindInt:
		n, width, ok := v.Int()
		if !ok {
			return nil, fmt.Errorf("%w: expected %s value", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		return packedInt(n, width, t.Kind == KindInt)

	default:
		return nil, fmt.Errorf("%w: cannot pack-encode leaf kind", evmerr.ErrInvalidType)
	}
}

// packedInt writes v in its natural byte width (width/8 bytes), two's
// complement for negative intN values.
func packedInt(v *big.Int, width int, signed bool) ([]byte, error) {
	nbytes := width / 8
	out := make([]byte, nbytes)
	if !signed {
		if v.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative value for unsigned uint%d", evmerr.ErrOutOfRange, width)
		}
		b := v.Bytes()
		if len(b) > nbytes {
			return nil, fmt.Errorf("%w: value exceeds uint%d", evmerr.ErrOutOfRange, width)
		}
		copy(out[nbytes-len(b):], b)
		return out, nil
	}
	if v.Sign() >= 0 {
		b := v.Bytes()
		if len(b) > nbytes {
			return nil, fmt.Errorf("%w: value exceeds int%d", evmerr.ErrOutOfRange, width)
		}
		copy(out[nbytes-len(b):], b)
		return out, nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	twos := new(big.Int).Add(mod, v)
	b := twos.Bytes()
	if len(b) > nbytes {
		return nil, fmt.Errorf("%w: value outside int%d range", evmerr.ErrOutOfRange, width)
	}
	copy(out[nbytes-len(b):], b)
	return out, nil
}
