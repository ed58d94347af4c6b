package abi

import (
	"fmt"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// EncodeParams encodes an ordered list of (type, value) pairs using the
// standard head/tail layout: every parameter contributes one head slot
// (inline bytes for a static type, a 32-byte offset pointer for a dynamic
// one), offsets are measured from the start of this parameter list, and the
// tail region holds the dynamic parameters' own encodings in order.
func EncodeParams(types []Type, values []Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("%w: %d types but %d values", evmerr.ErrIncompatibleValue, len(types), len(values))
	}
	if err := ValidateParamTypes(types, values); err != nil {
		return nil, err
	}
	return encodeTuple(types, values)
}

// EncodeCall encodes a full function call: the 4-byte selector followed by
// the head/tail encoding of sig's input parameters.
func EncodeCall(sig *Signature, values []Value) ([]byte, error) {
	body, err := EncodeParams(sig.InputTypes(), values)
	if err != nil {
		return nil, err
	}
	sel := sig.Selector()
	out := make([]byte, 4+len(body))
	copy(out, sel[:])
	copy(out[4:], body)
	return out, nil
}

// ValidateParamTypes runs ValidateValue across a type/value list, rooting
// each failure's path at "param-N", the label ValidateParams gives an
// unnamed parameter (a bare type list carries no parameter names).
func ValidateParamTypes(types []Type, values []Value) error {
	for i, t := range types {
		if err := validateAt(t, values[i], []string{fmt.Sprintf("param-%d", i)}); err != nil {
			return err
		}
	}
	return nil
}

// encodeTuple implements the shared head/tail walk used for top-level
// argument lists, tuple values, and (via repeatType) array element lists.
func encodeTuple(types []Type, values []Value) ([]byte, error) {
	n := len(types)
	heads := make([][]byte, n)
	tails := make([][]byte, n)
	dynamic := make([]bool, n)

	for i, t := range types {
		if t.IsDynamic() {
			dynamic[i] = true
			tail, err := encodeValue(t, values[i])
			if err != nil {
				return nil, err
			}
			tails[i] = tail
			heads[i] = make([]byte, 32) // placeholder, patched below
			continue
		}
		head, err := encodeValue(t, values[i])
		if err != nil {
			return nil, err
		}
		heads[i] = head
	}

	headLen := 0
	for _, h := range heads {
		headLen += len(h)
	}

	offset := headLen
	for i := range types {
		if !dynamic[i] {
			continue
		}
		writeUint256(heads[i], uint64(offset))
		offset += len(tails[i])
	}

	out := make([]byte, 0, offset)
	for _, h := range heads {
		out = append(out, h...)
	}
	for _, t := range tails {
		out = append(out, t...)
	}
	return out, nil
}

// encodeValue returns the standalone encoding of a single value: the
// 32-byte slot for a static leaf, the recursive head/tail bytes for a
// static composite, or the length-prefixed (where applicable) bytes for a
// dynamic value as it appears in a tail region.
func encodeValue(t Type, v Value) ([]byte, error) {
	if t.IsArray() {
		elemT := t.Elem()
		elems, ok := v.Elems()
		if !ok {
			return nil, fmt.Errorf("%w: expected array value for %s", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		dim := t.OutermostDim()
		if dim.Dynamic {
			body, err := encodeTuple(repeatType(elemT, len(elems)), elems)
			if err != nil {
				return nil, err
			}
			out := make([]byte, 32+len(body))
			writeUint256(out[:32], uint64(len(elems)))
			copy(out[32:], body)
			return out, nil
		}
		return encodeTuple(repeatType(elemT, dim.Size), elems)
	}

	if t.Kind == KindTuple {
		elems, ok := v.Elems()
		if !ok {
			return nil, fmt.Errorf("%w: expected tuple value for %s", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		return encodeTuple(fieldTypes(t.Tuple), elems)
	}

	return encodeLeaf(t, v)
}

// encodeLeaf encodes a non-array, non-tuple value: the dynamic
// length-prefixed form for bytes/string, or the 32-byte inline slot for
// every other leaf kind.
func encodeLeaf(t Type, v Value) ([]byte, error) {
	switch t.Kind {
	case KindBytes, KindString:
		data, ok := v.Bytes()
		if !ok {
			return nil, fmt.Errorf("%w: expected %s value", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		padded := padRight32(data)
		out := make([]byte, 32+len(padded))
		writeUint256(out[:32], uint64(len(data)))
		copy(out[32:], padded)
		return out, nil

	case KindAddress:
		a, ok := v.Address()
		if !ok {
			return nil, fmt.Errorf("%w: expected address value", evmerr.ErrIncompatibleValue)
		}
		var slot [32]byte
		copy(slot[32-20:], a.Bytes())
		return slot[:], nil

	case KindBool:
		b, ok := v.Bool()
		if !ok {
			return nil, fmt.Errorf("%w: expected bool value", evmerr.ErrIncompatibleValue)
		}
		var slot [32]byte
		if b {
			slot[31] = 1
		}
		return slot[:], nil

	case KindFixedBytes:
		data, ok := v.Bytes()
		if !ok || len(data) != t.FixedSize {
			return nil, fmt.Errorf("%w: expected bytes%d value", evmerr.ErrIncompatibleValue, t.FixedSize)
		}
		var slot [32]byte
		copy(slot[:], data)
		return slot[:], nil

	case KindUint, KindInt:
		n, width, ok := v.Int()
		if !ok {
			return nil, fmt.Errorf("%w: expected %s value", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		slot, err := common.FixedBytes32(n, width, t.Kind == KindInt)
		if err != nil {
			return nil, err
		}
		return slot[:], nil

	default:
		return nil, fmt.Errorf("%w: cannot encode leaf kind", evmerr.ErrInvalidType)
	}
}

func padRight32(b []byte) []byte {
	rem := len(b) % 32
	if rem == 0 {
		return b
	}
	out := make([]byte, len(b)+(32-rem))
	copy(out, b)
	return out
}

func writeUint256(slot []byte, v uint64) {
	for i := range slot {
		slot[i] = 0
	}
	for i := 0; i < 8; i++ {
		slot[len(slot)-1-i] = byte(v >> (8 * i))
	}
}
