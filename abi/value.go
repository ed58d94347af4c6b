package abi

import (
	"math/big"

	"github.com/ModChain/evmcodec/common"
)

// Value is the tagged runtime value variant the encoder and decoder speak:
// a typed union constructed via the builder functions below, so that
// validation is a structural match on kind instead of reflection over a
// bare any. Construct one with those builders rather than the zero value.
type Value struct {
	kind  Kind
	addr  common.Address
	b     bool
	i     *big.Int
	width int
	bytes []byte // FixedBytes payload, Bytes payload, or the UTF-8 bytes of a String
	elems []Value
	dim   Dim // for array values: which kind of array this is
}

// AddressValue builds an address-typed Value.
func AddressValue(a common.Address) Value { return Value{kind: KindAddress, addr: a} }

// BoolValue builds a bool-typed Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Uint builds a uintN-typed Value. width must be a multiple of 8 in
// [8,256]; range is validated at encode time, not construction time.
func Uint(width int, v *big.Int) Value { return Value{kind: KindUint, width: width, i: v} }

// Int builds an intN-typed Value.
func Int(width int, v *big.Int) Value { return Value{kind: KindInt, width: width, i: v} }

// FixedBytesValue builds a bytesN-typed Value, N in [1,32].
func FixedBytesValue(n int, b []byte) Value {
	return Value{kind: KindFixedBytes, width: n, bytes: append([]byte(nil), b...)}
}

// BytesValue builds a dynamic bytes-typed Value.
func BytesValue(b []byte) Value {
	return Value{kind: KindBytes, bytes: append([]byte(nil), b...)}
}

// StringValue builds a string-typed Value from its UTF-8 encoding.
func StringValue(s string) Value {
	return Value{kind: KindString, bytes: []byte(s)}
}

// ArrayValue builds an array-typed Value. dynamic/size describe the
// outermost dimension only, matching Type.Dims' convention that the last
// entry is the outermost dimension.
func ArrayValue(dynamic bool, size int, elems ...Value) Value {
	return Value{kind: -1, dim: Dim{Dynamic: dynamic, Size: size}, elems: elems}
}

// TupleValue builds a tuple-typed Value from its ordered field values.
func TupleValue(elems ...Value) Value {
	return Value{kind: KindTuple, elems: elems}
}

// IsArray reports whether v was built with ArrayValue.
func (v Value) IsArray() bool { return v.kind == -1 }

// Address returns the address payload and whether v is address-typed.
func (v Value) Address() (common.Address, bool) {
	return v.addr, v.kind == KindAddress
}

// Bool returns the bool payload and whether v is bool-typed.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int returns the integer payload and its declared bit width for
// uintN/intN values.
func (v Value) Int() (*big.Int, int, bool) {
	if v.kind != KindUint && v.kind != KindInt {
		return nil, 0, false
	}
	return v.i, v.width, true
}

// Signed reports whether an integer Value is intN (true) or uintN (false).
func (v Value) Signed() bool { return v.kind == KindInt }

// Bytes returns the byte payload for FixedBytes, Bytes, or String values
// (for String, the UTF-8 encoding).
func (v Value) Bytes() ([]byte, bool) {
	switch v.kind {
	case KindFixedBytes, KindBytes, KindString:
		return v.bytes, true
	default:
		return nil, false
	}
}

// String returns the decoded UTF-8 string payload for a String value.
func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return string(v.bytes), true
}

// FixedBytesSize returns N for a bytesN value.
func (v Value) FixedBytesSize() int { return v.width }

// Elems returns the child values of an array or tuple Value.
func (v Value) Elems() ([]Value, bool) {
	if v.kind != KindTuple && v.kind != -1 {
		return nil, false
	}
	return v.elems, true
}

// ArrayDim returns the outermost-dimension descriptor of an array Value.
func (v Value) ArrayDim() Dim { return v.dim }
