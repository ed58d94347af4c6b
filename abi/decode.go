package abi

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// DecodeParams decodes a byte buffer against an ordered list of type
// descriptors, the inverse of EncodeParams. The buffer length must be a
// multiple of 32.
func DecodeParams(types []Type, data []byte) ([]Value, error) {
	if len(data)%32 != 0 {
		return nil, fmt.Errorf("%w: buffer length %d is not a multiple of 32", evmerr.ErrMalformedEncoding, len(data))
	}
	return decodeTupleAt(types, data)
}

// DecodeCall splits a 4-byte selector from calldata and decodes the
// remainder against sig's input parameters. If checkSelector is true, the
// leading 4 bytes must match sig.Selector().
func DecodeCall(sig *Signature, calldata []byte, checkSelector bool) ([]Value, error) {
	if len(calldata) < 4 {
		return nil, fmt.Errorf("%w: calldata shorter than a selector", evmerr.ErrMalformedEncoding)
	}
	if checkSelector {
		sel := sig.Selector()
		if !bytesEqual(calldata[:4], sel[:]) {
			return nil, fmt.Errorf("%w: selector mismatch", evmerr.ErrIncompatibleValue)
		}
	}
	return DecodeParams(sig.InputTypes(), calldata[4:])
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// decodeTupleAt walks buf's head region, consuming headSize(t) inline bytes
// for each static type and one 32-byte offset pointer for each dynamic
// type, resolving pointers relative to buf's own start.
func decodeTupleAt(types []Type, buf []byte) ([]Value, error) {
	values := make([]Value, len(types))
	pos := 0
	for i, t := range types {
		if !t.IsDynamic() {
			sz := headSize(t)
			if pos+sz > len(buf) {
				return nil, fmt.Errorf("%w: truncated head region at component %d", evmerr.ErrMalformedEncoding, i)
			}
			v, err := decodeStatic(t, buf[pos:pos+sz])
			if err != nil {
				return nil, err
			}
			values[i] = v
			pos += sz
			continue
		}

		if pos+32 > len(buf) {
			return nil, fmt.Errorf("%w: truncated head region at component %d", evmerr.ErrMalformedEncoding, i)
		}
		ptr, err := readOffset(buf[pos : pos+32])
		if err != nil {
			return nil, err
		}
		pos += 32
		if ptr > len(buf) {
			return nil, fmt.Errorf("%w: offset %d at component %d points outside the buffer", evmerr.ErrMalformedEncoding, ptr, i)
		}
		v, err := decodeDynamic(t, buf[ptr:])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// readOffset reads a 32-byte big-endian pointer, requiring it to be a
// multiple of 32 and to fit a native int.
func readOffset(slot []byte) (int, error) {
	n := new(big.Int).SetBytes(slot)
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: offset does not fit a native integer", evmerr.ErrMalformedEncoding)
	}
	v := n.Uint64()
	if v%32 != 0 {
		return 0, fmt.Errorf("%w: offset %d is not a multiple of 32", evmerr.ErrMalformedEncoding, v)
	}
	return int(v), nil
}

// decodeStatic decodes a static (non-dynamic) type from a chunk exactly
// headSize(t) bytes long.
func decodeStatic(t Type, chunk []byte) (Value, error) {
	if t.IsArray() {
		elemT := t.Elem()
		dim := t.OutermostDim()
		sz := headSize(elemT)
		elems := make([]Value, dim.Size)
		for i := 0; i < dim.Size; i++ {
			v, err := decodeStatic(elemT, chunk[i*sz:(i+1)*sz])
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return ArrayValue(false, dim.Size, elems...), nil
	}

	if t.Kind == KindTuple {
		pos := 0
		elems := make([]Value, len(t.Tuple))
		for i, f := range t.Tuple {
			sz := headSize(f.Type)
			v, err := decodeStatic(f.Type, chunk[pos:pos+sz])
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
			pos += sz
		}
		return TupleValue(elems...), nil
	}

	return decodeLeafSlot(t, chunk)
}

// decodeLeafSlot decodes one 32-byte slot holding a static leaf value.
func decodeLeafSlot(t Type, slot []byte) (Value, error) {
	switch t.Kind {
	case KindAddress:
		for _, b := range slot[:12] {
			if b != 0 {
				return Value{}, fmt.Errorf("%w: address slot has nonzero padding", evmerr.ErrMalformedEncoding)
			}
		}
		return AddressValue(common.BytesToAddress(slot[12:])), nil

	case KindBool:
		for _, b := range slot[:31] {
			if b != 0 {
				return Value{}, fmt.Errorf("%w: bool slot has nonzero padding", evmerr.ErrMalformedEncoding)
			}
		}
		switch slot[31] {
		case 0:
			return BoolValue(false), nil
		case 1:
			return BoolValue(true), nil
		default:
			return Value{}, fmt.Errorf("%w: bool slot is neither 0 nor 1", evmerr.ErrMalformedEncoding)
		}

	case KindFixedBytes:
		return FixedBytesValue(t.FixedSize, slot[:t.FixedSize]), nil

	case KindUint, KindInt:
		var arr [32]byte
		copy(arr[:], slot)
		n, err := common.DecodeFixedBytes32(arr, t.Width, t.Kind == KindInt)
		if err != nil {
			return Value{}, err
		}
		if t.Kind == KindInt {
			return Int(t.Width, n), nil
		}
		return Uint(t.Width, n), nil

	default:
		return Value{}, fmt.Errorf("%w: not a leaf kind", evmerr.ErrInvalidType)
	}
}

// decodeDynamic decodes a dynamic type starting at the front of buf, which
// extends from the value's resolved offset to the end of the enclosing
// tuple's own buffer. Trailing bytes beyond what this value needs belong to
// other tail entries and are ignored.
func decodeDynamic(t Type, buf []byte) (Value, error) {
	if t.Kind == KindBytes || t.Kind == KindString {
		if len(buf) < 32 {
			return Value{}, fmt.Errorf("%w: truncated length prefix", evmerr.ErrMalformedEncoding)
		}
		length, err := readLength(buf[:32])
		if err != nil {
			return Value{}, err
		}
		if 32+length > len(buf) {
			return Value{}, fmt.Errorf("%w: declared length %d exceeds remaining buffer", evmerr.ErrMalformedEncoding, length)
		}
		data := buf[32 : 32+length]
		if t.Kind == KindBytes {
			return BytesValue(data), nil
		}
		if !utf8.Valid(data) {
			return Value{}, fmt.Errorf("%w: string value is not valid UTF-8", evmerr.ErrUtf8)
		}
		return StringValue(string(data)), nil
	}

	if t.IsArray() {
		elemT := t.Elem()
		dim := t.OutermostDim()
		if dim.Dynamic {
			if len(buf) < 32 {
				return Value{}, fmt.Errorf("%w: truncated array length", evmerr.ErrMalformedEncoding)
			}
			length, err := readLength(buf[:32])
			if err != nil {
				return Value{}, err
			}
			elems, err := decodeTupleAt(repeatType(elemT, length), buf[32:])
			if err != nil {
				return Value{}, err
			}
			return ArrayValue(true, length, elems...), nil
		}
		elems, err := decodeTupleAt(repeatType(elemT, dim.Size), buf)
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(false, dim.Size, elems...), nil
	}

	if t.Kind == KindTuple {
		elems, err := decodeTupleAt(fieldTypes(t.Tuple), buf)
		if err != nil {
			return Value{}, err
		}
		return TupleValue(elems...), nil
	}

	return Value{}, fmt.Errorf("%w: kind is not dynamic", evmerr.ErrInvalidType)
}

func readLength(slot []byte) (int, error) {
	n := new(big.Int).SetBytes(slot)
	if !n.IsUint64() || n.Uint64() > (1<<32) {
		return 0, fmt.Errorf("%w: declared length is not a sane size", evmerr.ErrMalformedEncoding)
	}
	return int(n.Uint64()), nil
}
