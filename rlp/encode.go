package rlp

import (
	"fmt"
	"math/big"

	extrlp "github.com/ModChain/rlp"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// EncodeBytes produces the canonical RLP encoding of a byte string,
// delegating to github.com/ModChain/rlp's value encoder.
func EncodeBytes(b []byte) []byte {
	enc, err := extrlp.EncodeValue(b)
	if err != nil {
		// EncodeValue only errors on unsupported Go types; []byte always
		// succeeds.
		panic(fmt.Sprintf("rlp: EncodeValue(%T) failed: %s", b, err))
	}
	return enc
}

// EncodeList produces the canonical RLP encoding of a list whose items have
// already been individually RLP-encoded, concatenated in order.
// github.com/ModChain/rlp's EncodeValue recurses over Go values it encodes
// itself; it has no entry point for wrapping already-encoded child bytes,
// which is the calling convention Encode and the tx package need, so this
// stays hand-written.
func EncodeList(items ...[]byte) []byte {
	var payload []byte
	for _, it := range items {
		payload = append(payload, it...)
	}
	return appendWithLengthPrefix(nil, 0xC0, 0xF7, payload)
}

// appendWithLengthPrefix writes the short-form prefix (base+len) for
// len(payload) <= 55, or the long-form prefix (longBase+len(lengthBytes))
// followed by the minimal big-endian length, for longer payloads.
func appendWithLengthPrefix(dst []byte, base, longBase byte, payload []byte) []byte {
	if len(payload) <= 55 {
		dst = append(dst, base+byte(len(payload)))
		return append(dst, payload...)
	}
	lb := minimalUintBytes(uint64(len(payload)))
	dst = append(dst, longBase+byte(len(lb)))
	dst = append(dst, lb...)
	return append(dst, payload...)
}

func minimalUintBytes(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// EncodeUint64 encodes a non-negative machine integer using RLP's integer
// normalization rule: minimal big-endian bytes, zero as the empty string.
func EncodeUint64(v uint64) []byte {
	return EncodeBytes(minimalUintBytes(v))
}

// EncodeBigInt encodes a non-negative arbitrary-precision integer. RLP has
// no sign bit; a negative value is rejected with evmerr.ErrOutOfRange.
func EncodeBigInt(v *big.Int) ([]byte, error) {
	b, err := common.MinimalBytes(v)
	if err != nil {
		return nil, err
	}
	return EncodeBytes(b), nil
}

// MinimalUint64Bytes exposes the minimal big-endian encoding used for
// integer fields in hand-built Item trees, e.g. transaction nonce/gas
// fields.
func MinimalUint64Bytes(v uint64) []byte {
	return minimalUintBytes(v)
}

// EncodeBigIntItem returns the String item holding v's minimal big-endian
// encoding (nil treated as zero), for callers building an Item tree by hand
// rather than going through EncodeAny.
func EncodeBigIntItem(v *big.Int) (String, error) {
	if v == nil {
		return String(nil), nil
	}
	b, err := common.MinimalBytes(v)
	if err != nil {
		return nil, err
	}
	return String(b), nil
}

// Encode recursively encodes an Item tree.
func Encode(item Item) []byte {
	switch v := item.(type) {
	case String:
		return EncodeBytes(v)
	case List:
		encoded := make([][]byte, len(v))
		for i, child := range v {
			encoded[i] = Encode(child)
		}
		return EncodeList(encoded...)
	default:
		panic(fmt.Sprintf("rlp: unknown item type %T", item))
	}
}

// EncodeAny is a convenience wrapper that builds an Item tree from common Go
// values and encodes it in one step. Supported types: []byte, string,
// uint64, int (non-negative), *big.Int, common.Address, bool (as 0/1), and
// []any / Item for nested lists.
func EncodeAny(v any) ([]byte, error) {
	item, err := toItem(v)
	if err != nil {
		return nil, err
	}
	return Encode(item), nil
}

func toItem(v any) (Item, error) {
	switch o := v.(type) {
	case nil:
		return String(nil), nil
	case Item:
		return o, nil
	case []byte:
		return String(o), nil
	case string:
		return String([]byte(o)), nil
	case uint64:
		return String(minimalUintBytes(o)), nil
	case int:
		if o < 0 {
			return nil, fmt.Errorf("%w: negative int has no RLP encoding", evmerr.ErrOutOfRange)
		}
		return String(minimalUintBytes(uint64(o))), nil
	case *big.Int:
		b, err := common.MinimalBytes(o)
		if err != nil {
			return nil, err
		}
		return String(b), nil
	case common.Address:
		return String(o.Bytes()), nil
	case bool:
		if o {
			return String([]byte{1}), nil
		}
		return String(nil), nil
	case []any:
		list := make(List, len(o))
		for i, e := range o {
			item, err := toItem(e)
			if err != nil {
				return nil, err
			}
			list[i] = item
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: unsupported go type %T for RLP encoding", evmerr.ErrInvalidType, v)
	}
}
