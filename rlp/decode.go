package rlp

import (
	"fmt"

	extrlp "github.com/ModChain/rlp"

	"github.com/ModChain/evmcodec/evmerr"
)

// Decode parses buf as exactly one top-level RLP item. The actual parse is
// delegated to github.com/ModChain/rlp; verifyCanonical re-walks buf first
// so non-canonical input (a leading zero length byte, a long-form length
// that should have used the short form, a sub-0x80 byte wrapped in a
// needless length prefix, trailing bytes after the top-level item) is
// rejected regardless of how lenient that library's own decoder is.
func Decode(buf []byte) (Item, error) {
	if err := verifyCanonical(buf); err != nil {
		return nil, err
	}
	dec, err := extrlp.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", evmerr.ErrMalformedEncoding, err)
	}
	if len(dec) != 1 {
		return nil, fmt.Errorf("%w: decode produced %d top-level items, want 1", evmerr.ErrMalformedEncoding, len(dec))
	}
	return fromPlain(dec[0]), nil
}

// fromPlain converts one of github.com/ModChain/rlp's decoded values
// (a []byte leaf or a []any list, recursively) into this package's Item
// tree.
func fromPlain(v any) Item {
	switch o := v.(type) {
	case []byte:
		return String(o)
	case []any:
		list := make(List, len(o))
		for i, e := range o {
			list[i] = fromPlain(e)
		}
		return list
	default:
		panic(fmt.Sprintf("rlp: unexpected decoded value type %T", v))
	}
}

// verifyCanonical re-parses buf against RLP's canonical-form rules,
// independent of github.com/ModChain/rlp's own leniency, and requires buf
// to hold exactly one top-level item.
func verifyCanonical(buf []byte) error {
	rest, err := verifyOne(buf)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d trailing bytes after top-level RLP item", evmerr.ErrMalformedEncoding, len(rest))
	}
	return nil
}

// verifyOne checks a single item at the front of buf and returns the
// unconsumed remainder, without building an Item.
func verifyOne(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: unexpected end of input", evmerr.ErrMalformedEncoding)
	}

	b0 := buf[0]
	switch {
	case b0 < 0x80:
		return buf[1:], nil

	case b0 <= 0xB7:
		length := int(b0 - 0x80)
		payload, rest, err := takePayload(buf[1:], length)
		if err != nil {
			return nil, err
		}
		if length == 1 && payload[0] < 0x80 {
			return nil, fmt.Errorf("%w: single byte below 0x80 must not be length-prefixed", evmerr.ErrMalformedEncoding)
		}
		return rest, nil

	case b0 <= 0xBF:
		lengthOfLength := int(b0 - 0xB7)
		length, rest, err := decodeLength(buf[1:], lengthOfLength, 55)
		if err != nil {
			return nil, err
		}
		_, rest, err = takePayload(rest, length)
		return rest, err

	case b0 <= 0xF7:
		length := int(b0 - 0xC0)
		payload, rest, err := takePayload(buf[1:], length)
		if err != nil {
			return nil, err
		}
		if err := verifyItems(payload); err != nil {
			return nil, err
		}
		return rest, nil

	default:
		lengthOfLength := int(b0 - 0xF7)
		length, rest, err := decodeLength(buf[1:], lengthOfLength, 55)
		if err != nil {
			return nil, err
		}
		payload, rest, err := takePayload(rest, length)
		if err != nil {
			return nil, err
		}
		if err := verifyItems(payload); err != nil {
			return nil, err
		}
		return rest, nil
	}
}

func verifyItems(payload []byte) error {
	for len(payload) > 0 {
		rest, err := verifyOne(payload)
		if err != nil {
			return err
		}
		payload = rest
	}
	return nil
}

// decodeLength reads lengthOfLength big-endian bytes from the front of buf,
// enforcing canonical minimal encoding: no leading zero byte, and the
// resulting value must exceed shortFormMax (i.e. must not fit the short
// form), since a canonical encoder would have used the short form
// otherwise.
func decodeLength(buf []byte, lengthOfLength int, shortFormMax int) (int, []byte, error) {
	if lengthOfLength == 0 || lengthOfLength > 8 {
		return 0, nil, fmt.Errorf("%w: invalid RLP length-of-length %d", evmerr.ErrMalformedEncoding, lengthOfLength)
	}
	if len(buf) < lengthOfLength {
		return 0, nil, fmt.Errorf("%w: truncated RLP length", evmerr.ErrMalformedEncoding)
	}
	lengthBytes := buf[:lengthOfLength]
	if lengthBytes[0] == 0 {
		return 0, nil, fmt.Errorf("%w: non-canonical RLP length has a leading zero byte", evmerr.ErrMalformedEncoding)
	}
	var length uint64
	for _, b := range lengthBytes {
		length = length<<8 | uint64(b)
	}
	if length <= uint64(shortFormMax) {
		return 0, nil, fmt.Errorf("%w: RLP length %d should have used the short form", evmerr.ErrMalformedEncoding, length)
	}
	if length > uint64(^uint(0)>>1) {
		return 0, nil, fmt.Errorf("%w: RLP length %d too large", evmerr.ErrMalformedEncoding, length)
	}
	return int(length), buf[lengthOfLength:], nil
}

func takePayload(buf []byte, length int) ([]byte, []byte, error) {
	if len(buf) < length {
		return nil, nil, fmt.Errorf("%w: truncated RLP payload, want %d bytes, have %d", evmerr.ErrMalformedEncoding, length, len(buf))
	}
	return buf[:length], buf[length:], nil
}

// DecodeUint64 interprets a String item as RLP's minimally-encoded
// unsigned integer. github.com/ModChain/rlp's own DecodeUint64 has no error
// return and does not reject non-canonical input, so this stays hand-rolled
// to reject a leading zero byte or an encoding wider than 8 bytes.
func DecodeUint64(s String) (uint64, error) {
	if len(s) > 8 {
		return 0, fmt.Errorf("%w: integer too large for uint64", evmerr.ErrOutOfRange)
	}
	if len(s) > 0 && s[0] == 0 {
		return 0, fmt.Errorf("%w: non-canonical integer has a leading zero byte", evmerr.ErrMalformedEncoding)
	}
	var v uint64
	for _, b := range s {
		v = v<<8 | uint64(b)
	}
	return v, nil
}
