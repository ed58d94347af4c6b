package rlp_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ModChain/evmcodec/rlp"
)

func TestEncodeSpecExamples(t *testing.T) {
	cases := []struct {
		name string
		item rlp.Item
		want string
	}{
		{"empty string", rlp.String(nil), "80"},
		{"dog", rlp.String("dog"), "83646f67"},
		{"cat,dog list", rlp.List{rlp.String("cat"), rlp.String("dog")}, "c88363617483646f67"},
	}
	for _, c := range cases {
		got := hex.EncodeToString(rlp.Encode(c.item))
		if got != c.want {
			t.Errorf("%s: Encode() = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestEncodeIntegers(t *testing.T) {
	if got := hex.EncodeToString(rlp.EncodeUint64(1024)); got != "820400" {
		t.Errorf("EncodeUint64(1024) = %s, want 820400", got)
	}
	if got := hex.EncodeToString(rlp.EncodeUint64(0)); got != "80" {
		t.Errorf("EncodeUint64(0) = %s, want 80", got)
	}
	b, err := rlp.EncodeBigInt(big.NewInt(1024))
	if err != nil || hex.EncodeToString(b) != "820400" {
		t.Errorf("EncodeBigInt(1024) = %x, %v", b, err)
	}
	if _, err := rlp.EncodeBigInt(big.NewInt(-1)); err == nil {
		t.Fatal("expected error encoding negative integer")
	}
}

func TestEncodeSingleByte(t *testing.T) {
	if got := rlp.EncodeBytes([]byte{0x00}); !bytes.Equal(got, []byte{0x00}) {
		t.Errorf("EncodeBytes(0x00) = %x, want 00", got)
	}
	if got := rlp.EncodeBytes([]byte{0x7f}); !bytes.Equal(got, []byte{0x7f}) {
		t.Errorf("EncodeBytes(0x7f) = %x, want 7f", got)
	}
	if got := rlp.EncodeBytes([]byte{0x80}); !bytes.Equal(got, []byte{0x81, 0x80}) {
		t.Errorf("EncodeBytes(0x80) = %x, want 8180", got)
	}
}

func TestEncodeList(t *testing.T) {
	got := rlp.EncodeList(rlp.EncodeBytes([]byte("cat")), rlp.EncodeBytes([]byte("dog")))
	if hex.EncodeToString(got) != "c88363617483646f67" {
		t.Errorf("EncodeList(cat, dog) = %x, want c88363617483646f67", got)
	}
	if got := rlp.EncodeList(); hex.EncodeToString(got) != "c0" {
		t.Errorf("EncodeList() = %x, want c0", got)
	}
}

func TestEncodeLongString(t *testing.T) {
	payload := bytes.Repeat([]byte{'a'}, 56)
	got := rlp.EncodeBytes(payload)
	if got[0] != 0xB8 || got[1] != 56 {
		t.Fatalf("long string prefix = %x", got[:2])
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	items := []rlp.Item{
		rlp.String(nil),
		rlp.String("dog"),
		rlp.List{rlp.String("cat"), rlp.String("dog")},
		rlp.List{},
		rlp.List{rlp.List{}, rlp.List{rlp.List{}}, rlp.List{rlp.String(""), rlp.String("a")}}, // the classic "set theoretical representation of two"-ish nesting
		rlp.String(bytes.Repeat([]byte{0x42}, 100)),
	}
	for i, item := range items {
		enc := rlp.Encode(item)
		got, err := rlp.Decode(enc)
		if err != nil {
			t.Fatalf("case %d: Decode: %s", i, err)
		}
		if !itemsEqual(got, item) {
			t.Errorf("case %d: round trip mismatch: got %#v, want %#v", i, got, item)
		}
	}
}

func itemsEqual(a, b rlp.Item) bool {
	switch av := a.(type) {
	case rlp.String:
		bv, ok := b.(rlp.String)
		return ok && bytes.Equal(av, bv)
	case rlp.List:
		bv, ok := b.(rlp.List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !itemsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func TestDecodeRejectsNonCanonicalSingleByte(t *testing.T) {
	// 0x00 encoded as a length-1 string (0x81 0x00) is non-canonical; it
	// must be the bare byte 0x00 instead.
	if _, err := rlp.Decode([]byte{0x81, 0x00}); err == nil {
		t.Fatal("expected non-canonical rejection")
	}
}

func TestDecodeRejectsLeadingZeroLength(t *testing.T) {
	// long-form string with a length-of-length byte count of 2, but the
	// length itself has a leading zero: non-canonical.
	buf := []byte{0xB9, 0x00, 0x38}
	buf = append(buf, bytes.Repeat([]byte{'x'}, 56)...)
	if _, err := rlp.Decode(buf); err == nil {
		t.Fatal("expected leading-zero-length rejection")
	}
}

func TestDecodeRejectsLongFormThatShouldBeShort(t *testing.T) {
	// length 10 encoded via long form (lengthOfLength=1) should have used
	// the short form instead.
	buf := append([]byte{0xB8, 0x0A}, bytes.Repeat([]byte{'x'}, 10)...)
	if _, err := rlp.Decode(buf); err == nil {
		t.Fatal("expected short-form-preferred rejection")
	}
}

func TestDecodeRejectsTruncatedBuffer(t *testing.T) {
	if _, err := rlp.Decode([]byte{0x83, 'd', 'o'}); err == nil {
		t.Fatal("expected truncated buffer rejection")
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	if _, err := rlp.Decode([]byte{0x80, 0x80}); err == nil {
		t.Fatal("expected trailing-bytes rejection")
	}
}

func TestDecodeUint64(t *testing.T) {
	v, err := rlp.DecodeUint64(rlp.String{0x04, 0x00})
	if err != nil || v != 1024 {
		t.Fatalf("DecodeUint64 = %d, %v, want 1024", v, err)
	}
	if _, err := rlp.DecodeUint64(rlp.String{0x00, 0x01}); err == nil {
		t.Fatal("expected leading-zero rejection")
	}
}
