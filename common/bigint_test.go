package common_test

import (
	"math/big"
	"testing"

	"github.com/ModChain/evmcodec/common"
)

func TestMinimalBytes(t *testing.T) {
	if b, err := common.MinimalBytes(big.NewInt(0)); err != nil || len(b) != 0 {
		t.Fatalf("MinimalBytes(0) = %x, %v", b, err)
	}
	if b, err := common.MinimalBytes(big.NewInt(1024)); err != nil || string(b) != "\x04\x00" {
		t.Fatalf("MinimalBytes(1024) = %x, %v", b, err)
	}
	if _, err := common.MinimalBytes(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative integer")
	}
}

func TestFixedBytes32RoundTrip(t *testing.T) {
	cases := []struct {
		v      int64
		bits   int
		signed bool
	}{
		{69, 32, false},
		{1, 8, false},
		{-1, 8, true},
		{-128, 8, true},
		{127, 8, true},
	}
	for _, c := range cases {
		slot, err := common.FixedBytes32(big.NewInt(c.v), c.bits, c.signed)
		if err != nil {
			t.Fatalf("FixedBytes32(%d): %s", c.v, err)
		}
		got, err := common.DecodeFixedBytes32(slot, c.bits, c.signed)
		if err != nil {
			t.Fatalf("DecodeFixedBytes32(%d): %s", c.v, err)
		}
		if got.Int64() != c.v {
			t.Errorf("round-trip %d -> %x -> %d", c.v, slot, got)
		}
	}
}

func TestFixedBytes32OutOfRange(t *testing.T) {
	if _, err := common.FixedBytes32(big.NewInt(256), 8, false); err == nil {
		t.Fatal("expected out-of-range error for uint8(256)")
	}
	if _, err := common.FixedBytes32(big.NewInt(-1), 8, false); err == nil {
		t.Fatal("expected error for negative uint8")
	}
	if _, err := common.FixedBytes32(big.NewInt(128), 8, true); err == nil {
		t.Fatal("expected out-of-range error for int8(128)")
	}
}

func TestDecodeFixedBytes32RejectsBadSignExtension(t *testing.T) {
	var slot [32]byte
	slot[31] = 0x80 // would be -128 as int8, but high bytes are zero not 0xff
	if _, err := common.DecodeFixedBytes32(slot, 8, true); err == nil {
		t.Fatal("expected sign-extension error")
	}
}
