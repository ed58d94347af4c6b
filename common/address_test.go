package common_test

import (
	"testing"

	"github.com/ModChain/evmcodec/common"
)

func mustAddr(t *testing.T, s string) common.Address {
	t.Helper()
	a, err := common.ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress(%s): %s", s, err)
	}
	return a
}

func TestChecksum(t *testing.T) {
	// test vectors from EIP-55
	cases := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, c := range cases {
		a := mustAddr(t, c)
		if got := a.Checksum(); got != c {
			t.Errorf("Checksum() = %s, want %s", got, c)
		}
	}
}

func TestParseAddressBadChecksum(t *testing.T) {
	_, err := common.ParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAEd")
	if err == nil {
		t.Fatal("expected checksum error")
	}
}

func TestParseAddressLowercaseSkipsChecksum(t *testing.T) {
	if _, err := common.ParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"); err != nil {
		t.Fatalf("lowercase address should parse without checksum check: %s", err)
	}
}

func TestZeroSentinel(t *testing.T) {
	var a common.Address
	if !a.IsZero() {
		t.Fatal("zero-value Address should report IsZero")
	}
	if common.Zero != a {
		t.Fatal("Zero sentinel should equal zero-value Address")
	}
}
