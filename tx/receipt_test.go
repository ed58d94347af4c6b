package tx_test

import (
	"testing"

	"github.com/ModChain/evmcodec/tx"
)

func TestReceiptValidateRejectsBothStatusAndPostState(t *testing.T) {
	status := uint64(1)
	r := &tx.Receipt{Status: &status, PostState: []byte{0x01}}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for receipt carrying both status and post-state")
	}
}

func TestReceiptValidateRejectsNeitherStatusNorPostState(t *testing.T) {
	r := &tx.Receipt{}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for receipt with neither status nor post-state")
	}
}

func TestReceiptValidateAcceptsPostByzantiumStatus(t *testing.T) {
	status := uint64(1)
	r := &tx.Receipt{Status: &status}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestReceiptValidateAcceptsPreByzantiumPostState(t *testing.T) {
	r := &tx.Receipt{PostState: []byte{0xde, 0xad}}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestReceiptValidateRejectsOutOfRangeStatus(t *testing.T) {
	status := uint64(2)
	r := &tx.Receipt{Status: &status}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for status outside 0/1")
	}
}
