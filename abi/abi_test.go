package abi_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ModChain/evmcodec/abi"
	"github.com/ModChain/evmcodec/common"
)

func mustSig(t *testing.T, kind abi.SigKind, text string) *abi.Signature {
	t.Helper()
	sig, err := abi.ParseSignature(kind, text)
	if err != nil {
		t.Fatalf("ParseSignature(%q): %v", text, err)
	}
	return sig
}

func mustType(t *testing.T, s string) abi.Type {
	t.Helper()
	ty, err := abi.ParseType(s)
	if err != nil {
		t.Fatalf("ParseType(%q): %v", s, err)
	}
	return ty
}

func hexSlot(s string) string {
	return s + "00000000000000000000000000000000000000000000000000000000000000"[:64-len(s)]
}

func TestSelectorBar(t *testing.T) {
	sig := mustSig(t, abi.SigFunction, "bar(bytes3[2])")
	sel := sig.Selector()
	if hex.EncodeToString(sel[:]) != "fce353f6" {
		t.Fatalf("selector = %x, want fce353f6", sel)
	}

	v := abi.ArrayValue(false, 2,
		abi.FixedBytesValue(3, []byte("abc")),
		abi.FixedBytesValue(3, []byte("def")),
	)
	data, err := abi.EncodeCall(sig, []abi.Value{v})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4+64 {
		t.Fatalf("len(data) = %d, want 68", len(data))
	}
	slot1 := hex.EncodeToString(data[4:36])
	slot2 := hex.EncodeToString(data[36:68])
	if slot1 != hexSlot("616263") {
		t.Fatalf("slot1 = %s", slot1)
	}
	if slot2 != hexSlot("646566") {
		t.Fatalf("slot2 = %s", slot2)
	}

	decoded, err := abi.DecodeCall(sig, data, true)
	if err != nil {
		t.Fatal(err)
	}
	elems, _ := decoded[0].Elems()
	b0, _ := elems[0].Bytes()
	b1, _ := elems[1].Bytes()
	if string(b0) != "abc" || string(b1) != "def" {
		t.Fatalf("roundtrip mismatch: %q %q", b0, b1)
	}
}

func TestSelectorBaz(t *testing.T) {
	sig := mustSig(t, abi.SigFunction, "baz(uint32,bool)")
	sel := sig.Selector()
	if hex.EncodeToString(sel[:]) != "cdcd77c0" {
		t.Fatalf("selector = %x, want cdcd77c0", sel)
	}

	values := []abi.Value{
		abi.Uint(32, big.NewInt(69)),
		abi.BoolValue(true),
	}
	data, err := abi.EncodeCall(sig, values)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4+64 {
		t.Fatalf("len(data) = %d, want 68", len(data))
	}

	decoded, err := abi.DecodeCall(sig, data, true)
	if err != nil {
		t.Fatal(err)
	}
	n, _, _ := decoded[0].Int()
	b, _ := decoded[1].Bool()
	if n.Cmp(big.NewInt(69)) != 0 || !b {
		t.Fatalf("roundtrip mismatch: %v %v", n, b)
	}
}

func TestFunctionSam(t *testing.T) {
	sig := mustSig(t, abi.SigFunction, "sam(bytes,bool,uint256[])")
	sel := sig.Selector()
	if hex.EncodeToString(sel[:]) != "a5643bf2" {
		t.Fatalf("selector = %x, want a5643bf2", sel)
	}

	values := []abi.Value{
		abi.BytesValue([]byte("dave")),
		abi.BoolValue(true),
		abi.ArrayValue(true, 3,
			abi.Uint(256, big.NewInt(1)),
			abi.Uint(256, big.NewInt(2)),
			abi.Uint(256, big.NewInt(3)),
		),
	}
	data, err := abi.EncodeCall(sig, values)
	if err != nil {
		t.Fatal(err)
	}
	body := data[4:]

	offset1 := new(big.Int).SetBytes(body[0:32]).Int64()
	flag := new(big.Int).SetBytes(body[32:64]).Int64()
	offset2 := new(big.Int).SetBytes(body[64:96]).Int64()
	if offset1 != 0x60 {
		t.Fatalf("offset1 = %#x, want 0x60", offset1)
	}
	if flag != 1 {
		t.Fatalf("flag = %d, want 1", flag)
	}
	if offset2 != 0xa0 {
		t.Fatalf("offset2 = %#x, want 0xa0", offset2)
	}

	decoded, err := abi.DecodeCall(sig, data, true)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := decoded[0].Bytes()
	if string(b) != "dave" {
		t.Fatalf("bytes = %q", b)
	}
	flagV, _ := decoded[1].Bool()
	if !flagV {
		t.Fatal("bool = false")
	}
	elems, _ := decoded[2].Elems()
	if len(elems) != 3 {
		t.Fatalf("len(elems) = %d", len(elems))
	}
	for i, want := range []int64{1, 2, 3} {
		n, _, _ := elems[i].Int()
		if n.Cmp(big.NewInt(want)) != 0 {
			t.Fatalf("elems[%d] = %v, want %d", i, n, want)
		}
	}
}

func TestAddressRoundTrip(t *testing.T) {
	addr, err := common.ParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	sig := mustSig(t, abi.SigFunction, "owner(address)")
	data, err := abi.EncodeParams(sig.InputTypes(), []abi.Value{abi.AddressValue(addr)})
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := abi.DecodeParams(sig.InputTypes(), data)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := decoded[0].Address()
	if got != addr {
		t.Fatalf("roundtrip address mismatch: got %s want %s", got.Hex(), addr.Hex())
	}
}

func TestDecodeRejectsNonCanonicalPointer(t *testing.T) {
	sig := mustSig(t, abi.SigFunction, "f(bytes)")
	data, err := abi.EncodeParams(sig.InputTypes(), []abi.Value{abi.BytesValue([]byte("hi"))})
	if err != nil {
		t.Fatal(err)
	}
	data[31] = 0x01 // corrupt offset to a non-multiple-of-32 value
	if _, err := abi.DecodeParams(sig.InputTypes(), data); err == nil {
		t.Fatal("expected malformed-offset error")
	}
}

func TestValidateParamsRejectsWrongArity(t *testing.T) {
	sig := mustSig(t, abi.SigFunction, "baz(uint32,bool)")
	err := abi.ValidateParams(sig.Inputs, []abi.Value{abi.BoolValue(true)})
	if err == nil {
		t.Fatal("expected arity mismatch error")
	}
}

func TestDecodeLog(t *testing.T) {
	sig := mustSig(t, abi.SigEvent, "Transfer(address indexed from, address indexed to, uint256 value)")

	from, err := common.ParseAddress("0x0000000000000000000000000000000000000001")
	if err != nil {
		t.Fatal(err)
	}
	to, err := common.ParseAddress("0x0000000000000000000000000000000000000002")
	if err != nil {
		t.Fatal(err)
	}

	var topicFrom, topicTo [32]byte
	copy(topicFrom[12:], from.Bytes())
	copy(topicTo[12:], to.Bytes())

	data, err := abi.EncodeParams([]abi.Type{mustType(t, "uint256")}, []abi.Value{abi.Uint(256, big.NewInt(1000))})
	if err != nil {
		t.Fatal(err)
	}

	topics := [][32]byte{sig.Topic0(), topicFrom, topicTo}
	out, err := abi.DecodeLog(sig, topics, data)
	if err != nil {
		t.Fatal(err)
	}
	gotFrom, ok := out["from"].Address()
	if !ok || gotFrom != from {
		t.Fatalf("from = %v", out["from"])
	}
	gotTo, ok := out["to"].Address()
	if !ok || gotTo != to {
		t.Fatalf("to = %v", out["to"])
	}
	n, _, _ := out["value"].Int()
	if n.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("value = %v", n)
	}
}

func TestDecodeLogWrongTopic0(t *testing.T) {
	sig := mustSig(t, abi.SigEvent, "Transfer(address indexed from, address indexed to, uint256 value)")
	var bogus [32]byte
	bogus[0] = 0xff
	_, err := abi.DecodeLog(sig, [][32]byte{bogus}, nil)
	if err == nil {
		t.Fatal("expected topic0 mismatch error")
	}
}

func TestDecodeLogHashesNonValueIndexedType(t *testing.T) {
	sig := mustSig(t, abi.SigEvent, "Note(string indexed tag, uint256 amount)")
	var tagTopic [32]byte
	copy(tagTopic[:], common.Keccak256([]byte("hello")))

	data, err := abi.EncodeParams([]abi.Type{mustType(t, "uint256")}, []abi.Value{abi.Uint(256, big.NewInt(5))})
	if err != nil {
		t.Fatal(err)
	}
	topics := [][32]byte{sig.Topic0(), tagTopic}
	out, err := abi.DecodeLog(sig, topics, data)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := out["tag"].Bytes()
	if !ok || len(b) != 32 {
		t.Fatalf("tag = %v, want raw 32-byte hash", out["tag"])
	}
}

func TestEncodePackedNoPadding(t *testing.T) {
	types := []abi.Type{mustType(t, "uint16"), mustType(t, "address")}
	addr, _ := common.ParseAddress("0x0000000000000000000000000000000000000001")
	values := []abi.Value{abi.Uint(16, big.NewInt(1)), abi.AddressValue(addr)}
	out, err := abi.EncodePacked(types, values)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2+20 {
		t.Fatalf("len(out) = %d, want 22", len(out))
	}
}
