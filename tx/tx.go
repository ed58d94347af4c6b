package tx

import (
	"fmt"
	"math/big"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
	"github.com/ModChain/evmcodec/rlp"
)

// Type distinguishes a transaction's wire envelope.
type Type int

const (
	Legacy Type = iota
	DynamicFee      // EIP-1559, wire-prefixed 0x02
)

func (t Type) typeByte() byte {
	if t == DynamicFee {
		return 2
	}
	return 0
}

// Transaction is a sum type covering legacy and EIP-1559 (type 2)
// transactions: both variants' fields share one struct, with the fields
// the active variant ignores left at their zero value.
type Transaction struct {
	Type Type

	ChainID   uint64 // ignored for pre-EIP-155 legacy transactions when 0
	Nonce     uint64
	GasTipCap *big.Int // a.k.a. maxPriorityFeePerGas, EIP-1559 only
	GasFeeCap *big.Int // a.k.a. maxFeePerGas for EIP-1559, or the flat gasPrice for legacy
	Gas       uint64
	To        *common.Address // nil means contract creation
	Value     *big.Int
	Data      []byte

	AccessList AccessList // EIP-1559 only (this module never emits bare EIP-2930 transactions)

	Signed  bool
	YParity byte // 0 or 1
	R, S    *big.Int
}

func (tx *Transaction) recipientBytes() []byte {
	if tx.To == nil {
		return nil
	}
	return tx.To.Bytes()
}

// unsignedFields returns this transaction's RLP item list, excluding the
// signature, in the order its wire form and signing payload both use.
func (tx *Transaction) unsignedFields() (rlp.List, error) {
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	switch tx.Type {
	case Legacy:
		gp, err := rlp.EncodeBigIntItem(tx.GasFeeCap)
		if err != nil {
			return nil, err
		}
		v, err := rlp.EncodeBigIntItem(value)
		if err != nil {
			return nil, err
		}
		return rlp.List{
			rlp.String(minimalUint64(tx.Nonce)),
			gp,
			rlp.String(minimalUint64(tx.Gas)),
			rlp.String(tx.recipientBytes()),
			v,
			rlp.String(tx.Data),
		}, nil
	case DynamicFee:
		tip, err := rlp.EncodeBigIntItem(tx.GasTipCap)
		if err != nil {
			return nil, err
		}
		fee, err := rlp.EncodeBigIntItem(tx.GasFeeCap)
		if err != nil {
			return nil, err
		}
		v, err := rlp.EncodeBigIntItem(value)
		if err != nil {
			return nil, err
		}
		return rlp.List{
			rlp.String(minimalUint64(tx.ChainID)),
			rlp.String(minimalUint64(tx.Nonce)),
			tip,
			fee,
			rlp.String(minimalUint64(tx.Gas)),
			rlp.String(tx.recipientBytes()),
			v,
			rlp.String(tx.Data),
			tx.AccessList.toItem(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown transaction type", evmerr.ErrInvalidType)
	}
}

func minimalUint64(v uint64) []byte {
	return rlp.MinimalUint64Bytes(v)
}

// SigningPayload returns the bytes the digest is computed over: the RLP
// list of unsigned fields (legacy pre-EIP-155), that list plus
// [chainId,0,0] (legacy EIP-155, chosen whenever ChainID != 0), or the
// 0x02-prefixed RLP of the full EIP-1559 field list.
func (tx *Transaction) SigningPayload() ([]byte, error) {
	fields, err := tx.unsignedFields()
	if err != nil {
		return nil, err
	}
	switch tx.Type {
	case Legacy:
		if tx.ChainID != 0 {
			fields = append(fields, rlp.String(minimalUint64(tx.ChainID)), rlp.String(nil), rlp.String(nil))
		}
		return rlp.Encode(fields), nil
	case DynamicFee:
		return append([]byte{tx.typeByte()}, rlp.Encode(fields)...), nil
	default:
		return nil, fmt.Errorf("%w: unknown transaction type", evmerr.ErrInvalidType)
	}
}

// Digest returns the Keccak-256 hash of the signing payload.
func (tx *Transaction) Digest() ([]byte, error) {
	payload, err := tx.SigningPayload()
	if err != nil {
		return nil, err
	}
	return keccak256(payload), nil
}

// wireV returns the signature's wire-encoded v value: y_parity+35+2*chainId
// for EIP-155 legacy, y_parity+27 for pre-155 legacy, and y_parity itself
// for EIP-1559.
func (tx *Transaction) wireV() *big.Int {
	switch tx.Type {
	case Legacy:
		if tx.ChainID != 0 {
			v := new(big.Int).SetUint64(tx.ChainID)
			v.Mul(v, big.NewInt(2))
			v.Add(v, big.NewInt(35+int64(tx.YParity)))
			return v
		}
		return big.NewInt(27 + int64(tx.YParity))
	default:
		return big.NewInt(int64(tx.YParity))
	}
}

// MarshalBinary returns the transaction's wire bytes: the unsigned signing
// payload if not yet signed, else the full RLP (legacy) or 0x02-prefixed
// RLP (EIP-1559) including the trailing signature fields.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	if !tx.Signed {
		return tx.SigningPayload()
	}
	fields, err := tx.unsignedFields()
	if err != nil {
		return nil, err
	}
	r, err := rlp.EncodeBigIntItem(tx.R)
	if err != nil {
		return nil, err
	}
	s, err := rlp.EncodeBigIntItem(tx.S)
	if err != nil {
		return nil, err
	}
	v, err := rlp.EncodeBigIntItem(tx.wireV())
	if err != nil {
		return nil, err
	}
	switch tx.Type {
	case Legacy:
		fields = append(fields, v, r, s)
		return rlp.Encode(fields), nil
	case DynamicFee:
		fields = append(fields, v, r, s)
		return append([]byte{tx.typeByte()}, rlp.Encode(fields)...), nil
	default:
		return nil, fmt.Errorf("%w: unknown transaction type", evmerr.ErrInvalidType)
	}
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler via ParseTransaction.
func (tx *Transaction) UnmarshalBinary(buf []byte) error {
	return tx.ParseTransaction(buf)
}

// ParseTransaction decodes buf into tx. On error tx's state is undefined.
func ParseTransaction(buf []byte) (*Transaction, error) {
	tx := &Transaction{}
	if err := tx.ParseTransaction(buf); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Transaction) ParseTransaction(buf []byte) error {
	if len(buf) < 1 {
		return fmt.Errorf("%w: empty transaction buffer", evmerr.ErrMalformedEncoding)
	}
	if buf[0] >= 0x80 {
		return tx.parseLegacy(buf)
	}
	if buf[0] == 2 {
		return tx.parseDynamicFee(buf[1:])
	}
	return fmt.Errorf("%w: unsupported transaction type byte 0x%02x", evmerr.ErrInvalidType, buf[0])
}

func (tx *Transaction) parseLegacy(buf []byte) error {
	item, err := rlp.Decode(buf)
	if err != nil {
		return err
	}
	fields, ok := rlp.AsList(item)
	if !ok {
		return fmt.Errorf("%w: legacy transaction must be an RLP list", evmerr.ErrMalformedEncoding)
	}
	if len(fields) != 6 && len(fields) != 9 {
		return fmt.Errorf("%w: legacy transaction must have 6 or 9 fields, got %d", evmerr.ErrMalformedEncoding, len(fields))
	}
	tx.Type = Legacy
	var errs [6]error
	nonceS, _ := rlp.AsString(fields[0])
	tx.Nonce, errs[0] = rlp.DecodeUint64(nonceS)
	gpS, _ := rlp.AsString(fields[1])
	tx.GasFeeCap = new(big.Int).SetBytes(gpS)
	gasS, _ := rlp.AsString(fields[2])
	tx.Gas, errs[2] = rlp.DecodeUint64(gasS)
	toS, _ := rlp.AsString(fields[3])
	if len(toS) == 0 {
		tx.To = nil
	} else {
		a := common.BytesToAddress(toS)
		tx.To = &a
	}
	valS, _ := rlp.AsString(fields[4])
	tx.Value = new(big.Int).SetBytes(valS)
	dataS, _ := rlp.AsString(fields[5])
	tx.Data = []byte(dataS)
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	if len(fields) == 9 {
		tx.Signed = true
		vS, _ := rlp.AsString(fields[6])
		rS, _ := rlp.AsString(fields[7])
		sS, _ := rlp.AsString(fields[8])
		v := new(big.Int).SetBytes(vS)
		tx.R = new(big.Int).SetBytes(rS)
		tx.S = new(big.Int).SetBytes(sS)
		if v.Cmp(big.NewInt(35)) >= 0 {
			chainPart := new(big.Int).Sub(v, big.NewInt(35))
			bit := new(big.Int).And(chainPart, big.NewInt(1))
			chainPart.Sub(chainPart, bit)
			chainPart.Div(chainPart, big.NewInt(2))
			tx.ChainID = chainPart.Uint64()
			tx.YParity = byte(bit.Uint64())
		} else {
			tx.ChainID = 0
			tx.YParity = byte(v.Int64() - 27)
		}
	}
	return nil
}

func (tx *Transaction) parseDynamicFee(buf []byte) error {
	item, err := rlp.Decode(buf)
	if err != nil {
		return err
	}
	fields, ok := rlp.AsList(item)
	if !ok {
		return fmt.Errorf("%w: EIP-1559 transaction must be an RLP list", evmerr.ErrMalformedEncoding)
	}
	if len(fields) != 9 && len(fields) != 12 {
		return fmt.Errorf("%w: EIP-1559 transaction must have 9 or 12 fields, got %d", evmerr.ErrMalformedEncoding, len(fields))
	}
	tx.Type = DynamicFee
	chainS, _ := rlp.AsString(fields[0])
	tx.ChainID = new(big.Int).SetBytes(chainS).Uint64()
	nonceS, _ := rlp.AsString(fields[1])
	nonce, err := rlp.DecodeUint64(nonceS)
	if err != nil {
		return err
	}
	tx.Nonce = nonce
	tipS, _ := rlp.AsString(fields[2])
	tx.GasTipCap = new(big.Int).SetBytes(tipS)
	feeS, _ := rlp.AsString(fields[3])
	tx.GasFeeCap = new(big.Int).SetBytes(feeS)
	gasS, _ := rlp.AsString(fields[4])
	gas, err := rlp.DecodeUint64(gasS)
	if err != nil {
		return err
	}
	tx.Gas = gas
	toS, _ := rlp.AsString(fields[5])
	if len(toS) == 0 {
		tx.To = nil
	} else {
		a := common.BytesToAddress(toS)
		tx.To = &a
	}
	valS, _ := rlp.AsString(fields[6])
	tx.Value = new(big.Int).SetBytes(valS)
	dataS, _ := rlp.AsString(fields[7])
	tx.Data = []byte(dataS)
	al, err := decodeAccessList(fields[8])
	if err != nil {
		return err
	}
	tx.AccessList = al
	if len(fields) == 12 {
		tx.Signed = true
		vS, _ := rlp.AsString(fields[9])
		rS, _ := rlp.AsString(fields[10])
		sS, _ := rlp.AsString(fields[11])
		tx.YParity = byte(new(big.Int).SetBytes(vS).Uint64())
		tx.R = new(big.Int).SetBytes(rS)
		tx.S = new(big.Int).SetBytes(sS)
	}
	return nil
}
