package tx

import (
	"crypto"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ModChain/secp256k1"

	"github.com/ModChain/evmcodec/common"
)

// secp256k1Order is the group order N of the secp256k1 curve. Ethereum
// requires s <= N/2 (canonical low-s form) to prevent signature
// malleability, a constraint go's generic ECDSA signer does not enforce on
// its own.
var secp256k1Order, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

var secp256k1HalfOrder = new(big.Int).Rsh(secp256k1Order, 1)

// Sign signs tx with key, setting R, S, YParity and marking it Signed. key
// must produce a DER-encoded ECDSA signature over secp256k1 (as
// *secp256k1.PrivateKey does).
func (tx *Transaction) Sign(key crypto.Signer) error {
	payload, err := tx.SigningPayload()
	if err != nil {
		return err
	}
	h := keccak256(payload)

	der, err := key.Sign(rand.Reader, h, crypto.Hash(0))
	if err != nil {
		return err
	}
	sig, err := secp256k1.ParseDERSignature(der)
	if err != nil {
		return err
	}
	pub, ok := key.Public().(*secp256k1.PublicKey)
	if !ok {
		return errors.New("tx: signing key's public key is not a secp256k1 public key")
	}
	sig.BruteforceRecoveryCode(h, pub)
	r, s, v := sig.Export()

	if s.Cmp(secp256k1HalfOrder) > 0 {
		s = new(big.Int).Sub(secp256k1Order, s)
		v ^= 1
	}

	tx.R, tx.S, tx.YParity = r, s, v
	tx.Signed = true
	return nil
}

// Signature reconstructs the (r, s, recovery-code) secp256k1 signature from
// a signed transaction's R, S and YParity fields. A legacy v value is split
// into ChainID and YParity when the transaction is parsed, not here.
func (tx *Transaction) Signature() (*secp256k1.Signature, error) {
	if !tx.Signed {
		return nil, errors.New("tx: transaction is not signed")
	}
	r := new(secp256k1.ModNScalar)
	if overflow := r.SetByteSlice(tx.R.Bytes()); overflow {
		return nil, errors.New("tx: signature R is out of range")
	}
	s := new(secp256k1.ModNScalar)
	if overflow := s.SetByteSlice(tx.S.Bytes()); overflow {
		return nil, errors.New("tx: signature S is out of range")
	}
	return secp256k1.NewSignatureWithRecoveryCode(r, s, tx.YParity), nil
}

// SenderPubkey recovers the public key that produced tx's signature.
func (tx *Transaction) SenderPubkey() (*secp256k1.PublicKey, error) {
	sig, err := tx.Signature()
	if err != nil {
		return nil, err
	}
	payload, err := tx.SigningPayload()
	if err != nil {
		return nil, err
	}
	h := keccak256(payload)
	return sig.RecoverPublicKey(h)
}

// SenderAddress recovers and formats the address that signed tx.
func (tx *Transaction) SenderAddress() (common.Address, error) {
	pub, err := tx.SenderPubkey()
	if err != nil {
		return common.Address{}, err
	}
	hash := keccak256(pub.SerializeUncompressed()[1:])
	return common.BytesToAddress(hash[12:]), nil
}

// Hash returns the Keccak-256 hash of tx's final wire encoding, i.e. the
// on-chain transaction hash. tx must be signed.
func (tx *Transaction) Hash() ([]byte, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return keccak256(data), nil
}
