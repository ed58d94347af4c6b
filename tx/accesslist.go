// Package tx assembles, RLP-serializes, and ECDSA-signs Ethereum
// transactions: legacy (pre- and post-EIP-155) and EIP-1559 (type 2),
// including a fully specified EIP-2930 access list.
package tx

import (
	"fmt"

	"github.com/KarpelesLab/cryptutil"
	"golang.org/x/crypto/sha3"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
	"github.com/ModChain/evmcodec/rlp"
)

// keccak256 hashes data for transaction digests and signature recovery:
// cryptutil.Hash chained with the legacy Keccak-256 construction.
func keccak256(data []byte) []byte {
	return cryptutil.Hash(data, sha3.NewLegacyKeccak256)
}

// AccessTuple is one entry of an EIP-2930 access list: an address plus the
// storage slots within it the transaction declares it will touch.
type AccessTuple struct {
	Address     common.Address
	StorageKeys [][32]byte
}

// AccessList is an ordered list of AccessTuple, RLP-encoded as a list of
// 2-tuples per EIP-2930.
type AccessList []AccessTuple

// toItem builds the RLP item tree for an access list: a List of
// List{address, List{storage keys...}}.
func (al AccessList) toItem() rlp.Item {
	items := make(rlp.List, len(al))
	for i, t := range al {
		keys := make(rlp.List, len(t.StorageKeys))
		for j, k := range t.StorageKeys {
			keys[j] = rlp.String(k[:])
		}
		items[i] = rlp.List{rlp.String(t.Address.Bytes()), keys}
	}
	return items
}

// decodeAccessList inverts toItem.
func decodeAccessList(item rlp.Item) (AccessList, error) {
	list, ok := rlp.AsList(item)
	if !ok {
		return nil, fmt.Errorf("%w: access list must be an RLP list", evmerr.ErrMalformedEncoding)
	}
	out := make(AccessList, len(list))
	for i, entry := range list {
		tupleList, ok := rlp.AsList(entry)
		if !ok || len(tupleList) != 2 {
			return nil, fmt.Errorf("%w: access list entry %d must be a 2-tuple", evmerr.ErrMalformedEncoding, i)
		}
		addrStr, ok := rlp.AsString(tupleList[0])
		if !ok || len(addrStr) != common.AddressLength {
			return nil, fmt.Errorf("%w: access list entry %d has a malformed address", evmerr.ErrMalformedEncoding, i)
		}
		keysList, ok := rlp.AsList(tupleList[1])
		if !ok {
			return nil, fmt.Errorf("%w: access list entry %d has a malformed storage key list", evmerr.ErrMalformedEncoding, i)
		}
		keys := make([][32]byte, len(keysList))
		for j, k := range keysList {
			ks, ok := rlp.AsString(k)
			if !ok || len(ks) != 32 {
				return nil, fmt.Errorf("%w: access list entry %d storage key %d is not 32 bytes", evmerr.ErrMalformedEncoding, i, j)
			}
			copy(keys[j][:], ks)
		}
		out[i] = AccessTuple{Address: common.BytesToAddress(addrStr), StorageKeys: keys}
	}
	return out, nil
}
