package tx

import (
	"fmt"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// Log is one entry of a Receipt's log list: the emitting contract, its
// topics (topic0 plus up to three indexed parameters), and the ABI-encoded
// non-indexed parameter data. Topics and Data are exactly the shape
// abi.DecodeLog expects, so a caller can pass them through unchanged.
type Log struct {
	Address common.Address
	Topics  [][32]byte
	Data    []byte
}

// Receipt is the outcome of a mined transaction: whether it succeeded, how
// much gas the block had consumed by the time it ran, the logs it emitted,
// and (for a contract-creation transaction) the address that was deployed.
//
// Status and PostState are mutually exclusive. A post-Byzantium receipt
// carries Status (0 failure, 1 success) and leaves PostState empty; a
// pre-Byzantium receipt instead carries the intermediate state root as
// PostState and leaves Status nil.
type Receipt struct {
	Type              Type
	Status            *uint64
	PostState         []byte
	CumulativeGasUsed uint64
	Bloom             [256]byte
	Logs              []Log
	ContractAddress   *common.Address
}

// Validate checks the Status/PostState mutual-exclusion invariant and that
// a present Status is 0 or 1.
func (r *Receipt) Validate() error {
	switch {
	case len(r.PostState) != 0 && r.Status != nil:
		return fmt.Errorf("%w: receipt carries both a pre-Byzantium state root and a post-Byzantium status", evmerr.ErrIncompatibleValue)
	case len(r.PostState) == 0 && r.Status == nil:
		return fmt.Errorf("%w: receipt has neither a pre-Byzantium state root nor a status", evmerr.ErrIncompatibleValue)
	case r.Status != nil && *r.Status > 1:
		return fmt.Errorf("%w: status must be 0 or 1, got %d", evmerr.ErrOutOfRange, *r.Status)
	}
	return nil
}
