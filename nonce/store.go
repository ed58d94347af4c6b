// Package nonce implements the crash-safe per-account transaction counter:
// the only stateful component in this module. Two implementations share one
// interface — nonce.FileStore (exclusive-create marker files) and
// nonce.MemStore (an in-memory map guarded by a mutex) — so the codec layer
// above stays trivially testable against the in-memory form while
// production use gets crash safety from the filesystem form.
package nonce

import (
	"context"
	"time"

	"github.com/ModChain/evmcodec/common"
)

// Outcome enumerates every result a mutating nonce-store call can produce.
type Outcome int

const (
	// RemovedOkay means the nonce's markers were deleted cleanly: no later
	// nonce has been reserved, so the account's sequence is still dense.
	RemovedOkay Outcome = iota
	// RemovedGapDetected means the markers were deleted, but a later nonce
	// was already reserved: the account's on-chain sequence may be out of
	// order and should be reconciled.
	RemovedGapDetected
	// NotRemovedShouldRetry means the nonce is still reserved and the
	// caller should resubmit using it: either no failure was recorded yet,
	// or the grace window since the first failure has not elapsed.
	NotRemovedShouldRetry
	// NotRemovedGasSpent means the nonce was consumed on-chain (a revert or
	// out-of-gas outcome) and must not be reused.
	NotRemovedGasSpent
	// NonceNotFound means the caller referenced a nonce this store never
	// reserved.
	NonceNotFound
	// NotRemovedDueToError means an I/O error prevented determining the
	// correct outcome; the nonce's reservation status is unchanged.
	NotRemovedDueToError
)

// String implements fmt.Stringer for log messages and test failure output.
func (o Outcome) String() string {
	switch o {
	case RemovedOkay:
		return "RemovedOkay"
	case RemovedGapDetected:
		return "RemovedGapDetected"
	case NotRemovedShouldRetry:
		return "NotRemovedShouldRetry"
	case NotRemovedGasSpent:
		return "NotRemovedGasSpent"
	case NonceNotFound:
		return "NonceNotFound"
	case NotRemovedDueToError:
		return "NotRemovedDueToError"
	default:
		return "Outcome(?)"
	}
}

// TransactionCounter seeds a fresh account's nonce sequence from an
// external source, typically an `eth_getTransactionCount` RPC call. It is
// a narrower interface than a full rpc.Transport so embedders are not
// forced to implement methods the store never calls.
type TransactionCounter interface {
	TransactionCount(ctx context.Context, account common.Address) (uint64, error)
}

// Store is the interface both implementations satisfy.
type Store interface {
	// Reserve returns the smallest nonce not yet reserved for account,
	// seeding the sequence from seed's on-chain count if this is the first
	// reservation. Safe for concurrent use: two concurrent calls never
	// return the same value.
	Reserve(ctx context.Context, account common.Address, seed TransactionCounter) (uint64, error)

	// Peek reports the next nonce Reserve would hand out, without
	// reserving it. Intended for diagnostics; the value may be stale by
	// the time a subsequent Reserve runs.
	Peek(ctx context.Context, account common.Address, seed TransactionCounter) (uint64, error)

	// OnSuccess records that n was confirmed on-chain: its failed marker
	// (if any) is cleared, but the nonce marker itself is preserved as
	// proof the slot was consumed.
	OnSuccess(ctx context.Context, account common.Address, n uint64) error

	// OnFailure records a submission failure for n. Within the grace window
	// (or on the first failure) it returns NotRemovedShouldRetry; once the
	// grace window has elapsed it removes n's markers and returns
	// RemovedOkay or RemovedGapDetected depending on whether a later nonce
	// is already reserved.
	OnFailure(ctx context.Context, account common.Address, n uint64) (Outcome, error)

	// OnRevert and OnOutOfGas both report that n was consumed on-chain
	// despite the call's failure; the nonce must not be reused.
	OnRevert(ctx context.Context, account common.Address, n uint64) (Outcome, error)
	OnOutOfGas(ctx context.Context, account common.Address, n uint64) (Outcome, error)

	// OnNonceTooLow handles an RPC rejection of n as stale by reserving a
	// fresh nonce strictly greater than the current maximum.
	OnNonceTooLow(ctx context.Context, account common.Address, n uint64) (uint64, error)
}

// Option configures a Store constructor.
type Option func(*options)

type options struct {
	graceWindow time.Duration
}

func defaultOptions() options {
	return options{graceWindow: 30 * time.Second}
}

// WithGraceWindow overrides the default 30s grace window within which a
// repeated OnFailure call for the same nonce returns NotRemovedShouldRetry
// rather than removing the reservation.
func WithGraceWindow(d time.Duration) Option {
	return func(o *options) { o.graceWindow = d }
}
