package nonce

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ModChain/evmcodec/common"
)

// ErrNonceNotFound is returned by OnSuccess for a nonce the store never
// reserved. The other mutating calls report the same condition through the
// NonceNotFound Outcome instead, since a missing nonce is an expected
// possibility for them, not a programmer error.
var ErrNonceNotFound = errors.New("nonce: nonce not reserved by this store")

type memSlot struct {
	failedAt *time.Time
	consumed bool // set by OnRevert/OnOutOfGas
}

type memAccount struct {
	mu       sync.Mutex
	seeded   bool
	next     uint64
	reserved map[uint64]*memSlot
}

// MemStore is an in-memory nonce.Store, guarded by one mutex per account.
// It has no crash safety: a process restart loses all reservations. Use it
// for tests and for short-lived tooling; use FileStore wherever a restart
// must not hand out a nonce twice.
type MemStore struct {
	opts options

	mu       sync.Mutex
	accounts map[common.Address]*memAccount
}

// NewMemStore returns a ready MemStore.
func NewMemStore(opts ...Option) *MemStore {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &MemStore{opts: o, accounts: make(map[common.Address]*memAccount)}
}

func (s *MemStore) account(addr common.Address) *memAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[addr]
	if !ok {
		a = &memAccount{reserved: make(map[uint64]*memSlot)}
		s.accounts[addr] = a
	}
	return a
}

func (a *memAccount) ensureSeeded(ctx context.Context, seed TransactionCounter, account common.Address) error {
	if a.seeded {
		return nil
	}
	if seed == nil {
		a.seeded = true
		return nil
	}
	n, err := seed.TransactionCount(ctx, account)
	if err != nil {
		return err
	}
	a.next = n
	a.seeded = true
	return nil
}

func (s *MemStore) Reserve(ctx context.Context, account common.Address, seed TransactionCounter) (uint64, error) {
	a := s.account(account)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureSeeded(ctx, seed, account); err != nil {
		return 0, err
	}
	n := a.next
	a.next++
	a.reserved[n] = &memSlot{}
	return n, nil
}

func (s *MemStore) Peek(ctx context.Context, account common.Address, seed TransactionCounter) (uint64, error) {
	a := s.account(account)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureSeeded(ctx, seed, account); err != nil {
		return 0, err
	}
	return a.next, nil
}

func (s *MemStore) OnSuccess(ctx context.Context, account common.Address, n uint64) error {
	a := s.account(account)
	a.mu.Lock()
	defer a.mu.Unlock()
	slot, ok := a.reserved[n]
	if !ok {
		return ErrNonceNotFound
	}
	slot.failedAt = nil
	return nil
}

func (s *MemStore) OnFailure(ctx context.Context, account common.Address, n uint64) (Outcome, error) {
	a := s.account(account)
	a.mu.Lock()
	defer a.mu.Unlock()
	slot, ok := a.reserved[n]
	if !ok {
		return NonceNotFound, nil
	}
	if slot.consumed {
		return NotRemovedGasSpent, nil
	}
	now := time.Now()
	if slot.failedAt == nil {
		slot.failedAt = &now
		return NotRemovedShouldRetry, nil
	}
	if now.Sub(*slot.failedAt) < s.opts.graceWindow {
		return NotRemovedShouldRetry, nil
	}
	delete(a.reserved, n)
	for k := range a.reserved {
		if k > n {
			return RemovedGapDetected, nil
		}
	}
	return RemovedOkay, nil
}

func (s *MemStore) markConsumed(account common.Address, n uint64) (Outcome, error) {
	a := s.account(account)
	a.mu.Lock()
	defer a.mu.Unlock()
	slot, ok := a.reserved[n]
	if !ok {
		return NonceNotFound, nil
	}
	slot.consumed = true
	return NotRemovedGasSpent, nil
}

func (s *MemStore) OnRevert(ctx context.Context, account common.Address, n uint64) (Outcome, error) {
	return s.markConsumed(account, n)
}

func (s *MemStore) OnOutOfGas(ctx context.Context, account common.Address, n uint64) (Outcome, error) {
	return s.markConsumed(account, n)
}

func (s *MemStore) OnNonceTooLow(ctx context.Context, account common.Address, n uint64) (uint64, error) {
	a := s.account(account)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureSeeded(ctx, nil, account); err != nil {
		return 0, err
	}
	if a.next <= n {
		a.next = n + 1
	}
	fresh := a.next
	a.next++
	a.reserved[fresh] = &memSlot{}
	return fresh, nil
}

var _ Store = (*MemStore)(nil)
