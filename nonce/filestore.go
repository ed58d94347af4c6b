package nonce

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ModChain/evmcodec/common"
)

// FileStore is a crash-safe nonce.Store backed by exclusive-create marker
// files, one subdirectory per account under root. A nonce n is represented
// by an empty "<n>.nonce" file; a submission failure additionally creates
// "<n>.failed" holding the RFC3339 timestamp of the first failure; a
// confirmed revert or out-of-gas result creates "<n>.spent". Because the
// reservation itself is a file, a process restart sees exactly the state
// the crashed process left behind: no nonce can be handed out twice and no
// in-flight reservation is silently forgotten.
type FileStore struct {
	root string
	opts options
}

// NewFileStore returns a FileStore rooted at root, creating the directory
// if it does not exist.
func NewFileStore(root string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &FileStore{root: root, opts: o}, nil
}

func (s *FileStore) accountDir(account common.Address) string {
	return filepath.Join(s.root, strings.ToLower(account.Hex()[2:]))
}

func nonceFileName(n uint64) string { return fmt.Sprintf("%d.nonce", n) }
func failedFileName(n uint64) string { return fmt.Sprintf("%d.failed", n) }
func spentFileName(n uint64) string { return fmt.Sprintf("%d.spent", n) }

// listNonces returns every nonce with a marker file in dir, ascending.
func listNonces(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []uint64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".nonce") {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(name, ".nonce"), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *FileStore) nextCandidate(ctx context.Context, account common.Address, seed TransactionCounter, dir string) (uint64, error) {
	existing, err := listNonces(dir)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return existing[len(existing)-1] + 1, nil
	}
	if seed == nil {
		return 0, nil
	}
	return seed.TransactionCount(ctx, account)
}

func (s *FileStore) Reserve(ctx context.Context, account common.Address, seed TransactionCounter) (uint64, error) {
	dir := s.accountDir(account)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	candidate, err := s.nextCandidate(ctx, account, seed, dir)
	if err != nil {
		return 0, err
	}
	for {
		f, err := os.OpenFile(filepath.Join(dir, nonceFileName(candidate)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return candidate, nil
		}
		if !os.IsExist(err) {
			return 0, err
		}
		candidate++
	}
}

func (s *FileStore) Peek(ctx context.Context, account common.Address, seed TransactionCounter) (uint64, error) {
	dir := s.accountDir(account)
	return s.nextCandidate(ctx, account, seed, dir)
}

func (s *FileStore) noncePath(account common.Address, n uint64) string {
	return filepath.Join(s.accountDir(account), nonceFileName(n))
}

func (s *FileStore) failedPath(account common.Address, n uint64) string {
	return filepath.Join(s.accountDir(account), failedFileName(n))
}

func (s *FileStore) spentPath(account common.Address, n uint64) string {
	return filepath.Join(s.accountDir(account), spentFileName(n))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *FileStore) OnSuccess(ctx context.Context, account common.Address, n uint64) error {
	if !exists(s.noncePath(account, n)) {
		return ErrNonceNotFound
	}
	if err := os.Remove(s.failedPath(account, n)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) OnFailure(ctx context.Context, account common.Address, n uint64) (Outcome, error) {
	if !exists(s.noncePath(account, n)) {
		return NonceNotFound, nil
	}
	if exists(s.spentPath(account, n)) {
		return NotRemovedGasSpent, nil
	}
	failedPath := s.failedPath(account, n)
	firstFailure, err := os.ReadFile(failedPath)
	if os.IsNotExist(err) {
		if werr := os.WriteFile(failedPath, []byte(time.Now().UTC().Format(time.RFC3339)), 0o644); werr != nil {
			return NotRemovedDueToError, werr
		}
		logrus.Infof("nonce: first failure recorded for %s nonce %d, grace window %s", account, n, s.opts.graceWindow)
		return NotRemovedShouldRetry, nil
	}
	if err != nil {
		return NotRemovedDueToError, err
	}
	since, err := time.Parse(time.RFC3339, strings.TrimSpace(string(firstFailure)))
	if err != nil {
		return NotRemovedDueToError, fmt.Errorf("nonce: corrupt failed marker for %d: %w", n, err)
	}
	if time.Since(since) < s.opts.graceWindow {
		return NotRemovedShouldRetry, nil
	}
	dir := s.accountDir(account)
	if err := os.Remove(s.noncePath(account, n)); err != nil && !os.IsNotExist(err) {
		return NotRemovedDueToError, err
	}
	if err := os.Remove(failedPath); err != nil && !os.IsNotExist(err) {
		return NotRemovedDueToError, err
	}
	later, err := listNonces(dir)
	if err != nil {
		return NotRemovedDueToError, err
	}
	for _, k := range later {
		if k > n {
			logrus.Infof("nonce: removed %s nonce %d after grace window, gap detected (later nonce %d reserved)", account, n, k)
			return RemovedGapDetected, nil
		}
	}
	logrus.Infof("nonce: removed %s nonce %d after grace window", account, n)
	return RemovedOkay, nil
}

func (s *FileStore) markConsumed(account common.Address, n uint64) (Outcome, error) {
	if !exists(s.noncePath(account, n)) {
		return NonceNotFound, nil
	}
	f, err := os.OpenFile(s.spentPath(account, n), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return NotRemovedDueToError, err
	}
	f.Close()
	return NotRemovedGasSpent, nil
}

func (s *FileStore) OnRevert(ctx context.Context, account common.Address, n uint64) (Outcome, error) {
	return s.markConsumed(account, n)
}

func (s *FileStore) OnOutOfGas(ctx context.Context, account common.Address, n uint64) (Outcome, error) {
	return s.markConsumed(account, n)
}

func (s *FileStore) OnNonceTooLow(ctx context.Context, account common.Address, n uint64) (uint64, error) {
	dir := s.accountDir(account)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	candidate, err := s.nextCandidate(context.Background(), account, nil, dir)
	if err != nil {
		return 0, err
	}
	if candidate <= n {
		candidate = n + 1
	}
	for {
		f, err := os.OpenFile(filepath.Join(dir, nonceFileName(candidate)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			logrus.Infof("nonce: %s nonce %d rejected as too low, reserved %d instead", account, n, candidate)
			return candidate, nil
		}
		if !os.IsExist(err) {
			return 0, err
		}
		candidate++
	}
}

var _ Store = (*FileStore)(nil)
