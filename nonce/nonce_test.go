package nonce_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/nonce"
)

var testAccount = common.BytesToAddress([]byte{0xAA})

func TestFileStoreReserveIsGapFreeUnderConcurrency(t *testing.T) {
	store, err := nonce.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	const n = 5
	var wg sync.WaitGroup
	var mu sync.Mutex
	got := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.Reserve(context.Background(), testAccount, nil)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}()
	}
	wg.Wait()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []uint64{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFileStoreOnFailureGapDetectedAfterGraceWindow(t *testing.T) {
	dir := t.TempDir()
	store, err := nonce.NewFileStore(dir, nonce.WithGraceWindow(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.Reserve(ctx, testAccount, nil); err != nil {
			t.Fatal(err)
		}
	}

	outcome, err := store.OnFailure(ctx, testAccount, 3)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != nonce.NotRemovedShouldRetry {
		t.Fatalf("first OnFailure = %s, want NotRemovedShouldRetry", outcome)
	}

	time.Sleep(20 * time.Millisecond)

	outcome, err = store.OnFailure(ctx, testAccount, 3)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != nonce.RemovedGapDetected {
		t.Fatalf("second OnFailure = %s, want RemovedGapDetected (nonce 4 is still reserved)", outcome)
	}

	accountDir := filepath.Join(dir, testAccount.Hex()[2:])
	if _, err := os.Stat(filepath.Join(accountDir, "3.nonce")); !os.IsNotExist(err) {
		t.Fatal("expected 3.nonce to be removed")
	}
	if _, err := os.Stat(filepath.Join(accountDir, "4.nonce")); err != nil {
		t.Fatal("expected 4.nonce to remain reserved")
	}
}

func TestFileStoreOnSuccessClearsFailedMarker(t *testing.T) {
	dir := t.TempDir()
	store, err := nonce.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	n, err := store.Reserve(ctx, testAccount, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.OnFailure(ctx, testAccount, n); err != nil {
		t.Fatal(err)
	}
	if err := store.OnSuccess(ctx, testAccount, n); err != nil {
		t.Fatal(err)
	}
	accountDir := filepath.Join(dir, testAccount.Hex()[2:])
	if _, err := os.Stat(filepath.Join(accountDir, "0.failed")); !os.IsNotExist(err) {
		t.Fatal("expected failed marker to be removed after success")
	}
	if _, err := os.Stat(filepath.Join(accountDir, "0.nonce")); err != nil {
		t.Fatal("expected nonce marker to persist after success")
	}
}

func TestFileStoreOnOutOfGasBlocksReuseOnFailure(t *testing.T) {
	store, err := nonce.NewFileStore(t.TempDir(), nonce.WithGraceWindow(time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	n, err := store.Reserve(ctx, testAccount, nil)
	if err != nil {
		t.Fatal(err)
	}
	outcome, err := store.OnOutOfGas(ctx, testAccount, n)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != nonce.NotRemovedGasSpent {
		t.Fatalf("OnOutOfGas = %s, want NotRemovedGasSpent", outcome)
	}
	time.Sleep(5 * time.Millisecond)
	outcome, err = store.OnFailure(ctx, testAccount, n)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != nonce.NotRemovedGasSpent {
		t.Fatalf("OnFailure after OnOutOfGas = %s, want NotRemovedGasSpent (nonce already consumed)", outcome)
	}
}

func TestFileStoreOnNonceTooLowSkipsAhead(t *testing.T) {
	store, err := nonce.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := store.Reserve(ctx, testAccount, nil); err != nil {
			t.Fatal(err)
		}
	}
	fresh, err := store.OnNonceTooLow(ctx, testAccount, 1)
	if err != nil {
		t.Fatal(err)
	}
	if fresh != 3 {
		t.Fatalf("OnNonceTooLow(1) = %d, want 3 (next free slot)", fresh)
	}
}

func TestMemStoreSeedsFromTransactionCounter(t *testing.T) {
	store := nonce.NewMemStore()
	seed := counterFunc(func(context.Context, common.Address) (uint64, error) { return 42, nil })
	n, err := store.Reserve(context.Background(), testAccount, seed)
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatalf("Reserve = %d, want 42", n)
	}
	n2, err := store.Reserve(context.Background(), testAccount, seed)
	if err != nil {
		t.Fatal(err)
	}
	if n2 != 43 {
		t.Fatalf("second Reserve = %d, want 43", n2)
	}
}

func TestMemStoreOnFailureUnknownNonce(t *testing.T) {
	store := nonce.NewMemStore()
	outcome, err := store.OnFailure(context.Background(), testAccount, 999)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != nonce.NonceNotFound {
		t.Fatalf("OnFailure(unknown) = %s, want NonceNotFound", outcome)
	}
}

type counterFunc func(ctx context.Context, account common.Address) (uint64, error)

func (f counterFunc) TransactionCount(ctx context.Context, account common.Address) (uint64, error) {
	return f(ctx, account)
}
