package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/scry-study/internal/store"
)

// TxRecorder is a store.TxRunner for unit tests. It calls fn with a nil
// transaction, so stores passed to services must ignore the tx in WithTx.
type TxRecorder struct {
	// BeginErr is returned instead of running fn when set.
	BeginErr error
	// CommitErr is returned after fn succeeds when set.
	CommitErr error

	calls atomic.Int32
}

// Run implements store.TxRunner.
func (r *TxRecorder) Run(ctx context.Context, fn store.TxFn) error {
	r.calls.Add(1)
	if r.BeginErr != nil {
		return r.BeginErr
	}
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return r.CommitErr
}

// Runner returns r as a store.TxRunner.
func (r *TxRecorder) Runner() store.TxRunner {
	return r.Run
}

// Calls returns how many transactions were started.
func (r *TxRecorder) Calls() int {
	return int(r.calls.Load())
}
