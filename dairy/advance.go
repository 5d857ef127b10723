/*
advance.go - Advance balance reconciliation and farmer numbering

PURPOSE:
  Keeps each farmer's denormalised AdvanceBalance equal to the sum of that
  farmer's stored advances. Invoked after every advance insert or delete,
  and periodically by the scheduler as a sweep.

KEY INSIGHT:
  The balance is always recomputed from the authoritative advances list,
  never incremented or decremented. A recompute therefore heals any drift
  left behind by a lost update or a failed earlier write.

FAILURE MODEL:
  A failed balance persist is logged and reported but does NOT roll back
  the advance write that triggered it. The invariant may be briefly
  violated; the next reconcile (write-driven or sweep) restores it.

SEE ALSO:
  - store.go: ListAdvancesByFarmer / SetFarmerAdvanceBalance
  - scheduler/: the periodic sweep
*/
package dairy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reconciler recomputes denormalised advance balances from the store.
type Reconciler struct {
	Store  Store
	Logger *zap.Logger
}

// NewReconciler wires a reconciler. A nil logger is replaced with a no-op.
func NewReconciler(store Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Store: store, Logger: logger}
}

// ReconcileAdvance sets the farmer's AdvanceBalance to the sum of the
// farmer's currently stored advances and returns the new balance.
func (r *Reconciler) ReconcileAdvance(ctx context.Context, farmerID FarmerID) (decimal.Decimal, error) {
	advances, err := r.Store.ListAdvancesByFarmer(ctx, farmerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reconcile %s: list advances: %w", farmerID, err)
	}

	total := decimal.Zero
	for _, a := range advances {
		total = total.Add(a.Amount)
	}
	total = Round2(total)

	if err := r.Store.SetFarmerAdvanceBalance(ctx, farmerID, total); err != nil {
		// The advance write already landed; do not roll it back. The drift
		// is healed by the next reconcile.
		r.Logger.Error("failed to persist advance balance",
			zap.String("farmer_id", string(farmerID)),
			zap.String("balance", total.String()),
			zap.Error(err))
		return total, fmt.Errorf("reconcile %s: persist balance: %w", farmerID, err)
	}
	return total, nil
}

// ReconcileAll sweeps every farmer. Used by the periodic scheduler to
// absorb any balance persist that failed at write time. Returns the number
// of farmers whose reconcile failed.
func (r *Reconciler) ReconcileAll(ctx context.Context) (failed int, err error) {
	farmers, err := r.Store.ListFarmers(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile sweep: list farmers: %w", err)
	}
	for _, f := range farmers {
		if _, err := r.ReconcileAdvance(ctx, f.ID); err != nil {
			failed++
		}
	}
	return failed, nil
}

// NextFarmerNo suggests the next human-facing farmer number:
// max(existing) + 1, or 1 when the books are empty. Advisory only; the
// user may override, and uniqueness is enforced by the store.
func NextFarmerNo(ctx context.Context, store Store) (int, error) {
	farmers, err := store.ListFarmers(ctx)
	if err != nil {
		return 0, err
	}
	next := 1
	for _, f := range farmers {
		if f.FarmerNo >= next {
			next = f.FarmerNo + 1
		}
	}
	return next, nil
}
