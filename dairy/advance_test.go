package dairy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchamrit/milkbook/dairy"
	memstore "github.com/panchamrit/milkbook/dairy/store"
)

// =============================================================================
// ADVANCE RECONCILIATION TESTS
// =============================================================================

func TestReconcileAdvance_Accumulation(t *testing.T) {
	// GIVEN: Farmer F with no existing advances
	// WHEN: Inserting 500, 300 and 200 and reconciling after each
	// THEN: The balance ends at 1000; after deleting the 300 it is 700

	ctx := context.Background()
	st := memstore.NewMemory()
	rec := dairy.NewReconciler(st, nil)

	farmer := dairy.Farmer{ID: "f-1", FarmerNo: 1, Name: "Ram", FixedRate: dairy.DefaultRate}
	require.NoError(t, st.UpsertFarmer(ctx, farmer))

	var deletable dairy.AdvanceID
	for _, amount := range []float64{500, 300, 200} {
		a, err := st.InsertAdvance(ctx, dairy.Advance{
			FarmerID: farmer.ID, FarmerNo: 1, Date: "2081-01-16", Amount: dairy.Qty(amount),
		})
		require.NoError(t, err)
		if amount == 300 {
			deletable = a.ID
		}
		_, err = rec.ReconcileAdvance(ctx, farmer.ID)
		require.NoError(t, err)
	}

	stored, err := st.GetFarmer(ctx, farmer.ID)
	require.NoError(t, err)
	assert.True(t, stored.AdvanceBalance.Equal(dairy.Qty(1000)),
		"expected balance 1000, got %v", stored.AdvanceBalance)

	require.NoError(t, st.DeleteAdvance(ctx, deletable))
	_, err = rec.ReconcileAdvance(ctx, farmer.ID)
	require.NoError(t, err)

	stored, err = st.GetFarmer(ctx, farmer.ID)
	require.NoError(t, err)
	assert.True(t, stored.AdvanceBalance.Equal(dairy.Qty(700)),
		"expected balance 700 after delete, got %v", stored.AdvanceBalance)
}

func TestReconcileAdvance_SelfHealing(t *testing.T) {
	// GIVEN: A farmer whose denormalised balance has drifted from the
	//        authoritative advances (a lost update)
	// WHEN: Running a reconcile
	// THEN: The balance snaps back to the sum of stored advances

	ctx := context.Background()
	st := memstore.NewMemory()
	rec := dairy.NewReconciler(st, nil)

	farmer := dairy.Farmer{ID: "f-1", FarmerNo: 1, Name: "Ram", FixedRate: dairy.DefaultRate}
	require.NoError(t, st.UpsertFarmer(ctx, farmer))
	_, err := st.InsertAdvance(ctx, dairy.Advance{FarmerID: farmer.ID, FarmerNo: 1, Date: "2081-01-16", Amount: dairy.Qty(250)})
	require.NoError(t, err)

	// Simulate drift.
	require.NoError(t, st.SetFarmerAdvanceBalance(ctx, farmer.ID, dairy.Qty(9999)))

	balance, err := rec.ReconcileAdvance(ctx, farmer.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dairy.Qty(250)), "expected healed balance 250, got %v", balance)
}

func TestReconcileAdvance_NoAdvances_ZeroBalance(t *testing.T) {
	ctx := context.Background()
	st := memstore.NewMemory()
	rec := dairy.NewReconciler(st, nil)

	farmer := dairy.Farmer{ID: "f-1", FarmerNo: 1, Name: "Ram", FixedRate: dairy.DefaultRate, AdvanceBalance: dairy.Qty(100)}
	require.NoError(t, st.UpsertFarmer(ctx, farmer))

	balance, err := rec.ReconcileAdvance(ctx, farmer.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "expected zero balance, got %v", balance)
}

// failingBalanceStore simulates a store whose balance persist fails.
type failingBalanceStore struct {
	dairy.Store
}

var errPersist = errors.New("disk full")

func (f *failingBalanceStore) SetFarmerAdvanceBalance(context.Context, dairy.FarmerID, decimal.Decimal) error {
	return errPersist
}

func TestReconcileAdvance_PersistFailure_DoesNotRollBack(t *testing.T) {
	// GIVEN: A store that accepts the advance but fails the balance write
	// WHEN: Reconciling after an insert
	// THEN: The reconcile reports the error, the advance itself survives,
	//       and a later reconcile against a healthy store heals the balance

	ctx := context.Background()
	mem := memstore.NewMemory()
	farmer := dairy.Farmer{ID: "f-1", FarmerNo: 1, Name: "Ram", FixedRate: dairy.DefaultRate}
	require.NoError(t, mem.UpsertFarmer(ctx, farmer))
	_, err := mem.InsertAdvance(ctx, dairy.Advance{FarmerID: farmer.ID, FarmerNo: 1, Date: "2081-01-16", Amount: dairy.Qty(400)})
	require.NoError(t, err)

	broken := dairy.NewReconciler(&failingBalanceStore{Store: mem}, nil)
	_, err = broken.ReconcileAdvance(ctx, farmer.ID)
	assert.ErrorIs(t, err, errPersist)

	advances, err := mem.ListAdvancesByFarmer(ctx, farmer.ID)
	require.NoError(t, err)
	assert.Len(t, advances, 1, "advance must survive the failed balance write")

	healthy := dairy.NewReconciler(mem, nil)
	balance, err := healthy.ReconcileAdvance(ctx, farmer.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dairy.Qty(400)))
}

func TestReconcileAll_SweepsEveryFarmer(t *testing.T) {
	ctx := context.Background()
	st := memstore.NewMemory()
	rec := dairy.NewReconciler(st, nil)

	for i, amount := range []float64{500, 1200} {
		f := dairy.Farmer{
			ID:       dairy.FarmerID("f-" + string(rune('1'+i))),
			FarmerNo: i + 1, Name: "Farmer", FixedRate: dairy.DefaultRate,
		}
		require.NoError(t, st.UpsertFarmer(ctx, f))
		_, err := st.InsertAdvance(ctx, dairy.Advance{FarmerID: f.ID, FarmerNo: f.FarmerNo, Date: "2081-01-16", Amount: dairy.Qty(amount)})
		require.NoError(t, err)
	}

	failed, err := rec.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, failed)

	farmers, err := st.ListFarmers(ctx)
	require.NoError(t, err)
	assert.True(t, farmers[0].AdvanceBalance.Equal(dairy.Qty(500)))
	assert.True(t, farmers[1].AdvanceBalance.Equal(dairy.Qty(1200)))
}

// =============================================================================
// FARMER NUMBER ALLOCATOR TESTS
// =============================================================================

func TestNextFarmerNo_EmptyBooks(t *testing.T) {
	ctx := context.Background()
	st := memstore.NewMemory()

	next, err := dairy.NextFarmerNo(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestNextFarmerNo_MaxPlusOne(t *testing.T) {
	// GIVEN: Existing farmer numbers {1, 2, 5}
	// WHEN: Asking for the next number
	// THEN: 6 (max + 1, gaps are not reused)

	ctx := context.Background()
	st := memstore.NewMemory()
	for _, no := range []int{1, 2, 5} {
		f := dairy.Farmer{
			ID:       dairy.FarmerID("f-" + string(rune('0'+no))),
			FarmerNo: no, Name: "Farmer", FixedRate: dairy.DefaultRate,
		}
		require.NoError(t, st.UpsertFarmer(ctx, f))
	}

	next, err := dairy.NextFarmerNo(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 6, next)
}
