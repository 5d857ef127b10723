/*
sqlite_test.go - Store-level tests against an in-memory SQLite database

Covers the invariants the schema itself must enforce:
- upsert keyed on (date, farmer_id, shift), idempotent and replacing
- farmer_no uniqueness
- no cascade on farmer delete
*/
package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchamrit/milkbook/dairy"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedFarmer(t *testing.T, st *Store, no int) dairy.Farmer {
	t.Helper()
	f := dairy.Farmer{
		ID:        dairy.FarmerID(fmt.Sprintf("farmer-%d", no)),
		FarmerNo:  no,
		Name:      "Test Farmer",
		FixedRate: dairy.DefaultRate,
	}
	require.NoError(t, st.UpsertFarmer(context.Background(), f))
	return f
}

// =============================================================================
// FARMERS
// =============================================================================

func TestFarmers_ListOrderedByNumber(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedFarmer(t, st, 3)
	seedFarmer(t, st, 1)
	seedFarmer(t, st, 2)

	farmers, err := st.ListFarmers(ctx)
	require.NoError(t, err)
	require.Len(t, farmers, 3)
	assert.Equal(t, 1, farmers[0].FarmerNo)
	assert.Equal(t, 2, farmers[1].FarmerNo)
	assert.Equal(t, 3, farmers[2].FarmerNo)
}

func TestFarmers_DuplicateNumberRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedFarmer(t, st, 1)
	dup := dairy.Farmer{ID: "farmer-other", FarmerNo: 1, Name: "Other", FixedRate: dairy.DefaultRate}
	err := st.UpsertFarmer(ctx, dup)
	assert.ErrorIs(t, err, dairy.ErrDuplicateFarmerNo)
}

func TestFarmers_UpsertReplacesByID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	f := seedFarmer(t, st, 1)
	f.Name = "Renamed"
	f.FixedRate = dairy.Qty(17.5)
	require.NoError(t, st.UpsertFarmer(ctx, f))

	stored, err := st.GetFarmer(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.True(t, stored.FixedRate.Equal(dairy.Qty(17.5)))
}

func TestFarmers_GetMissing(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetFarmer(context.Background(), "nope")
	assert.ErrorIs(t, err, dairy.ErrFarmerNotFound)
}

func TestFarmers_DeleteDoesNotCascade(t *testing.T) {
	// GIVEN: A farmer with a log and an advance
	// WHEN: Deleting the farmer
	// THEN: The log and the advance stay behind as orphans

	st := newTestStore(t)
	ctx := context.Background()

	f := seedFarmer(t, st, 1)
	_, err := st.UpsertLog(ctx, dairy.DailyLog{
		Date: "2081-01-20", FarmerID: f.ID, FarmerNo: 1,
		Shift: dairy.ShiftMorning, Milk: dairy.Qty(5), Fat: dairy.Qty(4.2),
	})
	require.NoError(t, err)
	_, err = st.InsertAdvance(ctx, dairy.Advance{FarmerID: f.ID, FarmerNo: 1, Date: "2081-01-20", Amount: dairy.Qty(500)})
	require.NoError(t, err)

	require.NoError(t, st.DeleteFarmer(ctx, f.ID))

	logs, err := st.ListLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	advances, err := st.ListAdvances(ctx)
	require.NoError(t, err)
	assert.Len(t, advances, 1)
}

// =============================================================================
// DAILY LOGS
// =============================================================================

func TestUpsertLog_Idempotent(t *testing.T) {
	// GIVEN: A saved morning observation
	// WHEN: Saving the identical observation again
	// THEN: The store holds exactly one row, unchanged

	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)

	l := dairy.DailyLog{
		Date: "2081-01-20", FarmerID: f.ID, FarmerNo: 1,
		Shift: dairy.ShiftMorning, Milk: dairy.Qty(5.0), Fat: dairy.Qty(4.2),
	}
	first, err := st.UpsertLog(ctx, l)
	require.NoError(t, err)
	second, err := st.UpsertLog(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "id must survive re-save")

	logs, err := st.ListLogsByDate(ctx, "2081-01-20")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Milk.Equal(dairy.Qty(5.0)))
}

func TestUpsertLog_OverwritesOnConflict(t *testing.T) {
	// GIVEN: Morning (2081-01-20, F) with 5.0/4.2
	// WHEN: Saving morning (2081-01-20, F) with 6.0/4.0
	// THEN: Exactly one morning row remains, with milk=6.0 fat=4.0

	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)

	_, err := st.UpsertLog(ctx, dairy.DailyLog{
		Date: "2081-01-20", FarmerID: f.ID, FarmerNo: 1,
		Shift: dairy.ShiftMorning, Milk: dairy.Qty(5.0), Fat: dairy.Qty(4.2),
	})
	require.NoError(t, err)

	_, err = st.UpsertLog(ctx, dairy.DailyLog{
		Date: "2081-01-20", FarmerID: f.ID, FarmerNo: 1,
		Shift: dairy.ShiftMorning, Milk: dairy.Qty(6.0), Fat: dairy.Qty(4.0),
	})
	require.NoError(t, err)

	logs, err := st.ListLogsByDate(ctx, "2081-01-20")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, dairy.ShiftMorning, logs[0].Shift)
	assert.True(t, logs[0].Milk.Equal(dairy.Qty(6.0)), "milk should be replaced, got %v", logs[0].Milk)
	assert.True(t, logs[0].Fat.Equal(dairy.Qty(4.0)), "fat should be replaced, got %v", logs[0].Fat)
}

func TestUpsertLog_ShiftsAreDistinct(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)

	for _, shift := range []dairy.Shift{dairy.ShiftMorning, dairy.ShiftEvening} {
		_, err := st.UpsertLog(ctx, dairy.DailyLog{
			Date: "2081-01-20", FarmerID: f.ID, FarmerNo: 1,
			Shift: shift, Milk: dairy.Qty(5), Fat: dairy.Qty(4),
		})
		require.NoError(t, err)
	}

	logs, err := st.ListLogsByDate(ctx, "2081-01-20")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestListLogsByFarmerAndRange(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)
	other := seedFarmer(t, st, 2)

	for _, date := range []string{"2081-01-15", "2081-01-18", "2081-01-25"} {
		_, err := st.UpsertLog(ctx, dairy.DailyLog{
			Date: date, FarmerID: f.ID, FarmerNo: 1,
			Shift: dairy.ShiftMorning, Milk: dairy.Qty(5), Fat: dairy.Qty(4),
		})
		require.NoError(t, err)
	}
	_, err := st.UpsertLog(ctx, dairy.DailyLog{
		Date: "2081-01-18", FarmerID: other.ID, FarmerNo: 2,
		Shift: dairy.ShiftMorning, Milk: dairy.Qty(5), Fat: dairy.Qty(4),
	})
	require.NoError(t, err)

	logs, err := st.ListLogsByFarmerAndRange(ctx, f.ID, "2081-01-16", "2081-01-20")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2081-01-18", logs[0].Date)
	assert.Equal(t, f.ID, logs[0].FarmerID)
}

func TestDeleteLog(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)

	stored, err := st.UpsertLog(ctx, dairy.DailyLog{
		Date: "2081-01-20", FarmerID: f.ID, FarmerNo: 1,
		Shift: dairy.ShiftMorning, Milk: dairy.Qty(5), Fat: dairy.Qty(4),
	})
	require.NoError(t, err)

	require.NoError(t, st.DeleteLog(ctx, stored.ID))
	assert.ErrorIs(t, st.DeleteLog(ctx, stored.ID), dairy.ErrLogNotFound)
}

// =============================================================================
// ADVANCES + RECONCILIATION
// =============================================================================

func TestAdvances_InsertDeleteAndReconcile(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)
	rec := dairy.NewReconciler(st, nil)

	var toDelete dairy.AdvanceID
	for _, amount := range []float64{500, 300, 200} {
		a, err := st.InsertAdvance(ctx, dairy.Advance{
			FarmerID: f.ID, FarmerNo: 1, Date: "2081-01-16", Amount: dairy.Qty(amount),
		})
		require.NoError(t, err)
		if amount == 300 {
			toDelete = a.ID
		}
	}
	_, err := rec.ReconcileAdvance(ctx, f.ID)
	require.NoError(t, err)

	stored, err := st.GetFarmer(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, stored.AdvanceBalance.Equal(dairy.Qty(1000)),
		"expected 1000, got %v", stored.AdvanceBalance)

	require.NoError(t, st.DeleteAdvance(ctx, toDelete))
	_, err = rec.ReconcileAdvance(ctx, f.ID)
	require.NoError(t, err)

	stored, err = st.GetFarmer(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, stored.AdvanceBalance.Equal(dairy.Qty(700)),
		"expected 700, got %v", stored.AdvanceBalance)
}

func TestAdvances_RemarksRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)

	_, err := st.InsertAdvance(ctx, dairy.Advance{
		FarmerID: f.ID, FarmerNo: 1, Date: "2081-01-16",
		Amount: dairy.Qty(500), Remarks: "Seed purchase",
	})
	require.NoError(t, err)

	advances, err := st.ListAdvancesByFarmer(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, advances, 1)
	assert.Equal(t, "Seed purchase", advances[0].Remarks)
}

func TestReset_ClearsAllTables(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	f := seedFarmer(t, st, 1)
	_, err := st.InsertAdvance(ctx, dairy.Advance{FarmerID: f.ID, FarmerNo: 1, Date: "2081-01-16", Amount: dairy.Qty(500)})
	require.NoError(t, err)

	require.NoError(t, st.Reset(ctx))

	farmers, err := st.ListFarmers(ctx)
	require.NoError(t, err)
	assert.Empty(t, farmers)
	advances, err := st.ListAdvances(ctx)
	require.NoError(t, err)
	assert.Empty(t, advances)
}
