/*
store.go - Persistence interface for the cooperative's books

PURPOSE:
  Defines the narrow contract between the engine and whatever holds the
  books. The engine never assumes a particular database; the host wires an
  implementation in.

KEY SEMANTICS:
  UpsertLog:     keyed on (Date, FarmerID, Shift), replaces on conflict.
                 Saving the same log twice leaves the store unchanged.
  InsertAdvance: append-only from the caller's view; deletes exist so a
                 mistaken entry can be struck, and every insert or delete
                 must be followed by a Reconciler pass (see advance.go).
  DeleteFarmer:  does NOT cascade to the farmer's logs or advances.
                 Orphans simply stop matching any farmer.

IMPLEMENTATIONS:
  - store/sqlite: production store, uniqueness enforced in the schema
  - dairy/store (memory): in-memory for tests and dev

SEE ALSO:
  - advance.go: the reconciler driving SetFarmerAdvanceBalance
  - statement.go: consumes ListFarmers + ListLogs output
*/
package dairy

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the key-addressable store holding farmers, daily logs and
// advances. All mutations are last-writer-wins on the primary key, with a
// unique constraint on (date, farmer_id, shift) for logs enforced by upsert.
type Store interface {
	// ListFarmers returns all farmers ordered by FarmerNo ascending.
	ListFarmers(ctx context.Context) ([]Farmer, error)

	// GetFarmer returns the farmer with the given id, or ErrFarmerNotFound.
	GetFarmer(ctx context.Context, id FarmerID) (Farmer, error)

	// UpsertFarmer creates or replaces a farmer record.
	// Returns ErrDuplicateFarmerNo if another farmer holds the same number.
	UpsertFarmer(ctx context.Context, f Farmer) error

	// DeleteFarmer removes a farmer. Logs and advances are NOT cascaded.
	DeleteFarmer(ctx context.Context, id FarmerID) error

	// ListLogs returns every shift log known to the store.
	ListLogs(ctx context.Context) ([]DailyLog, error)

	// ListLogsByDate returns the logs recorded on one BS date.
	ListLogsByDate(ctx context.Context, date string) ([]DailyLog, error)

	// ListLogsByFarmerAndRange returns one farmer's logs with
	// start <= date <= end (string order).
	ListLogsByFarmerAndRange(ctx context.Context, farmerID FarmerID, start, end string) ([]DailyLog, error)

	// UpsertLog creates or replaces the log keyed on (Date, FarmerID, Shift)
	// and returns the stored row (with its id populated).
	UpsertLog(ctx context.Context, l DailyLog) (DailyLog, error)

	// DeleteLog removes a log by id.
	DeleteLog(ctx context.Context, id LogID) error

	// ListAdvances returns every advance, most recent date first.
	ListAdvances(ctx context.Context) ([]Advance, error)

	// ListAdvancesByFarmer returns one farmer's advances. This is the
	// authoritative set the reconciler sums over.
	ListAdvancesByFarmer(ctx context.Context, farmerID FarmerID) ([]Advance, error)

	// InsertAdvance appends a new advance and returns it with its id.
	InsertAdvance(ctx context.Context, a Advance) (Advance, error)

	// DeleteAdvance removes an advance by id.
	DeleteAdvance(ctx context.Context, id AdvanceID) error

	// SetFarmerAdvanceBalance overwrites the farmer's denormalised balance.
	// Only the reconciler should call this.
	SetFarmerAdvanceBalance(ctx context.Context, farmerID FarmerID, amount decimal.Decimal) error
}
