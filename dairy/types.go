/*
Package dairy provides the core bookkeeping engine for the cooperative.

PURPOSE:
  This package contains the domain types and pure algorithms for the milk
  collection books: per-shift milk/fat logs, cash advances, and the
  statement builder that turns both into a priced per-farmer report.

KEY CONCEPTS IN THIS FILE (types.go):
  - Farmer: a member of the cooperative with a negotiated fixed rate
  - DailyLog: one shift's milk/fat observation for one farmer on one date
  - Advance: a cash payment against future deliveries
  - DailyEntry / FarmerStatement: derived, never-persisted report rows

DESIGN PRINCIPLES:
  1. Precision: all quantities use decimal.Decimal, never float64
  2. Purity: derived types are plain values built from a query
  3. Opaque dates: BS dates are sortable "YYYY-MM-DD" strings; the engine
     never does calendar arithmetic itself (see calendar.go)

USAGE:
  units := dairy.FatUnits(mMilk, mFat, eMilk, eFat)
  due := dairy.Amount(units, farmer.FixedRate)

SEE ALSO:
  - calc.go: fat-unit and amount calculators
  - statement.go: statement builder
  - advance.go: advance balance reconciliation
*/
package dairy

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type FarmerID string
type LogID string
type AdvanceID string

// =============================================================================
// SHIFT - One of the two daily collection rounds
// =============================================================================

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

// Valid reports whether s is one of the two known shifts.
func (s Shift) Valid() bool { return s == ShiftMorning || s == ShiftEvening }

// =============================================================================
// QUANTITY HELPERS
// =============================================================================

// DefaultRate is the default negotiated price in rupees per fat-unit.
var DefaultRate = decimal.NewFromFloat(16.0)

// Qty builds a decimal quantity from a float. Convenience for callers and
// tests; persisted values should round-trip through decimal strings.
func Qty(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// Round2 rounds to the books' presentation precision (two decimal digits).
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// FARMER - Persistent member record
// =============================================================================

// Farmer is a cooperative member. AdvanceBalance is a denormalised cache of
// the sum of the farmer's advances; it is maintained by the Reconciler and
// must never be incremented in place.
type Farmer struct {
	ID             FarmerID
	FarmerNo       int // positive, unique, human-facing
	Name           string
	FixedRate      decimal.Decimal // rupees per fat-unit
	AdvanceBalance decimal.Decimal
	CreatedAt      string
}

// =============================================================================
// DAILY LOG - One shift observation (persistent)
// =============================================================================

// DailyLog records the milk volume and fat content collected from one farmer
// in one shift on one BS date. At most one log exists per
// (Date, FarmerID, Shift); stores enforce this with upsert semantics.
type DailyLog struct {
	ID       LogID
	Date     string // BS "YYYY-MM-DD"
	FarmerID FarmerID
	FarmerNo int // denormalised from the farmer record
	Shift    Shift
	Milk     decimal.Decimal // litres
	Fat      decimal.Decimal // percentage points, not a fraction
}

// =============================================================================
// ADVANCE - Cash paid against future deliveries (persistent)
// =============================================================================

type Advance struct {
	ID       AdvanceID
	FarmerID FarmerID
	FarmerNo int
	Date     string
	Amount   decimal.Decimal // strictly positive
	Remarks  string
}

// =============================================================================
// DERIVED REPORT TYPES - Built per query, never persisted
// =============================================================================

// DailyEntry is one dated row of a statement. The four raw quantities are
// preserved verbatim; only TotalFatUnits and Amount are computed.
type DailyEntry struct {
	Date          string
	MorningMilk   decimal.Decimal
	MorningFat    decimal.Decimal
	EveningMilk   decimal.Decimal
	EveningFat    decimal.Decimal
	TotalFatUnits decimal.Decimal
	Amount        decimal.Decimal
	Remarks       string
}

// FarmerStatement is the per-farmer report over a requested date range.
// PendingAdvance is the farmer's outstanding advance balance at statement
// time; it is reported alongside TotalAmount and deliberately NOT deducted.
type FarmerStatement struct {
	Farmer         Farmer
	Entries        []DailyEntry
	TotalFatUnits  decimal.Decimal
	TotalAmount    decimal.Decimal
	PendingAdvance decimal.Decimal
}
