package dairy_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/panchamrit/milkbook/dairy"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func qty(v float64) decimal.Decimal { return dairy.Qty(v) }

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, label string) {
	t.Helper()
	if !got.Equal(qty(want)) {
		t.Errorf("%s: expected %.2f, got %v", label, want, got)
	}
}

// =============================================================================
// FAT-UNIT CALCULATOR TESTS
// =============================================================================

func TestFatUnits_SingleShift(t *testing.T) {
	// GIVEN: Morning 5.0 L at 4.2% fat, no evening collection
	// WHEN: Computing the day's fat-units
	// THEN: 5.0 x 4.2 = 21.00 (raw percentage number, not a fraction)

	units := dairy.FatUnits(qty(5.0), qty(4.2), qty(0), qty(0))
	assertDecimal(t, 21.00, units, "fat units")
}

func TestFatUnits_BothShifts(t *testing.T) {
	// GIVEN: Morning 5.0 L at 4.2%, evening 4.0 L at 4.5%
	// WHEN: Computing the day's fat-units
	// THEN: 5*4.2 + 4*4.5 = 21 + 18 = 39.00

	units := dairy.FatUnits(qty(5.0), qty(4.2), qty(4.0), qty(4.5))
	assertDecimal(t, 39.00, units, "fat units")
}

func TestFatUnits_AllZero(t *testing.T) {
	units := dairy.FatUnits(qty(0), qty(0), qty(0), qty(0))
	if !units.IsZero() {
		t.Errorf("expected zero fat units, got %v", units)
	}
}

func TestFatUnits_RoundsToTwoDecimals(t *testing.T) {
	// GIVEN: 3.333 L at 3.333% -> 11.108889
	// WHEN: Computing fat-units
	// THEN: Rounded half-up to 11.11

	units := dairy.FatUnits(qty(3.333), qty(3.333), qty(0), qty(0))
	assertDecimal(t, 11.11, units, "rounded fat units")
}

// =============================================================================
// AMOUNT CALCULATOR TESTS
// =============================================================================

func TestAmount_DefaultRate(t *testing.T) {
	// GIVEN: 21.00 fat-units at the default rate of 16.0
	// WHEN: Pricing the day
	// THEN: 336.00

	amount := dairy.Amount(qty(21.0), dairy.DefaultRate)
	assertDecimal(t, 336.00, amount, "amount")
}

func TestAmount_ZeroUnits(t *testing.T) {
	amount := dairy.Amount(qty(0), dairy.DefaultRate)
	if !amount.IsZero() {
		t.Errorf("expected zero amount, got %v", amount)
	}
}

func TestAmount_RoundsToTwoDecimals(t *testing.T) {
	// GIVEN: 10.11 units at 16.25 -> 164.2875
	// WHEN: Pricing
	// THEN: Rounded half-up to 164.29

	amount := dairy.Amount(qty(10.11), qty(16.25))
	assertDecimal(t, 164.29, amount, "rounded amount")
}
