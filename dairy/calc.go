/*
calc.go - Fat-unit and amount calculators

PURPOSE:
  The two leaf calculations everything else is built on. Both are total
  functions over their decimal inputs: no nil handling, no store access.

FAT-UNIT:
  A shift's fat-units are litres multiplied by the raw fat PERCENTAGE
  number (5.0 L at 4.2% fat is 21.0 units, not 0.21). A day's total is the
  sum of its two shifts, rounded to two decimals. Missing shifts are
  zeroed by the statement builder before this function is called.

AMOUNT:
  Fat-units times the farmer's fixed rate, rounded to two decimals.
  No minimum, no tax, no other rounding policy.

SEE ALSO:
  - statement.go: the only production caller
*/
package dairy

import "github.com/shopspring/decimal"

// FatUnits returns the day total of fat-units for the two shifts,
// rounded to two decimals.
func FatUnits(morningMilk, morningFat, eveningMilk, eveningFat decimal.Decimal) decimal.Decimal {
	return Round2(morningMilk.Mul(morningFat).Add(eveningMilk.Mul(eveningFat)))
}

// Amount prices fat-units at the given per-unit rate, rounded to two decimals.
func Amount(fatUnits, rate decimal.Decimal) decimal.Decimal {
	return Round2(fatUnits.Mul(rate))
}
