/*
statement.go - Statement builder

PURPOSE:
  The center of the repository: joins raw shift logs, farmer rate data and
  advance balances into dated, priced statements. This is a pure function
  over already-fetched inputs; it performs no store access and mutates
  nothing it is given.

ALGORITHM:
  1. Expand [start, end] into an ordered inclusive date list via Calendar.
  2. Per farmer, per date: find at most one morning and one evening log,
     zero the absent shifts, compute fat-units and amount at the farmer's
     fixed rate, emit a DailyEntry carrying the raw quantities verbatim.
  3. Sum entries into period totals (rounded to two decimals) and carry the
     farmer's advance balance forward as PendingAdvance, NOT subtracted.
  4. Return statements in the same order farmers were supplied.

FILTERING:
  The builder takes the FULL log set and filters it itself; stores are not
  required to pre-filter. Logs outside the range are ignored. A duplicate
  log for the same (date, farmer, shift) is an upstream invariant
  violation; the builder keeps the first one seen (implementation-defined).

EDGE CASES:
  A farmer with no logs in range still gets a statement: one all-zero row
  per date, zero totals.

SEE ALSO:
  - calc.go: the two calculators this pipes entries through
  - report/: printable rendering of the result
*/
package dairy

import "github.com/shopspring/decimal"

// shiftKey addresses one farmer's shift on one date.
type shiftKey struct {
	Date     string
	FarmerID FarmerID
	Shift    Shift
}

// BuildStatements produces one statement per supplied farmer over the
// inclusive BS date range [start, end]. Farmer order is preserved; logs is
// the full log set and may contain dates outside the range.
func BuildStatements(farmers []Farmer, logs []DailyLog, cal Calendar, start, end string) []FarmerStatement {
	dates := cal.RangeInclusive(start, end)

	index := make(map[shiftKey]DailyLog, len(logs))
	for _, l := range logs {
		k := shiftKey{Date: l.Date, FarmerID: l.FarmerID, Shift: l.Shift}
		if _, ok := index[k]; ok {
			continue // duplicate shift row, keep the first
		}
		index[k] = l
	}

	statements := make([]FarmerStatement, 0, len(farmers))
	for _, farmer := range farmers {
		entries := make([]DailyEntry, 0, len(dates))
		totalUnits := decimal.Zero
		totalAmount := decimal.Zero

		for _, date := range dates {
			morning := index[shiftKey{Date: date, FarmerID: farmer.ID, Shift: ShiftMorning}]
			evening := index[shiftKey{Date: date, FarmerID: farmer.ID, Shift: ShiftEvening}]

			entry := DailyEntry{
				Date:        date,
				MorningMilk: morning.Milk,
				MorningFat:  morning.Fat,
				EveningMilk: evening.Milk,
				EveningFat:  evening.Fat,
			}
			entry.TotalFatUnits = FatUnits(entry.MorningMilk, entry.MorningFat, entry.EveningMilk, entry.EveningFat)
			entry.Amount = Amount(entry.TotalFatUnits, farmer.FixedRate)

			entries = append(entries, entry)
			totalUnits = totalUnits.Add(entry.TotalFatUnits)
			totalAmount = totalAmount.Add(entry.Amount)
		}

		statements = append(statements, FarmerStatement{
			Farmer:         farmer,
			Entries:        entries,
			TotalFatUnits:  Round2(totalUnits),
			TotalAmount:    Round2(totalAmount),
			PendingAdvance: farmer.AdvanceBalance,
		})
	}
	return statements
}

// GrandTotal sums the period amounts across statements, rounded to two
// decimals. Rendered on the all-farmers report.
func GrandTotal(statements []FarmerStatement) decimal.Decimal {
	total := decimal.Zero
	for _, s := range statements {
		total = total.Add(s.TotalAmount)
	}
	return Round2(total)
}
