/*
Package bsdate provides Bikram Sambat date utilities for the cooperative.

PURPOSE:
  Implements dairy.Calendar for the BS civil calendar. BS months have
  irregular lengths that this package deliberately does NOT model: range
  enumeration is day-number based with a hard upper bound of 32 days per
  month, which is knowingly imprecise across month boundaries. The books
  only ever contain dates that were actually entered, so phantom dates in
  a range produce empty statement rows and nothing else.

FIXED TODAY:
  Today() returns a fixed BS date. Proper AD-to-BS conversion is out of
  scope; hosts that need a real clock swap in their own dairy.Calendar.

SEE ALSO:
  - dairy/calendar.go: the interface this satisfies
*/
package bsdate

import (
	"fmt"
	"strconv"
	"strings"
)

// FixedToday is the BS date Today() reports.
const FixedToday = "2081-01-20"

var bsMonths = []string{
	"बैशाख", "जेठ", "असार", "साउन", "भदौ", "असोज",
	"कार्तिक", "मंसिर", "पुष", "माघ", "फागुन", "चैत",
}

var bsMonthsEN = []string{
	"Baishakh", "Jestha", "Asar", "Shrawan", "Bhadra", "Ashwin",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

// Provider implements dairy.Calendar.
type Provider struct{}

func New() *Provider { return &Provider{} }

// Today returns the fixed current BS date.
func (*Provider) Today() string { return FixedToday }

// MonthName returns the name of BS month m (1-12), in Nepali script when
// nepali is true. Out-of-range months yield an empty string.
func (*Provider) MonthName(m int, nepali bool) string {
	if m < 1 || m > 12 {
		return ""
	}
	if nepali {
		return bsMonths[m-1]
	}
	return bsMonthsEN[m-1]
}

// RangeInclusive returns the ordered inclusive date list from start to end.
// Within a single month it enumerates the actual days. Across a month
// boundary it runs the first month out to day 32 and the second from day 1,
// matching the ledger's established (imprecise) behaviour.
func (*Provider) RangeInclusive(start, end string) []string {
	sy, sm, sd, ok := split(start)
	if !ok {
		return nil
	}
	ey, em, ed, ok := split(end)
	if !ok {
		return nil
	}

	var dates []string
	if sy == ey && sm == em {
		for day := sd; day <= ed; day++ {
			dates = append(dates, format(sy, sm, day))
		}
		return dates
	}

	for day := sd; day <= 32; day++ {
		dates = append(dates, format(sy, sm, day))
	}
	for day := 1; day <= ed; day++ {
		dates = append(dates, format(ey, em, day))
	}
	return dates
}

// Format normalizes a BS date string to zero-padded YYYY-MM-DD.
func Format(date string) string {
	y, m, d, ok := split(date)
	if !ok {
		return date
	}
	return format(y, m, d)
}

// FormatDisplay renders "2081-01-20" as "2081 Baishakh 20" (or the Nepali
// month name when nepali is true).
func FormatDisplay(date string, nepali bool) string {
	y, m, d, ok := split(date)
	if !ok || m < 1 || m > 12 {
		return date
	}
	name := bsMonthsEN[m-1]
	if nepali {
		name = bsMonths[m-1]
	}
	return fmt.Sprintf("%d %s %d", y, name, d)
}

func split(date string) (year, month, day int, ok bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

func format(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
