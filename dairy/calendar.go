/*
calendar.go - Calendar provider contract

PURPOSE:
  The engine works over Bikram Sambat civil dates, which are lunisolar with
  irregular month lengths. Correct BS arithmetic is out of scope, so the
  engine treats dates as opaque sortable strings and delegates everything
  calendar-shaped to this interface. The engine MUST NOT embed month-length
  tables; a calendar-correct provider can be swapped in without touching it.

IMPLEMENTATIONS:
  - bsdate.Provider: the shipped provider (fixed today, naive ranges)

SEE ALSO:
  - statement.go: uses RangeInclusive to expand the requested range
*/
package dairy

// Calendar supplies "today" and date enumeration in the local civil calendar.
type Calendar interface {
	// Today returns the current BS date as "YYYY-MM-DD".
	Today() string

	// RangeInclusive returns the ordered, inclusive list of BS date strings
	// from start to end. Must be monotone; may be calendar-naive across
	// month boundaries.
	RangeInclusive(start, end string) []string

	// MonthName returns the name of BS month m (1-12), localised to the
	// Nepali script when nepali is true.
	MonthName(m int, nepali bool) string
}
