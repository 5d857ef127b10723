/*
Package report renders farmer statements as printable plain text.

PURPOSE:
  The cooperative hands farmers a paper statement at period end. This
  package is the presenter for that layout: a fixed-width table with the
  morning/evening columns, a period total row, the outstanding advance
  (explicitly marked as not deducted), and a grand total when printing
  every farmer at once.

LAYOUT (per farmer):

          Panchamrit Suppliers
             Banepa-9, Kavre
  Farmer Name: Ram Bahadur        Farmer No: 1
  2081-01-16 To 2081-01-31

  Date        | Morning     | Evening     | Fat Unit | Amount   | Remarks
              | Milk   Fat  | Milk   Fat  |          |          |
  ...
  Period Total:                              39.00     624.00
  Pending Advance:                                    1000.00    (Not deducted)

CONVENTIONS:
  - quantities print with one decimal, money and fat-units with two
  - zero shift quantities print blank, matching the hand-written books

SEE ALSO:
  - dairy/statement.go: produces the FarmerStatement values rendered here
*/
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/panchamrit/milkbook/dairy"
)

// Header lines printed at the top of every statement.
const (
	HeaderName    = "Panchamrit Suppliers"
	HeaderAddress = "Banepa-9, Kavre"
)

const tableWidth = 78

// Printer renders statements to an io.Writer.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// PrintStatement renders one farmer's statement for the given range.
func (p *Printer) PrintStatement(s dairy.FarmerStatement, start, end string) error {
	var b strings.Builder

	center(&b, HeaderName)
	center(&b, HeaderAddress)
	b.WriteString(strings.Repeat("-", tableWidth) + "\n")
	fmt.Fprintf(&b, "Farmer Name: %-30s Farmer No: %d\n", s.Farmer.Name, s.Farmer.FarmerNo)
	fmt.Fprintf(&b, "%s To %s\n", start, end)
	b.WriteString(strings.Repeat("-", tableWidth) + "\n")

	fmt.Fprintf(&b, "%-12s| %-12s| %-12s| %9s | %10s | %s\n",
		"Date", "Morning", "Evening", "Fat Unit", "Amount", "Remarks")
	fmt.Fprintf(&b, "%-12s| %-5s %-6s| %-5s %-6s| %9s | %10s |\n",
		"", "Milk", "Fat", "Milk", "Fat", "", "")
	b.WriteString(strings.Repeat("-", tableWidth) + "\n")

	for _, e := range s.Entries {
		fmt.Fprintf(&b, "%-12s| %-5s %-6s| %-5s %-6s| %9s | %10s | %s\n",
			e.Date,
			blankIfZero(e.MorningMilk, 1),
			blankIfZero(e.MorningFat, 1),
			blankIfZero(e.EveningMilk, 1),
			blankIfZero(e.EveningFat, 1),
			e.TotalFatUnits.StringFixed(2),
			e.Amount.StringFixed(2),
			e.Remarks)
	}

	b.WriteString(strings.Repeat("-", tableWidth) + "\n")
	fmt.Fprintf(&b, "%-40s %9s | %10s |\n",
		"Period Total:", s.TotalFatUnits.StringFixed(2), s.TotalAmount.StringFixed(2))

	if s.PendingAdvance.IsPositive() {
		fmt.Fprintf(&b, "%-40s %9s | %10s | (Not deducted)\n",
			"Pending Advance:", "", s.PendingAdvance.StringFixed(2))
	}
	b.WriteString("\n")

	_, err := io.WriteString(p.w, b.String())
	return err
}

// PrintAll renders every statement followed by the grand total row.
// The grand total only appears when more than one farmer is printed,
// matching the on-screen report.
func (p *Printer) PrintAll(statements []dairy.FarmerStatement, start, end string) error {
	for _, s := range statements {
		if err := p.PrintStatement(s, start, end); err != nil {
			return err
		}
	}
	if len(statements) > 1 {
		total := dairy.GrandTotal(statements)
		line := strings.Repeat("=", tableWidth)
		_, err := fmt.Fprintf(p.w, "%s\nGrand Total (All Farmers): Rs. %s\n%s\n",
			line, total.StringFixed(2), line)
		return err
	}
	return nil
}

func center(b *strings.Builder, s string) {
	pad := (tableWidth - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

// blankIfZero prints quantities the way the paper books do: a recorded
// value with the given precision, an empty cell when nothing was recorded.
func blankIfZero(d decimal.Decimal, places int32) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(places)
}
