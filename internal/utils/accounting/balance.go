package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/core/domain"
)

// SumLines totals the debit and credit sides of a line set.
func SumLines(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	return debits, credits
}

// ValidateBalanced checks that a line set balances exactly. Used for all
// engine-constructed entries, where the line math must come out to the cent.
func ValidateBalanced(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines")
	}
	debits, credits := SumLines(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("entry does not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	return nil
}

// ManualEntryTolerance absorbs floating rounding in caller-supplied manual
// line sets.
var ManualEntryTolerance = decimal.NewFromFloat(0.01)

// ValidateBalancedWithin checks balance to within the given tolerance.
func ValidateBalancedWithin(lines []domain.JournalLine, tolerance decimal.Decimal) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines")
	}
	debits, credits := SumLines(lines)
	if debits.Sub(credits).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("entry does not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	return nil
}
