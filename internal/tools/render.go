package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bookwright-dev/bookwright/internal/book"
	"github.com/bookwright-dev/bookwright/internal/ledger"
	"github.com/bookwright-dev/bookwright/internal/lockguard"
	"github.com/bookwright-dev/bookwright/internal/model"
	"github.com/bookwright-dev/bookwright/internal/session"
)

func currencyOf(acc *model.Account) string {
	if acc.Commodity == nil {
		return "?"
	}
	return acc.Commodity.Mnemonic
}

func accountLine(acc *model.Account) string {
	return fmt.Sprintf("%s (%s)", acc.FullName(), acc.Type)
}

func renderAccountList(accounts []*model.Account) string {
	lines := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		lines = append(lines, accountLine(acc))
	}
	return strings.Join(lines, "\n")
}

func renderBalance(rep *ledger.BalanceReport) string {
	return fmt.Sprintf("Balance of %s: %s %s",
		rep.Account.FullName(), rep.Balances.Current, currencyOf(rep.Account))
}

func renderActivity(rep *ledger.ActivityReport) string {
	if len(rep.Splits) == 0 {
		return fmt.Sprintf("No transactions found for %s.", rep.Account.FullName())
	}

	currency := currencyOf(rep.Account)
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions for %s:\n", rep.Account.FullName())
	b.WriteString(strings.Repeat("-", 60))
	for _, s := range rep.Splits {
		fmt.Fprintf(&b, "\n%s | %10s %s | %s",
			s.Tx.PostedDate.Format("2006-01-02"), s.Value, currency, s.Tx.Description)
	}
	return b.String()
}

func renderSearch(query string, matches []*model.Account) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No accounts found matching '%s'.", query)
	}
	lines := make([]string, 0, len(matches))
	for _, acc := range matches {
		lines = append(lines, accountLine(acc))
	}
	return fmt.Sprintf("Found %d account(s):\n%s", len(matches), strings.Join(lines, "\n"))
}

func renderInfo(rep *ledger.InfoReport) string {
	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}
	children := "(none)"
	if len(rep.Children) > 0 {
		children = strings.Join(rep.Children, ", ")
	}
	currency := currencyOf(rep.Account)

	return fmt.Sprintf(`Account: %s
Type: %s
Description: %s
Code: %s
Currency: %s
Balance: %s %s
Cleared Balance: %s %s
Reconciled Balance: %s %s
Number of Transactions: %d
Child Accounts: %s`,
		rep.Account.FullName(),
		rep.Account.Type,
		orNone(rep.Account.Description),
		orNone(rep.Account.Code),
		currency,
		rep.Balances.Current, currency,
		rep.Balances.Cleared, currency,
		rep.Balances.Reconciled, currency,
		rep.SplitCount,
		children)
}

func renderTransfer(sum *ledger.TransferSummary, description string) string {
	return fmt.Sprintf(`Transaction created successfully:
  %s %s from %s to %s
  Description: %s
  Date: %s

Note: changes are in the open book; use commit to persist them to disk.`,
		sum.Amount.StringFixed(2), sum.Currency, sum.FromPath, sum.ToPath,
		description, sum.Date.Format("2006-01-02"))
}

// renderError maps the closed error taxonomy to the text contract of the
// tool boundary.
func renderError(err error, configuredPath string) string {
	var notFound *ledger.NotFoundError
	var mismatch *ledger.CurrencyMismatchError
	var badDate *ledger.InvalidDateError

	switch {
	case errors.Is(err, session.ErrNoSession):
		if configuredPath != "" {
			return fmt.Sprintf("Error: No ledger file is open. Use open_file with path: %s", configuredPath)
		}
		return "Error: No ledger file is open. Use open_file to open a file first."
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, lockguard.ErrOwnerRunning):
		return "Error: Cannot break lock - the owning application is currently running. Close it first."
	case errors.Is(err, book.ErrLocked):
		return fmt.Sprintf("Error opening file: %v. Try with break_lock=true if the owning application is not running.", err)
	case errors.As(err, &notFound):
		return fmt.Sprintf("Error: Account '%s' not found.", notFound.Name)
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Error: Amount must be a positive number."
	case errors.Is(err, ledger.ErrMissingCommodity):
		return "Error: Source account has no currency/commodity set."
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Error: Account currencies don't match (%s vs %s). Multi-currency transactions are not supported.", mismatch.From, mismatch.To)
	case errors.As(err, &badDate):
		return "Error: Invalid date format. Use YYYY-MM-DD."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
