// Package models provides the data structures shared across the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance type codes used in CAMT balance blocks.
const (
	BalanceOpening     = "OPBD" // opening balance
	BalancePrevClosing = "PRCD" // previous day's closing balance
	BalanceClosing     = "CLBD" // closing balance
)

// Credit/debit indicator values used on entries.
const (
	IndicatorCredit = "CRDT"
	IndicatorDebit  = "DBIT"
)

// DefaultAccountType is used when the statement carries no account type code.
const DefaultAccountType = "CHECKING"

// Statement is the normalized representation of one bank statement or
// account report. It is built fresh per parse call and never mutated
// afterwards.
type Statement struct {
	// Currency is the ISO currency code of the statement. It is always
	// set on a successfully parsed statement.
	Currency string

	// BankID identifies the servicing institution (BIC or free-text name).
	// Empty when the document provides neither.
	BankID string

	// AccountID is the account identifier (IBAN). Empty when neither the
	// document nor the caller configuration provides one.
	AccountID string

	// AccountType is the ledger account type, DefaultAccountType unless
	// the document says otherwise.
	AccountType string

	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal

	StartDate time.Time
	EndDate   time.Time

	// Lines holds the statement entries in document order. Entries whose
	// currency differs from Currency are not included.
	Lines []StatementLine
}

// StatementLine is one transaction entry of a statement.
type StatementLine struct {
	// Amount is negative for debits and positive for credits.
	Amount decimal.Decimal

	// Payee is the counterparty name: the debtor on a credit line, the
	// creditor on a debit line. Empty when the document has none.
	Payee string

	// Date is the value date of the transaction.
	Date *time.Time

	// DateUser is the booking date, the date the transaction posted.
	DateUser *time.Time

	// RefNum is the account servicer reference. Empty when absent.
	RefNum string

	// Memo is the free-text description. Empty when absent.
	Memo string
}

// AddLine appends a line to the statement, preserving document order.
func (s *Statement) AddLine(line StatementLine) {
	s.Lines = append(s.Lines, line)
}
