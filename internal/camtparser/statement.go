package camtparser

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"github.com/kedder/camt-statement/internal/currencyutils"
	"github.com/kedder/camt-statement/internal/logging"
	"github.com/kedder/camt-statement/internal/models"
	"github.com/kedder/camt-statement/internal/parsererror"
	"github.com/kedder/camt-statement/internal/xmlutils"
)

// Fallback sources for optional statement-level fields, evaluated in
// order, first non-empty match wins.
var (
	bankIDPaths = []string{
		"Acct/Svcr/FinInstnId/BIC",
		"Acct/Svcr/FinInstnId/Nm",
	}

	// Some exports omit Acct/Id/IBAN and carry the account id on a
	// related-party creditor account reference instead.
	accountIDPaths = []string{
		"Acct/Id/IBAN",
		"Ntry/NtryDtls/TxDtls/RltdPties/CdtrAcct/Id/IBAN",
	}
)

// parseStatementProperties fills the account-level fields of stmt from the
// statement node: bank id, account id, currency, and the opening/closing
// balances.
func (p *Parser) parseStatementProperties(xc *xmlutils.Context, stmtNode *xmlpath.Node, stmt *models.Statement) error {
	if bankID, ok := xc.FirstString(stmtNode, bankIDPaths...); ok {
		stmt.BankID = bankID
	}

	// A document-provided account id overrides the configured default;
	// the default survives when the document has none.
	if accountID, ok := xc.FirstString(stmtNode, accountIDPaths...); ok {
		stmt.AccountID = accountID
	}

	if acctType, ok := xc.String(stmtNode, "Acct/Tp/Cd"); ok && acctType != "" {
		stmt.AccountType = acctType
	}

	if currency, ok := xc.String(stmtNode, "Acct/Ccy"); ok && currency != "" {
		stmt.Currency = currency
	} else if stmt.Currency == "" {
		return parsererror.NewParseError(
			"no account currency provided in statement; " +
				"please specify one in the configuration (e.g. currency=EUR)")
	}

	return p.parseBalances(xc, stmtNode, stmt)
}

// parseBalances indexes the statement's balance blocks by type code and
// selects the opening and closing balances. Balances in a currency other
// than the statement currency are skipped.
func (p *Parser) parseBalances(xc *xmlutils.Context, stmtNode *xmlpath.Node, stmt *models.Statement) error {
	balAmounts := make(map[string]decimal.Decimal)
	balDates := make(map[string]time.Time)

	for _, bal := range xc.Nodes(stmtNode, "Bal") {
		code, ok := xc.String(bal, "Tp/CdOrPrtry/Cd")
		if !ok || code == "" {
			return parsererror.NewParseError("balance without a type code")
		}

		currency, _ := xc.String(bal, "Amt/@Ccy")
		if currency != stmt.Currency {
			p.GetLogger().Debug("Skipping balance in foreign currency",
				logging.Field{Key: "code", Value: code},
				logging.Field{Key: "currency", Value: currency})
			continue
		}

		amountStr, ok := xc.String(bal, "Amt")
		if !ok {
			return parsererror.NewParseError("balance %s without an amount", code)
		}
		amount, err := currencyutils.ParseAmount(amountStr)
		if err != nil {
			return &parsererror.ParseError{Msg: "invalid balance amount", Err: err}
		}

		date, err := p.normalizeDate(xc, xc.Node(bal, "Dt"))
		if err != nil {
			return err
		}

		balAmounts[code] = amount
		if date != nil {
			balDates[code] = *date
		}
	}

	if len(balAmounts) == 0 {
		return parsererror.NewParseError(
			"no statement balance found for currency %q; check the currency of the statement file",
			stmt.Currency)
	}

	// Opening balance, or the previous day's closing balance when the
	// bank reports only that.
	for _, code := range []string{models.BalanceOpening, models.BalancePrevClosing} {
		if amount, ok := balAmounts[code]; ok {
			stmt.StartBalance = amount
			stmt.StartDate = balDates[code]
			break
		}
	}

	endBalance, ok := balAmounts[models.BalanceClosing]
	if !ok {
		return parsererror.NewParseError(
			"no closing balance (%s) found in statement", models.BalanceClosing)
	}
	stmt.EndBalance = endBalance
	stmt.EndDate = balDates[models.BalanceClosing]

	return nil
}
