package camtparser

import (
	"gopkg.in/xmlpath.v2"

	"github.com/kedder/camt-statement/internal/currencyutils"
	"github.com/kedder/camt-statement/internal/logging"
	"github.com/kedder/camt-statement/internal/models"
	"github.com/kedder/camt-statement/internal/parsererror"
	"github.com/kedder/camt-statement/internal/xmlutils"
)

// Fallback sources for optional entry-level fields, evaluated in order.
var (
	refNumPaths = []string{
		"NtryDtls/TxDtls/Refs/AcctSvcrRef",
		"AcctSvcrRef",
	}

	memoPaths = []string{
		"NtryDtls/TxDtls/RmtInf/Strd/CdtrRefInf/Ref",
		"NtryDtls/TxDtls/RmtInf/Ustrd",
		"AddtlNtryInf",
	}
)

// parseLines extracts the transaction entries under the statement node, in
// document order. Entries in a foreign currency are dropped without error.
func (p *Parser) parseLines(xc *xmlutils.Context, stmtNode *xmlpath.Node, stmt *models.Statement) error {
	for _, entry := range xc.Nodes(stmtNode, "Ntry") {
		line, err := p.parseLine(xc, entry, stmt.Currency)
		if err != nil {
			return err
		}
		if line == nil {
			continue
		}
		stmt.AddLine(*line)
	}
	return nil
}

// parseLine converts one entry node to a StatementLine. It returns
// (nil, nil) for entries filtered out by currency.
func (p *Parser) parseLine(xc *xmlutils.Context, entry *xmlpath.Node, currency string) (*models.StatementLine, error) {
	indicator, ok := xc.String(entry, "CdtDbtInd")
	if !ok || indicator == "" {
		return nil, parsererror.NewParseError("entry without a credit/debit indicator")
	}

	amountStr, ok := xc.String(entry, "Amt")
	if !ok {
		return nil, parsererror.NewParseError("entry without an amount")
	}

	entryCurrency, _ := xc.String(entry, "Amt/@Ccy")
	if entryCurrency != currency {
		// Mixed-currency documents are expected; only the statement
		// currency can be represented.
		p.GetLogger().Debug("Skipping entry in foreign currency",
			logging.Field{Key: "currency", Value: entryCurrency},
			logging.Field{Key: "amount", Value: amountStr})
		return nil, nil
	}

	amount, err := currencyutils.ParseAmount(amountStr)
	if err != nil {
		return nil, &parsererror.ParseError{Msg: "invalid entry amount", Err: err}
	}

	line := &models.StatementLine{}

	// The payee is the counterparty: who got paid on a debit, who paid
	// on a credit.
	if indicator == models.IndicatorDebit {
		amount = amount.Neg()
		line.Payee, _ = xc.String(entry, "NtryDtls/TxDtls/RltdPties/Cdtr/Nm")
	} else {
		line.Payee, _ = xc.String(entry, "NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	}
	line.Amount = amount

	if line.Date, err = p.normalizeDate(xc, xc.Node(entry, "ValDt")); err != nil {
		return nil, err
	}
	if line.DateUser, err = p.normalizeDate(xc, xc.Node(entry, "BookgDt")); err != nil {
		return nil, err
	}

	line.RefNum, _ = xc.FirstString(entry, refNumPaths...)
	line.Memo, _ = xc.FirstString(entry, memoPaths...)

	return line, nil
}
