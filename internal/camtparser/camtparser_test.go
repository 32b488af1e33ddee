package camtparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedder/camt-statement/internal/logging"
	"github.com/kedder/camt-statement/internal/parsererror"
)

// statementXML mimics a real camt.053 bank statement export: EUR account,
// OPBD/CLBD balances, four entries with varying optional fields.
const statementXML = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Id>STMT-2015-12</Id>
      <Acct>
        <Id><IBAN>LT000000000000000000</IBAN></Id>
        <Ccy>EUR</Ccy>
        <Svcr><FinInstnId><BIC>AGBLLT2XXXX</BIC></FinInstnId></Svcr>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">306.53</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Dt><Dt>2015-12-01</Dt></Dt>
      </Bal>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">125.52</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="EUR">0.29</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2015-12-31</Dt></BookgDt>
        <ValDt><Dt>2016-01-01</Dt></ValDt>
        <NtryDtls>
          <TxDtls>
            <Refs><AcctSvcrRef>FC1261858984</AcctSvcrRef></Refs>
            <RltdPties><Cdtr><Nm>AB DNB Bankas</Nm></Cdtr></RltdPties>
            <RmtInf><Ustrd>Saskaitos aptarnavimo mokestis</Ustrd></RmtInf>
          </TxDtls>
        </NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">1000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <AcctSvcrRef>FC1261900001</AcctSvcrRef>
        <BookgDt><Dt>2015-12-15</Dt></BookgDt>
        <ValDt><DtTm>2015-12-15T10:00:00+02:00</DtTm></ValDt>
        <NtryDtls>
          <TxDtls>
            <RltdPties><Dbtr><Nm>Employer Ltd</Nm></Dbtr></RltdPties>
            <RmtInf>
              <Strd><CdtrRefInf><Ref>RF18000000000539007547034</Ref></CdtrRefInf></Strd>
              <Ustrd>Salary December</Ustrd>
            </RmtInf>
          </TxDtls>
        </NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">55.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2015-12-20</Dt></BookgDt>
        <ValDt><Dt>2015-12-20</Dt></ValDt>
        <AddtlNtryInf>Grocery store</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">10.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <ValDt><Dt>2015-12-28</Dt></ValDt>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

// reportXML mimics a camt.052 account report without an account-level
// currency, as produced by accounting-software exports.
const reportXML = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.052.001.02">
  <BkToCstmrAcctRpt>
    <Rpt>
      <Id>RPT-2017-01</Id>
      <Acct>
        <Id><IBAN>CH2609000000924238861</IBAN></Id>
        <Tp><Cd>CACC</Cd></Tp>
        <Svcr><FinInstnId><Nm>Raiffeisen</Nm></FinInstnId></Svcr>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="XXX">0.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="XXX">10000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Dt><Dt>2017-01-31</Dt></Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="XXX">10000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2016-04-23</Dt></BookgDt>
        <ValDt><Dt>2016-04-23</Dt></ValDt>
        <AcctSvcrRef>20160423000805545979476000000012</AcctSvcrRef>
        <AddtlNtryInf>Something</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="XXX">120.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2016-05-02</Dt></BookgDt>
        <ValDt><Dt>2016-05-02</Dt></ValDt>
      </Ntry>
      <Ntry>
        <Amt Ccy="XXX">45.50</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2016-06-11</Dt></BookgDt>
        <ValDt><Dt>2016-06-11</Dt></ValDt>
      </Ntry>
      <Ntry>
        <Amt Ccy="XXX">300.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2016-07-01</Dt></BookgDt>
        <ValDt><Dt>2016-07-01</Dt></ValDt>
      </Ntry>
      <Ntry>
        <Amt Ccy="XXX">12.30</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2016-08-15</Dt></BookgDt>
        <ValDt><Dt>2016-08-15</Dt></ValDt>
      </Ntry>
    </Rpt>
  </BkToCstmrAcctRpt>
</Document>`

func writeTempXML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestParser() *Parser {
	return New(logging.NewMockLogger())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFileStatement(t *testing.T) {
	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, statementXML))
	require.NoError(t, err)
	require.NotNil(t, stmt)

	assert.Equal(t, "EUR", stmt.Currency)
	assert.Equal(t, "AGBLLT2XXXX", stmt.BankID)
	assert.Equal(t, "LT000000000000000000", stmt.AccountID)
	assert.Equal(t, "CHECKING", stmt.AccountType)

	assert.True(t, stmt.StartBalance.Equal(decimal.RequireFromString("306.53")),
		"start balance = %s", stmt.StartBalance)
	assert.True(t, stmt.EndBalance.Equal(decimal.RequireFromString("125.52")),
		"end balance = %s", stmt.EndBalance)
	assert.Equal(t, date(2015, time.December, 1), stmt.StartDate)
	assert.Equal(t, date(2015, time.December, 31), stmt.EndDate)

	require.Len(t, stmt.Lines, 4)

	line0 := stmt.Lines[0]
	assert.True(t, line0.Amount.Equal(decimal.RequireFromString("-0.29")),
		"line0 amount = %s", line0.Amount)
	assert.Equal(t, "AB DNB Bankas", line0.Payee)
	assert.Equal(t, "FC1261858984", line0.RefNum)
	assert.Equal(t, "Saskaitos aptarnavimo mokestis", line0.Memo)
	require.NotNil(t, line0.Date)
	assert.Equal(t, date(2016, time.January, 1), *line0.Date)
	require.NotNil(t, line0.DateUser)
	assert.Equal(t, date(2015, time.December, 31), *line0.DateUser)

	// Credit line: positive amount, payee is the debtor, top-level
	// AcctSvcrRef fallback, structured reference wins over Ustrd.
	line1 := stmt.Lines[1]
	assert.True(t, line1.Amount.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, "Employer Ltd", line1.Payee)
	assert.Equal(t, "FC1261900001", line1.RefNum)
	assert.Equal(t, "RF18000000000539007547034", line1.Memo)
	require.NotNil(t, line1.Date)
	assert.Equal(t, time.Date(2015, time.December, 15, 10, 0, 0, 0, time.UTC), *line1.Date)

	// Debit without any TxDtls: no payee, memo from AddtlNtryInf.
	line2 := stmt.Lines[2]
	assert.True(t, line2.Amount.IsNegative())
	assert.Empty(t, line2.Payee)
	assert.Equal(t, "Grocery store", line2.Memo)

	// Minimal entry: no booking date, no optional descriptive fields.
	line3 := stmt.Lines[3]
	assert.Nil(t, line3.DateUser)
	assert.Empty(t, line3.Payee)
	assert.Empty(t, line3.RefNum)
	assert.Empty(t, line3.Memo)
}

func TestParseFileSigns(t *testing.T) {
	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, statementXML))
	require.NoError(t, err)

	for i, line := range stmt.Lines {
		assert.False(t, line.Amount.IsZero(), "line %d has zero amount", i)
	}
	assert.True(t, stmt.Lines[0].Amount.IsNegative())
	assert.True(t, stmt.Lines[1].Amount.IsPositive())
	assert.True(t, stmt.Lines[2].Amount.IsNegative())
	assert.True(t, stmt.Lines[3].Amount.IsPositive())
}

func TestParseFileAccountReport(t *testing.T) {
	p := newTestParser()
	p.DefaultCurrency = "XXX"

	stmt, err := p.ParseFile(writeTempXML(t, reportXML))
	require.NoError(t, err)

	assert.Equal(t, "XXX", stmt.Currency)
	assert.Equal(t, "CH2609000000924238861", stmt.AccountID)
	assert.Equal(t, "Raiffeisen", stmt.BankID, "bank name fallback when no BIC")
	assert.Equal(t, "CACC", stmt.AccountType)

	assert.True(t, stmt.StartBalance.Equal(decimal.RequireFromString("0.00")))
	assert.True(t, stmt.EndBalance.Equal(decimal.RequireFromString("10000.00")))
	assert.Equal(t, date(2015, time.December, 31), stmt.StartDate)
	assert.Equal(t, date(2017, time.January, 31), stmt.EndDate)

	require.Len(t, stmt.Lines, 5)

	line0 := stmt.Lines[0]
	assert.True(t, line0.Amount.Equal(decimal.RequireFromString("10000.00")))
	assert.Empty(t, line0.Payee)
	assert.Equal(t, "Something", line0.Memo)
	assert.Equal(t, "20160423000805545979476000000012", line0.RefNum)
}

func TestParseFileNoCurrencyConfigured(t *testing.T) {
	p := newTestParser()

	stmt, err := p.ParseFile(writeTempXML(t, reportXML))
	assert.Nil(t, stmt)
	require.Error(t, err)

	var perr *parsererror.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "currency")
}

func TestParseFileUnknownNamespace(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">
  <CstmrCdtTrfInitn/>
</Document>`

	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, xml))
	assert.Nil(t, stmt)
	require.Error(t, err)

	var uerr *parsererror.UnknownFormatError
	require.True(t, errors.As(err, &uerr))
	assert.Contains(t, uerr.Namespace, "pain.001")

	var perr *parsererror.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestParseFileCurrencyFiltering(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct>
        <Id><IBAN>LT000000000000000000</IBAN></Id>
        <Ccy>EUR</Ccy>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="USD">999.99</Amt>
        <Dt><Dt>2015-12-01</Dt></Dt>
      </Bal>
      <Bal>
        <Tp><CdOrPrtry><Cd>PRCD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">50.00</Amt>
        <Dt><Dt>2015-12-01</Dt></Dt>
      </Bal>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">40.00</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="USD">25.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <ValDt><Dt>2015-12-10</Dt></ValDt>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">10.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <ValDt><Dt>2015-12-11</Dt></ValDt>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, xml))
	require.NoError(t, err)

	// USD OPBD is filtered out, so the start balance falls back to PRCD.
	assert.True(t, stmt.StartBalance.Equal(decimal.RequireFromString("50.00")),
		"start balance = %s", stmt.StartBalance)
	assert.True(t, stmt.EndBalance.Equal(decimal.RequireFromString("40.00")))

	// The USD entry is dropped, not an error.
	require.Len(t, stmt.Lines, 1)
	assert.True(t, stmt.Lines[0].Amount.Equal(decimal.RequireFromString("-10.00")))
}

func TestParseFileDefaultIBAN(t *testing.T) {
	withIBAN := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct>
        <Id><IBAN>LT111111111111111111</IBAN></Id>
        <Ccy>EUR</Ccy>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">1.00</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
    </Stmt>
  </BkToCstmrStmt>
</Document>`
	withoutIBAN := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct>
        <Ccy>EUR</Ccy>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">1.00</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	p.DefaultIBAN = "LT999999999999999999"

	stmt, err := p.ParseFile(writeTempXML(t, withIBAN))
	require.NoError(t, err)
	assert.Equal(t, "LT111111111111111111", stmt.AccountID,
		"document IBAN overrides the configured default")

	stmt, err = p.ParseFile(writeTempXML(t, withoutIBAN))
	require.NoError(t, err)
	assert.Equal(t, "LT999999999999999999", stmt.AccountID,
		"configured default is kept when the document has no id")
}

func TestParseFileMissingClosingBalance(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>EUR</Ccy></Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">10.00</Amt>
        <Dt><Dt>2015-12-01</Dt></Dt>
      </Bal>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	_, err := p.ParseFile(writeTempXML(t, xml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLBD")
}

func TestParseFileNoBalanceSurvivesFilter(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>EUR</Ccy></Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="USD">10.00</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	_, err := p.ParseFile(writeTempXML(t, xml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"EUR"`)
}

func TestParseFileExactDecimals(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>EUR</Ccy></Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">0.123456789</Amt>
        <Dt><Dt>2015-12-01</Dt></Dt>
      </Bal>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">0.000000001</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, xml))
	require.NoError(t, err)

	assert.Equal(t, "0.123456789", stmt.StartBalance.String())
	assert.Equal(t, "0.000000001", stmt.EndBalance.String())
}

func TestParseFileDateOffsetTolerated(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>CHF</Ccy></Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="CHF">1.00</Amt>
        <Dt><Dt>2017-04-11</Dt></Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="CHF">5.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <ValDt><Dt>2017-04-01+02:00</Dt></ValDt>
        <BookgDt><Dt>2017-04-01</Dt></BookgDt>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, xml))
	require.NoError(t, err)

	require.Len(t, stmt.Lines, 1)
	require.NotNil(t, stmt.Lines[0].Date)
	require.NotNil(t, stmt.Lines[0].DateUser)
	assert.Equal(t, *stmt.Lines[0].DateUser, *stmt.Lines[0].Date,
		"offset-carrying and plain dates normalize identically")
}

func TestParseFileEmptyDateContainer(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>EUR</Ccy></Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">1.00</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="EUR">5.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <ValDt/>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	stmt, err := p.ParseFile(writeTempXML(t, xml))
	assert.Nil(t, stmt)
	require.Error(t, err)

	var perr *parsererror.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "neither Dt nor DtTm")
}

func TestParseFileMissingIndicator(t *testing.T) {
	xml := `<?xml version="1.0"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>EUR</Ccy></Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="EUR">1.00</Amt>
        <Dt><Dt>2015-12-31</Dt></Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="EUR">5.00</Amt>
        <ValDt><Dt>2015-12-10</Dt></ValDt>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	p := newTestParser()
	_, err := p.ParseFile(writeTempXML(t, xml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit/debit indicator")
}

func TestValidateFormat(t *testing.T) {
	p := newTestParser()

	valid, err := p.ValidateFormat(writeTempXML(t, statementXML))
	assert.NoError(t, err)
	assert.True(t, valid)

	valid, err = p.ValidateFormat(writeTempXML(t, reportXML))
	assert.NoError(t, err)
	assert.True(t, valid)

	valid, err = p.ValidateFormat(writeTempXML(t, "this is not xml"))
	assert.NoError(t, err)
	assert.False(t, valid)

	unknown := `<?xml version="1.0"?><Document xmlns="urn:example:other"><Foo/></Document>`
	valid, err = p.ValidateFormat(writeTempXML(t, unknown))
	assert.NoError(t, err)
	assert.False(t, valid)

	_, err = p.ValidateFormat(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
