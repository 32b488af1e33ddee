package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kedder/camt-statement/internal/dateutils"
	"github.com/kedder/camt-statement/internal/fileutils"
	"github.com/kedder/camt-statement/internal/models"
)

// yamlStatement is the YAML rendering of a statement. Amounts and dates
// are stringified so the document stays exact and human-readable.
type yamlStatement struct {
	Currency     string     `yaml:"currency"`
	BankID       string     `yaml:"bank_id,omitempty"`
	AccountID    string     `yaml:"account_id,omitempty"`
	AccountType  string     `yaml:"account_type"`
	StartBalance string     `yaml:"start_balance"`
	EndBalance   string     `yaml:"end_balance"`
	StartDate    string     `yaml:"start_date"`
	EndDate      string     `yaml:"end_date"`
	Lines        []yamlLine `yaml:"lines"`
}

type yamlLine struct {
	Amount      string `yaml:"amount"`
	Payee       string `yaml:"payee,omitempty"`
	Date        string `yaml:"date,omitempty"`
	BookingDate string `yaml:"booking_date,omitempty"`
	Reference   string `yaml:"reference,omitempty"`
	Memo        string `yaml:"memo,omitempty"`
}

// WriteYAML writes the full statement, balances included, to a YAML file.
func WriteYAML(stmt *models.Statement, yamlFile string) error {
	log.WithField("file", yamlFile).Info("Writing statement to YAML file")

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(yamlFile)); err != nil {
		return err
	}

	doc := yamlStatement{
		Currency:     stmt.Currency,
		BankID:       stmt.BankID,
		AccountID:    stmt.AccountID,
		AccountType:  stmt.AccountType,
		StartBalance: stmt.StartBalance.StringFixed(2),
		EndBalance:   stmt.EndBalance.StringFixed(2),
		StartDate:    formatStatementDate(stmt.StartDate),
		EndDate:      formatStatementDate(stmt.EndDate),
	}
	for _, line := range stmt.Lines {
		doc.Lines = append(doc.Lines, yamlLine{
			Amount:      line.Amount.StringFixed(2),
			Payee:       line.Payee,
			Date:        formatOptionalDate(line.Date, dateutils.DateLayoutISO),
			BookingDate: formatOptionalDate(line.DateUser, dateutils.DateLayoutISO),
			Reference:   line.RefNum,
			Memo:        line.Memo,
		})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("error marshalling statement to YAML: %w", err)
	}
	if err := os.WriteFile(yamlFile, data, 0644); err != nil {
		return fmt.Errorf("error writing YAML file: %w", err)
	}
	return nil
}

func formatStatementDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return dateutils.FormatDate(t, dateutils.DateLayoutISO)
}
