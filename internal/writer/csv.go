// Package writer exports parsed statements to ledger-friendly formats.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"github.com/kedder/camt-statement/internal/dateutils"
	"github.com/kedder/camt-statement/internal/fileutils"
	"github.com/kedder/camt-statement/internal/models"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Options control the CSV rendering.
type Options struct {
	Delimiter  rune
	DateFormat string
}

// DefaultOptions returns comma-delimited output with ISO dates.
func DefaultOptions() Options {
	return Options{
		Delimiter:  ',',
		DateFormat: dateutils.DateLayoutISO,
	}
}

// csvLine maps one statement line to a CSV row.
type csvLine struct {
	Date        string `csv:"Date"`
	BookingDate string `csv:"BookingDate"`
	Payee       string `csv:"Payee"`
	Memo        string `csv:"Memo"`
	Reference   string `csv:"Reference"`
	Amount      string `csv:"Amount"`
	Currency    string `csv:"Currency"`
}

// WriteCSV writes the statement's lines to a CSV file, one row per line,
// creating the output directory when needed.
func WriteCSV(stmt *models.Statement, csvFile string, opts Options) error {
	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(stmt.Lines),
	}).Info("Writing statement lines to CSV file")

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(csvFile)); err != nil {
		return err
	}

	rows := make([]csvLine, 0, len(stmt.Lines))
	for _, line := range stmt.Lines {
		rows = append(rows, csvLine{
			Date:        formatOptionalDate(line.Date, opts.DateFormat),
			BookingDate: formatOptionalDate(line.DateUser, opts.DateFormat),
			Payee:       line.Payee,
			Memo:        line.Memo,
			Reference:   line.RefNum,
			Amount:      line.Amount.StringFixed(2),
			Currency:    stmt.Currency,
		})
	}

	f, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	w := csv.NewWriter(f)
	if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

func formatOptionalDate(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return dateutils.FormatDate(*t, layout)
}
