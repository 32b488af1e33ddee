// Package common provides processing helpers shared by the CLI commands.
package common

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kedder/camt-statement/internal/parser"
	"github.com/kedder/camt-statement/internal/writer"
)

// Output formats supported by the convert commands.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// ProcessFile parses a single statement file and writes it to the output
// path in the requested format.
func ProcessFile(p parser.StatementParser, input, output, format string, opts writer.Options, log *logrus.Logger) error {
	stmt, err := p.ParseFile(input)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"account":  stmt.AccountID,
		"currency": stmt.Currency,
		"lines":    len(stmt.Lines),
	}).Info("Statement parsed")

	switch strings.ToLower(format) {
	case FormatCSV, "":
		return writer.WriteCSV(stmt, output, opts)
	case FormatYAML:
		return writer.WriteYAML(stmt, output)
	default:
		return fmt.Errorf("unsupported output format %q (use csv or yaml)", format)
	}
}
