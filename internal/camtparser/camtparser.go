// Package camtparser parses ISO-20022 CAMT.052/CAMT.053 XML documents into
// normalized Statement values.
package camtparser

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/kedder/camt-statement/internal/logging"
	"github.com/kedder/camt-statement/internal/models"
	"github.com/kedder/camt-statement/internal/parser"
	"github.com/kedder/camt-statement/internal/parsererror"
	"github.com/kedder/camt-statement/internal/xmlutils"
)

// Parser converts one CAMT XML document into a Statement. A Parser holds
// no state across ParseFile calls; it is safe to call ParseFile from
// multiple goroutines as long as each call operates on its own file.
type Parser struct {
	parser.BaseParser

	// DefaultCurrency is used when the document carries no account-level
	// currency. Without either, parsing fails.
	DefaultCurrency string

	// DefaultIBAN is used when the document provides no account id.
	// A document-provided id always wins over it.
	DefaultIBAN string
}

// New creates a CAMT parser with the given logger.
func New(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(logger)}
}

// ParseFile parses a CAMT.052/CAMT.053 XML file into a Statement.
func (p *Parser) ParseFile(path string) (*models.Statement, error) {
	p.GetLogger().Info("Parsing CAMT XML file",
		logging.Field{Key: "file", Value: path})

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &parsererror.ParseError{File: path, Msg: "cannot read statement file", Err: err}
	}

	stmt, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		var pe *parsererror.ParseError
		if errors.As(err, &pe) && pe.File == "" {
			pe.File = path
		}
		p.GetLogger().WithError(err).Error("Failed to parse CAMT file",
			logging.Field{Key: "file", Value: path})
		return nil, err
	}

	p.GetLogger().Info("Successfully parsed CAMT file",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "currency", Value: stmt.Currency},
		logging.Field{Key: "lines", Value: len(stmt.Lines)})
	return stmt, nil
}

// Parse parses a CAMT document from an in-memory buffer. The reader is
// consumed twice (namespace sniff, then tree build), so it must support
// seeking back to the start.
func (p *Parser) Parse(data io.ReadSeeker) (*models.Statement, error) {
	namespace, err := xmlutils.DocumentNamespace(data)
	if err != nil {
		return nil, &parsererror.ParseError{Msg: "not a well-formed XML document", Err: err}
	}

	format, err := DetectFormat(namespace)
	if err != nil {
		return nil, &parsererror.ParseError{Msg: "unrecognized statement format", Err: err}
	}

	if _, err := data.Seek(0, io.SeekStart); err != nil {
		return nil, &parsererror.ParseError{Msg: "cannot rewind document", Err: err}
	}
	root, err := xmlutils.Parse(data)
	if err != nil {
		return nil, &parsererror.ParseError{Msg: "invalid XML document", Err: err}
	}

	// The path cache lives in this context for the duration of the call
	// only; concurrent parses cannot interfere.
	xc := xmlutils.NewContext()

	stmt := &models.Statement{
		Currency:    p.DefaultCurrency,
		AccountID:   p.DefaultIBAN,
		AccountType: models.DefaultAccountType,
	}

	stmtNode := xc.Node(root, format.StatementPath)
	if stmtNode == nil {
		// Mandatory per schema for both message families.
		return nil, parsererror.NewParseError("no statement node found at %s", format.StatementPath)
	}

	if err := p.parseStatementProperties(xc, stmtNode, stmt); err != nil {
		return nil, err
	}
	if err := p.parseLines(xc, stmtNode, stmt); err != nil {
		return nil, err
	}

	return stmt, nil
}

// ValidateFormat checks whether a file is a recognizable CAMT document.
// A file that is not XML or carries an unknown namespace is reported as
// invalid, not as an error.
func (p *Parser) ValidateFormat(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.GetLogger().WithError(err).Warn("Failed to close file")
		}
	}()

	namespace, err := xmlutils.DocumentNamespace(f)
	if err != nil {
		p.GetLogger().Debug("File is not valid XML",
			logging.Field{Key: "file", Value: path})
		return false, nil
	}

	if _, err := DetectFormat(namespace); err != nil {
		p.GetLogger().Debug("File namespace matches no CAMT family",
			logging.Field{Key: "file", Value: path},
			logging.Field{Key: "namespace", Value: namespace})
		return false, nil
	}
	return true, nil
}
