// Package parser defines the interface implemented by statement format
// parsers and the base type they embed.
package parser

import (
	"github.com/kedder/camt-statement/internal/models"
)

// StatementParser is implemented by parsers that turn a bank export file
// into a normalized Statement. Implementations return *parsererror.ParseError
// for structurally invalid documents.
type StatementParser interface {
	// ParseFile parses the file at the given path into a Statement.
	ParseFile(path string) (*models.Statement, error)

	// ValidateFormat reports whether the file looks like a document this
	// parser understands. A mismatch is not an error.
	ValidateFormat(path string) (bool, error)
}
