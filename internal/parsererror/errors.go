package parsererror

import "fmt"

// ParseError reports a structurally invalid statement document. It is the
// single error kind surfaced to callers for all fatal parse failures:
// unrecognized namespace, unresolved statement currency, no balance
// surviving currency filtering, and missing mandatory nodes.
type ParseError struct {
	File string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError with a formatted message.
func NewParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// UnknownFormatError reports a document whose root namespace matches no
// supported CAMT message family.
type UnknownFormatError struct {
	Namespace string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown statement format: namespace %q", e.Namespace)
}
