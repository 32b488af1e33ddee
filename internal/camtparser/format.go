package camtparser

import (
	"strings"

	"github.com/kedder/camt-statement/internal/parsererror"
)

// Format identifies a supported CAMT message family and carries the layout
// rules specific to it. The set of formats is closed: detection yields one
// of the values below or fails.
type Format struct {
	// Name is the message family, e.g. "camt.053".
	Name string

	// NamespacePrefix is the schema-root identifier the document
	// namespace must start with. Minor version suffixes vary per bank,
	// so matching is by prefix.
	NamespacePrefix string

	// StatementPath locates the single statement/report node from the
	// document root.
	StatementPath string
}

// The supported message families. camt.053 is the periodic bank statement,
// camt.052 the intraday account report; their balance and entry subsets
// share a layout, only the root path differs.
var (
	FormatStatement = Format{
		Name:            "camt.053",
		NamespacePrefix: "urn:iso:std:iso:20022:tech:xsd:camt.053",
		StatementPath:   "/Document/BkToCstmrStmt/Stmt",
	}

	FormatAccountReport = Format{
		Name:            "camt.052",
		NamespacePrefix: "urn:iso:std:iso:20022:tech:xsd:camt.052",
		StatementPath:   "/Document/BkToCstmrAcctRpt/Rpt",
	}
)

var formats = []Format{FormatStatement, FormatAccountReport}

// DetectFormat matches a document namespace against the supported message
// families. The prefixes are disjoint, so the first match wins.
func DetectFormat(namespace string) (Format, error) {
	for _, f := range formats {
		if strings.HasPrefix(namespace, f.NamespacePrefix) {
			return f, nil
		}
	}
	return Format{}, &parsererror.UnknownFormatError{Namespace: namespace}
}
