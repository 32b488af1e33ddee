package camtparser

import (
	"time"

	"gopkg.in/xmlpath.v2"

	"github.com/kedder/camt-statement/internal/dateutils"
	"github.com/kedder/camt-statement/internal/parsererror"
	"github.com/kedder/camt-statement/internal/xmlutils"
)

// normalizeDate resolves a CAMT date container (BookgDt, ValDt, Bal/Dt)
// to a single datetime. The container holds either a date-only Dt child or
// a DtTm child; the date-only form wins when both appear. A nil container
// yields nil; a container with neither child is a schema violation.
func (p *Parser) normalizeDate(xc *xmlutils.Context, container *xmlpath.Node) (*time.Time, error) {
	if container == nil {
		return nil, nil
	}

	if s, ok := xc.String(container, "Dt"); ok && s != "" {
		t, err := dateutils.ParseCamtDate(s)
		if err != nil {
			return nil, &parsererror.ParseError{Msg: "invalid date", Err: err}
		}
		return &t, nil
	}

	if s, ok := xc.String(container, "DtTm"); ok && s != "" {
		t, err := dateutils.ParseCamtDateTime(s)
		if err != nil {
			return nil, &parsererror.ParseError{Msg: "invalid datetime", Err: err}
		}
		return &t, nil
	}

	return nil, parsererror.NewParseError("date container holds neither Dt nor DtTm")
}
