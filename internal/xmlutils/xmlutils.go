// Package xmlutils provides XML-related utility functions used throughout
// the application.
package xmlutils

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// DocumentNamespace returns the namespace URI of the document's root
// element. It scans tokens until the first start element, so leading
// comments and processing instructions are skipped.
func DocumentNamespace(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("no root element found: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Space, nil
		}
	}
}

// Parse builds a query-able node tree from an XML document.
func Parse(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Context resolves slash-separated paths against a document tree, caching
// compiled paths. Elements are matched by local name; the document
// namespace is checked once up front, before any queries run. A Context
// is scoped to a single parse call; concurrent parses each build their
// own and cannot interfere.
type Context struct {
	cache map[string]*xmlpath.Path
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{cache: make(map[string]*xmlpath.Path)}
}

// path compiles a path expression, caching the result for the lifetime of
// the Context. Paths are program constants, so a compile failure is a
// programming error and panics.
func (c *Context) path(expr string) *xmlpath.Path {
	if p, ok := c.cache[expr]; ok {
		return p
	}
	p := xmlpath.MustCompile(expr)
	c.cache[expr] = p
	return p
}

// String returns the text value at the path relative to node, and whether
// the path matched at all.
func (c *Context) String(node *xmlpath.Node, expr string) (string, bool) {
	s, ok := c.path(expr).String(node)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Node returns the first node at the path relative to node, or nil when
// the path matches nothing.
func (c *Context) Node(node *xmlpath.Node, expr string) *xmlpath.Node {
	iter := c.path(expr).Iter(node)
	if !iter.Next() {
		return nil
	}
	return iter.Node()
}

// Nodes returns all nodes at the path relative to node, in document order.
func (c *Context) Nodes(node *xmlpath.Node, expr string) []*xmlpath.Node {
	var nodes []*xmlpath.Node
	iter := c.path(expr).Iter(node)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes
}

// FirstString evaluates the paths in order and returns the first value
// that matches with non-empty text. The ordered-fallback rule for
// optional CAMT fields is expressed as a path list, so new fallback
// sources are additive.
func (c *Context) FirstString(node *xmlpath.Node, exprs ...string) (string, bool) {
	for _, expr := range exprs {
		if s, ok := c.String(node, expr); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
