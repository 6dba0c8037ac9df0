// Package dom is an in-memory document built on golang.org/x/net/html. It
// implements theme.Page so the toggler can run against real page markup
// outside a browser.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mode_switch/internals/theme"
)

// ErrDetached is returned when removing an element that has no parent.
var ErrDetached = errors.New("element is not attached")

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Head returns the <head> element. The html parser always synthesizes one.
func (d *Document) Head() (theme.Element, bool) {
	n := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Head
	})
	if n == nil {
		return nil, false
	}
	return &Element{node: n}, true
}

// ElementByID returns the first element in document order with the given id.
func (d *Document) ElementByID(id string) (theme.Element, bool) {
	if e := d.Find(id); e != nil {
		return e, true
	}
	return nil, false
}

// Find is ElementByID returning the concrete type, nil when absent.
func (d *Document) Find(id string) *Element {
	if id == "" {
		return nil
	}
	n := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
	if n == nil {
		return nil
	}
	return &Element{node: n}
}

// FindAll returns every element with the given id, in document order.
func (d *Document) FindAll(id string) []*Element {
	var res []*Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			res = append(res, &Element{node: n})
		}
		return false
	})
	return res
}

// CreateElement makes a detached element.
func (d *Document) CreateElement(tag string) (theme.Element, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil, errors.New("empty tag name")
	}
	return &Element{node: &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}}, nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Element wraps an element node.
type Element struct {
	node *html.Node
}

// Tag is the lower-case element name.
func (e *Element) Tag() string { return e.node.Data }

// Attribute returns the value of name and whether it is set.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Attributes returns all attributes as a map.
func (e *Element) Attributes() map[string]string {
	res := make(map[string]string, len(e.node.Attr))
	for _, a := range e.node.Attr {
		res[a.Key] = a.Val
	}
	return res
}

// Attached reports whether the element still has a parent.
func (e *Element) Attached() bool { return e.node.Parent != nil }

// SetAttribute sets or replaces an attribute.
func (e *Element) SetAttribute(name, value string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// SetInnerHTML replaces the children with the parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// InnerHTML renders the children.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child theme.Element) error {
	c, ok := child.(*Element)
	if !ok {
		return fmt.Errorf("append %T: not a dom element", child)
	}
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
	return nil
}

// Remove detaches the element from its parent.
func (e *Element) Remove() error {
	if e.node.Parent == nil {
		return ErrDetached
	}
	e.node.Parent.RemoveChild(e.node)
	return nil
}

// Children returns the element children of e.
func (e *Element) Children() []*Element {
	var res []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			res = append(res, &Element{node: c})
		}
	}
	return res
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	return found
}

// walk visits n and its descendants depth-first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}
