package theme

import (
	"errors"
	"strings"
)

// fakeElement is a minimal DOM node for toggler tests.
type fakeElement struct {
	tag      string
	attrs    map[string]string
	inner    string
	parent   *fakeElement
	children []*fakeElement
}

func newFakeElement(tag string, attrs map[string]string) *fakeElement {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &fakeElement{tag: tag, attrs: attrs}
}

func (e *fakeElement) SetAttribute(name, value string) { e.attrs[name] = value }

func (e *fakeElement) SetInnerHTML(markup string) error {
	e.inner = markup
	return nil
}

func (e *fakeElement) AppendChild(child Element) error {
	c, ok := child.(*fakeElement)
	if !ok {
		return errors.New("foreign element")
	}
	c.parent = e
	e.children = append(e.children, c)
	return nil
}

func (e *fakeElement) Remove() error {
	if e.parent == nil {
		return errors.New("element is detached")
	}
	siblings := e.parent.children[:0]
	for _, c := range e.parent.children {
		if c != e {
			siblings = append(siblings, c)
		}
	}
	e.parent.children = siblings
	e.parent = nil
	return nil
}

func (e *fakeElement) find(id string) *fakeElement {
	if e.attrs["id"] == id {
		return e
	}
	for _, c := range e.children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// fakePage is html > (head > link#theme, body > button#switch-mode).
type fakePage struct {
	root      *fakeElement
	head      *fakeElement
	createErr error
}

func newFakePage() *fakePage {
	root := newFakeElement("html", nil)
	head := newFakeElement("head", nil)
	body := newFakeElement("body", nil)
	_ = root.AppendChild(head)
	_ = root.AppendChild(body)
	_ = head.AppendChild(newFakeElement("link", map[string]string{
		"id": StylesheetID, "rel": "stylesheet", "href": "/static/css/dark-theme.css",
	}))
	button := newFakeElement("button", map[string]string{"id": ButtonID})
	button.inner = IconHTML(Light)
	_ = body.AppendChild(button)
	return &fakePage{root: root, head: head}
}

func (p *fakePage) Head() (Element, bool) {
	if p.head == nil {
		return nil, false
	}
	return p.head, true
}

func (p *fakePage) ElementByID(id string) (Element, bool) {
	if e := p.root.find(id); e != nil {
		return e, true
	}
	return nil, false
}

func (p *fakePage) CreateElement(tag string) (Element, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	return newFakeElement(tag, nil), nil
}

func (p *fakePage) stylesheets() []*fakeElement {
	var res []*fakeElement
	for _, c := range p.head.children {
		if c.attrs["id"] == StylesheetID {
			res = append(res, c)
		}
	}
	return res
}

func (p *fakePage) buttonHTML() string {
	return p.root.find(ButtonID).inner
}

// fakeJar mimics document.cookie. A disabled jar drops writes silently,
// a broken one fails them.
type fakeJar struct {
	names    []string
	values   map[string]string
	disabled bool
	broken   bool
}

func newFakeJar(cookies ...string) *fakeJar {
	j := &fakeJar{values: map[string]string{}}
	for _, c := range cookies {
		_ = j.SetCookie(c)
	}
	return j
}

func (j *fakeJar) Cookies() string {
	pairs := make([]string, 0, len(j.names))
	for _, n := range j.names {
		pairs = append(pairs, n+"="+j.values[n])
	}
	return strings.Join(pairs, "; ")
}

func (j *fakeJar) SetCookie(cookie string) error {
	if j.broken {
		return errors.New("cookie store unavailable")
	}
	if j.disabled {
		return nil
	}
	pair, _, _ := strings.Cut(cookie, ";")
	name, value, _ := strings.Cut(pair, "=")
	if _, ok := j.values[name]; !ok {
		j.names = append(j.names, name)
	}
	j.values[name] = value
	return nil
}
