//go:build js && wasm

package browser

import (
	"errors"
	"fmt"
	"syscall/js"

	"mode_switch/internals/theme"
)

// Page is the window document.
type Page struct {
	doc js.Value
}

// NewPage returns the current document.
func NewPage() *Page {
	return &Page{doc: js.Global().Get("document")}
}

// Origin is location.origin of the window.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}

// MarkReady sets data-theme-ready on the root element once the toggler is bound.
func MarkReady() {
	js.Global().Get("document").Get("documentElement").Call("setAttribute", "data-theme-ready", "true")
}

// Head returns document.head.
func (p *Page) Head() (theme.Element, bool) {
	return wrap(p.doc.Get("head"))
}

// ElementByID is document.getElementById.
func (p *Page) ElementByID(id string) (theme.Element, bool) {
	return wrap(p.doc.Call("getElementById", id))
}

// CreateElement is document.createElement.
func (p *Page) CreateElement(tag string) (el theme.Element, err error) {
	err = guard(func() {
		el = &Element{v: p.doc.Call("createElement", tag)}
	})
	return el, err
}

// Element is a DOM element handle.
type Element struct {
	v js.Value
}

func wrap(v js.Value) (theme.Element, bool) {
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	return &Element{v: v}, true
}

// SetAttribute sets an attribute. disabled is set as the property so a
// stylesheet link stops applying at once.
func (e *Element) SetAttribute(name, value string) {
	if name == "disabled" {
		e.v.Set("disabled", true)
		return
	}
	e.v.Call("setAttribute", name, value)
}

func (e *Element) SetInnerHTML(markup string) error {
	return guard(func() { e.v.Set("innerHTML", markup) })
}

func (e *Element) AppendChild(child theme.Element) error {
	c, ok := child.(*Element)
	if !ok {
		return fmt.Errorf("append %T: not a browser element", child)
	}
	return guard(func() { e.v.Call("appendChild", c.v) })
}

func (e *Element) Remove() error {
	parent := e.v.Get("parentNode")
	if parent.IsNull() || parent.IsUndefined() {
		return errors.New("element is not attached")
	}
	return guard(func() { parent.Call("removeChild", e.v) })
}

// OnClick registers fn as a click listener. The returned release removes the
// listener and frees the callback.
func (e *Element) OnClick(fn func()) (release func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	e.v.Call("addEventListener", "click", cb)
	return func() {
		e.v.Call("removeEventListener", "click", cb)
		cb.Release()
	}
}

// guard turns a thrown JS exception into an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dom call failed: %v", r)
		}
	}()
	fn()
	return nil
}
