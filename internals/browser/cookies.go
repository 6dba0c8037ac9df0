//go:build js && wasm

package browser

import "syscall/js"

// CookieJar is document.cookie.
type CookieJar struct {
	doc js.Value
}

// NewCookieJar returns the jar of the current document.
func NewCookieJar() *CookieJar {
	return &CookieJar{doc: js.Global().Get("document")}
}

func (j *CookieJar) Cookies() string {
	v := j.doc.Get("cookie")
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

// SetCookie assigns a single cookie string. Browsers with cookies disabled
// ignore the assignment without an error.
func (j *CookieJar) SetCookie(cookie string) error {
	return guard(func() { j.doc.Set("cookie", cookie) })
}
