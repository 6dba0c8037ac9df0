package theme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPersisted is returned when a cookie write did not stick, usually
// because the host has cookies disabled.
var ErrNotPersisted = errors.New("preference not persisted")

// PreferenceStore keeps the theme preference between page views.
type PreferenceStore interface {
	Read() Preference
	Write(p Preference) error
}

// CookieJar is the document.cookie view of a cookie store: Cookies returns
// every visible cookie as "a=1; b=2" and SetCookie stores a single "name=value" pair.
type CookieJar interface {
	Cookies() string
	SetCookie(cookie string) error
}

// CookieStore persists the preference in the mode cookie of a jar.
type CookieStore struct {
	jar  CookieJar
	name string
}

// NewCookieStore makes a store over jar using the mode cookie.
func NewCookieStore(jar CookieJar) *CookieStore {
	return &CookieStore{jar: jar, name: CookieName}
}

// Read returns the stored preference, Unset if the cookie is absent or holds
// an unknown value.
func (s *CookieStore) Read() Preference {
	v, ok := LookupCookie(s.jar.Cookies(), s.name)
	if !ok {
		return Unset
	}
	return ParsePreference(v)
}

// Write stores p as a session cookie and reads it back to confirm.
func (s *CookieStore) Write(p Preference) error {
	if !p.Valid() {
		return fmt.Errorf("write %q: %w", p.String(), ErrInvalidPreference)
	}
	if err := s.jar.SetCookie(s.name + "=" + string(p)); err != nil {
		return fmt.Errorf("set cookie %s: %w", s.name, err)
	}
	if got := s.Read(); got != p {
		return fmt.Errorf("cookie %s reads %s after writing %s: %w", s.name, got, p, ErrNotPersisted)
	}
	return nil
}

// LookupCookie finds name in a "a=1; b=2" cookie string.
func LookupCookie(cookies, name string) (string, bool) {
	for _, c := range strings.Split(cookies, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(c), "=")
		if found && k == name {
			return v, true
		}
	}
	return "", false
}
