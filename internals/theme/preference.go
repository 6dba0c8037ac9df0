package theme

import (
	"fmt"
	"html"
	"strings"
)

// Preference is the persisted display theme. The zero value is Unset,
// meaning no cookie was found.
type Preference string

const (
	Unset Preference = ""
	Dark  Preference = "dark"
	Light Preference = "light"
)

// DOM anchors and the cookie the toggler works with.
const (
	CookieName   = "mode"
	StylesheetID = "theme"
	ButtonID     = "switch-mode"
)

// The server renders the dark stylesheet and the light icon before any
// preference is applied.
const (
	DefaultSheet = Dark
	DefaultLabel = Light
)

// ParsePreference maps a raw cookie value to a Preference.
// Anything other than dark or light is Unset.
func ParsePreference(s string) Preference {
	switch Preference(strings.TrimSpace(s)) {
	case Dark:
		return Dark
	case Light:
		return Light
	default:
		return Unset
	}
}

// Valid reports whether p is one of the two displayable themes.
func (p Preference) Valid() bool {
	return p == Dark || p == Light
}

// Opposite returns the other theme. Unset has no opposite and stays Unset.
func (p Preference) Opposite() Preference {
	switch p {
	case Dark:
		return Light
	case Light:
		return Dark
	default:
		return Unset
	}
}

func (p Preference) String() string {
	if p == Unset {
		return "unset"
	}
	return string(p)
}

// StylesheetURL returns the static stylesheet location for p, prefixed with origin
// (e.g. "https://example.com"). An empty origin gives a root-relative path.
func StylesheetURL(origin string, p Preference) string {
	return fmt.Sprintf("%s/static/css/%s-theme.css", strings.TrimSuffix(origin, "/"), string(p))
}

// IconHTML is the button content showing the icon for label.
func IconHTML(label Preference) string {
	return fmt.Sprintf(`<span class="material-icons icon">%s_mode</span>`, html.EscapeString(string(label)))
}
