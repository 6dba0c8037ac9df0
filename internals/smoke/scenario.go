package smoke

import (
	"fmt"
	"strings"

	"mode_switch/internals/theme"
)

// Action is what a step does to the page before it is checked.
type Action string

// Step actions
const (
	Visit  Action = "visit"  // open the page with no cookies
	Reload Action = "reload" // reload, keeping cookies
	Click  Action = "click"  // click the toggle button
)

// Expect is the page state a step must leave behind.
type Expect struct {
	Mode  theme.Preference // mode cookie
	Sheet theme.Preference // variant of the single theme stylesheet
	Icon  theme.Preference // icon shown on the button
}

// Step is one action and its expected outcome.
type Step struct {
	Name   string
	Action Action
	Want   Expect
}

// State is what the checker reads back from the page.
type State struct {
	Cookie string `json:"cookie"`
	Links  int    `json:"links"`
	Href   string `json:"href"`
	Icon   string `json:"icon"`
}

// Mode is the preference held in the page cookies.
func (s State) Mode() theme.Preference {
	v, ok := theme.LookupCookie(s.Cookie, theme.CookieName)
	if !ok {
		return theme.Unset
	}
	return theme.ParsePreference(v)
}

// Check compares s against want and lists every mismatch.
func (e Expect) Check(s State) error {
	var problems []string
	if got := s.Mode(); got != e.Mode {
		problems = append(problems, fmt.Sprintf("mode cookie is %s, want %s", got, e.Mode))
	}
	if s.Links != 1 {
		problems = append(problems, fmt.Sprintf("%d theme stylesheets, want 1", s.Links))
	}
	if want := theme.StylesheetURL("", e.Sheet); !strings.HasSuffix(s.Href, want) {
		problems = append(problems, fmt.Sprintf("stylesheet is %q, want %s", s.Href, want))
	}
	if want := string(e.Icon) + "_mode"; strings.TrimSpace(s.Icon) != want {
		problems = append(problems, fmt.Sprintf("button shows %q, want %q", strings.TrimSpace(s.Icon), want))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Scenarios builds the check sequence: first visit, reloads in both themes,
// and clicks alternating strictly for extraClicks more clicks.
func Scenarios(extraClicks int) []Step {
	steps := []Step{
		{Name: "first visit defaults to dark", Action: Visit, Want: Expect{Mode: theme.Dark, Sheet: theme.Dark, Icon: theme.Light}},
		{Name: "reload with dark cookie", Action: Reload, Want: Expect{Mode: theme.Dark, Sheet: theme.Dark, Icon: theme.Light}},
		{Name: "click from dark", Action: Click, Want: Expect{Mode: theme.Light, Sheet: theme.Light, Icon: theme.Dark}},
		{Name: "reload with light cookie", Action: Reload, Want: Expect{Mode: theme.Light, Sheet: theme.Light, Icon: theme.Dark}},
		{Name: "click from light", Action: Click, Want: Expect{Mode: theme.Dark, Sheet: theme.Dark, Icon: theme.Light}},
	}
	mode := theme.Dark
	for i := 0; i < extraClicks; i++ {
		mode = mode.Opposite()
		steps = append(steps, Step{
			Name:   fmt.Sprintf("repeated click %d", i+1),
			Action: Click,
			Want:   Expect{Mode: mode, Sheet: mode, Icon: mode.Opposite()},
		})
	}
	return steps
}
