// Package theme switches a page between the dark and light stylesheets and
// keeps the choice in the mode cookie.
package theme

import (
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"
)

// Toggler errors
var (
	ErrMissingHead        = errors.New("document has no head element")
	ErrMissingButton      = errors.New("toggle button #" + ButtonID + " not found")
	ErrMissingStylesheet  = errors.New("stylesheet link #" + StylesheetID + " not found")
	ErrInvalidPreference  = errors.New("preference must be dark or light")
	ErrEmptyStylesheetURL = errors.New("stylesheet url is empty")
)

// Toggler owns the theme stylesheet link and the toggle button of a page.
// It is not safe for concurrent use; the browser runs it on the UI thread.
type Toggler struct {
	store  PreferenceStore
	page   Page
	head   Element
	button Element
	mode   Preference // last applied, survives when the store drops writes
	origin string
	log    lgr.L
}

// Option configures a Toggler.
type Option func(t *Toggler)

// WithOrigin sets the prefix of stylesheet URLs, normally location.origin.
func WithOrigin(origin string) Option {
	return func(t *Toggler) { t.origin = origin }
}

// WithLogger sets the logger, lgr.NoOp by default.
func WithLogger(l lgr.L) Option {
	return func(t *Toggler) {
		if l != nil {
			t.log = l
		}
	}
}

// New binds a toggler to page. The head, the toggle button and the current
// theme stylesheet must all be present.
func New(page Page, store PreferenceStore, opts ...Option) (*Toggler, error) {
	t := &Toggler{store: store, page: page, log: lgr.NoOp}
	for _, opt := range opts {
		opt(t)
	}

	var ok bool
	if t.head, ok = page.Head(); !ok {
		return nil, fmt.Errorf("bind page: %w", ErrMissingHead)
	}
	if t.button, ok = page.ElementByID(ButtonID); !ok {
		return nil, fmt.Errorf("bind page: %w", ErrMissingButton)
	}
	if _, ok = page.ElementByID(StylesheetID); !ok {
		return nil, fmt.Errorf("bind page: %w", ErrMissingStylesheet)
	}
	return t, nil
}

// Load runs the page-load step: an unset preference becomes dark, a stored one
// gets its stylesheet and the opposite icon.
func (t *Toggler) Load() error {
	stored := t.store.Read()
	t.log.Logf("[DEBUG] page load, stored theme %s", stored)
	return t.apply(PlanLoad(stored))
}

// Click flips the stored preference and swaps the stylesheet, returning the
// preference now in effect. When nothing is stored, as with cookies disabled,
// it flips the theme the page currently shows.
func (t *Toggler) Click() (Preference, error) {
	stored := t.store.Read()
	if stored == Unset {
		stored = t.mode
	}
	plan := PlanClick(stored)
	t.log.Logf("[DEBUG] toggle %s -> %s", stored, plan.Mode)
	if err := t.apply(plan); err != nil {
		return stored, err
	}
	return plan.Mode, nil
}

func (t *Toggler) apply(plan Plan) error {
	if plan.Write != Unset {
		if err := t.store.Write(plan.Write); err != nil {
			// the view still switches, only persistence is lost
			t.log.Logf("[WARN] theme %s not saved: %v", plan.Write, err)
		}
	}
	if !plan.Swaps() {
		t.mode = plan.Mode
		return nil
	}
	if err := t.Swap(plan.Label, StylesheetURL(t.origin, plan.Sheet)); err != nil {
		return err
	}
	t.mode = plan.Mode
	return nil
}

// Swap replaces the theme stylesheet link with a new one pointing at url and
// then shows the label icon on the button. The old link is disabled and
// detached. The link is looked up on every swap, so a replacement made by other
// scripts is honored; when none is attached the new one is simply appended.
func (t *Toggler) Swap(label Preference, url string) error {
	if !label.Valid() {
		return fmt.Errorf("swap label %q: %w", label.String(), ErrInvalidPreference)
	}
	if url == "" {
		return ErrEmptyStylesheetURL
	}

	link, err := t.page.CreateElement("link")
	if err != nil {
		return fmt.Errorf("create stylesheet link: %w", err)
	}
	link.SetAttribute("id", StylesheetID)
	link.SetAttribute("rel", "stylesheet")
	link.SetAttribute("type", "text/css")
	link.SetAttribute("href", url)
	link.SetAttribute("media", "all")

	if old, ok := t.page.ElementByID(StylesheetID); ok {
		old.SetAttribute("disabled", "")
		if err := old.Remove(); err != nil {
			return fmt.Errorf("remove old stylesheet: %w", err)
		}
	} else {
		t.log.Logf("[DEBUG] no #%s link attached, appending a new one", StylesheetID)
	}

	if err := t.head.AppendChild(link); err != nil {
		return fmt.Errorf("append stylesheet: %w", err)
	}
	if err := t.button.SetInnerHTML(IconHTML(label)); err != nil {
		return fmt.Errorf("set button icon: %w", err)
	}
	return nil
}
