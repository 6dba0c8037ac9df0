package theme

// Plan describes what a page load or a click does to the cookie and the page.
type Plan struct {
	Mode  Preference // preference in effect once the plan is applied
	Write Preference // value to persist, Unset if the cookie stays as is
	Label Preference // icon shown on the button, Unset if nothing is swapped
	Sheet Preference // stylesheet variant to load
}

// Swaps reports whether the plan replaces the stylesheet and the button icon.
func (p Plan) Swaps() bool {
	return p.Label != Unset
}

// PlanLoad returns the page-load plan for the stored preference.
//
// A missing preference is normalized to dark and the server-rendered
// stylesheet is left alone. A stored preference keeps its own stylesheet and
// labels the button with the opposite theme.
func PlanLoad(stored Preference) Plan {
	if !stored.Valid() {
		return Plan{Mode: Dark, Write: Dark}
	}
	return Plan{Mode: stored, Label: stored.Opposite(), Sheet: stored}
}

// PlanClick returns the plan for a click on the toggle button. The new
// preference is persisted, the new stylesheet loaded and the button labeled
// with the theme being left. Unset counts as dark.
func PlanClick(stored Preference) Plan {
	current := stored
	if !current.Valid() {
		current = Dark
	}
	next := current.Opposite()
	return Plan{Mode: next, Write: next, Label: current, Sheet: next}
}
