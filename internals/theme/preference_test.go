package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePreference(t *testing.T) {
	tests := []struct {
		in   string
		want Preference
	}{
		{"dark", Dark},
		{"light", Light},
		{" light", Light},
		{"", Unset},
		{"Dark", Unset},
		{"blue", Unset},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePreference(tc.in))
		})
	}
}

func TestPreference_Opposite(t *testing.T) {
	assert.Equal(t, Light, Dark.Opposite())
	assert.Equal(t, Dark, Light.Opposite())
	assert.Equal(t, Unset, Unset.Opposite())
	assert.Equal(t, Dark, Dark.Opposite().Opposite())
}

func TestPreference_String(t *testing.T) {
	assert.Equal(t, "dark", Dark.String())
	assert.Equal(t, "unset", Unset.String())
}

func TestStylesheetURL(t *testing.T) {
	assert.Equal(t, "/static/css/dark-theme.css", StylesheetURL("", Dark))
	assert.Equal(t, "http://localhost:3000/static/css/light-theme.css", StylesheetURL("http://localhost:3000", Light))
	assert.Equal(t, "http://localhost:3000/static/css/light-theme.css", StylesheetURL("http://localhost:3000/", Light))
}

func TestIconHTML(t *testing.T) {
	assert.Equal(t, `<span class="material-icons icon">dark_mode</span>`, IconHTML(Dark))
	assert.Equal(t, `<span class="material-icons icon">light_mode</span>`, IconHTML(Light))
}

func TestPlanLoad(t *testing.T) {
	tests := []struct {
		name   string
		stored Preference
		want   Plan
	}{
		{"unset normalized to dark", Unset, Plan{Mode: Dark, Write: Dark}},
		{"dark keeps dark sheet", Dark, Plan{Mode: Dark, Label: Light, Sheet: Dark}},
		{"light keeps light sheet", Light, Plan{Mode: Light, Label: Dark, Sheet: Light}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanLoad(tc.stored)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.stored != Unset, got.Swaps())
		})
	}
}

func TestPlanClick(t *testing.T) {
	tests := []struct {
		name   string
		stored Preference
		want   Plan
	}{
		{"dark to light", Dark, Plan{Mode: Light, Write: Light, Label: Dark, Sheet: Light}},
		{"light to dark", Light, Plan{Mode: Dark, Write: Dark, Label: Light, Sheet: Dark}},
		{"unset acts as dark", Unset, Plan{Mode: Light, Write: Light, Label: Dark, Sheet: Light}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanClick(tc.stored)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Swaps())
		})
	}
}
