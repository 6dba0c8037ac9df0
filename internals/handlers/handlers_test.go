package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/sprig/v3"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mode_switch/internals/db"
	"mode_switch/internals/dom"
	"mode_switch/internals/theme"
)

func newTestApp(t *testing.T) (*fiber.App, *db.Store) {
	t.Helper()
	engine := html.New("../../views", ".html")
	engine.AddFuncMap(sprig.FuncMap())
	app := NewApp(engine)
	app.Get("/static/*", Static("/static/", os.DirFS("../../static")))

	store, err := db.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	New(store).Register(app)
	return app, store
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(body)
}

func modeCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == theme.CookieName {
			return c
		}
	}
	return nil
}

func TestGetIndex(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>Home · mode switch</title>")

	doc, err := dom.ParseString(body)
	require.NoError(t, err)
	links := doc.FindAll(theme.StylesheetID)
	require.Len(t, links, 1)
	href, _ := links[0].Attribute("href")
	assert.Equal(t, "/static/css/dark-theme.css", href)
	btn := doc.Find(theme.ButtonID)
	require.NotNil(t, btn)
	assert.Equal(t, theme.IconHTML(theme.Light), btn.InnerHTML())
}

// the rendered page carries every anchor the toggler needs
func TestGetIndex_TogglerRuns(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	doc, err := dom.ParseString(body)
	require.NoError(t, err)

	jar := &memJar{}
	store := theme.NewCookieStore(jar)
	tg, err := theme.New(doc, store, theme.WithOrigin("http://example.com"))
	require.NoError(t, err)

	require.NoError(t, tg.Load())
	assert.Equal(t, "mode=dark", jar.Cookies())

	mode, err := tg.Click()
	require.NoError(t, err)
	assert.Equal(t, theme.Light, mode)
	links := doc.FindAll(theme.StylesheetID)
	require.Len(t, links, 1)
	href, _ := links[0].Attribute("href")
	assert.Equal(t, "http://example.com/static/css/light-theme.css", href)
	assert.Equal(t, theme.IconHTML(theme.Dark), doc.Find(theme.ButtonID).InnerHTML())
}

type memJar struct{ cookie string }

func (j *memJar) Cookies() string { return j.cookie }

func (j *memJar) SetCookie(c string) error {
	j.cookie = c
	return nil
}

func TestToggleTheme(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		mode   string
		label  string
		sheet  string
	}{
		{"dark to light", "dark", "light", "dark", "light-theme.css"},
		{"light to dark", "light", "dark", "light", "dark-theme.css"},
		{"no cookie to light", "", "light", "dark", "light-theme.css"},
		{"garbage to light", "sepia", "light", "dark", "light-theme.css"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, store := newTestApp(t)
			req := httptest.NewRequest(http.MethodPost, "/theme/toggle", http.NoBody)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "mode", Value: tc.cookie})
			}
			resp, body := do(t, app, req)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			c := modeCookie(resp)
			require.NotNil(t, c)
			assert.Equal(t, tc.mode, c.Value)
			assert.Equal(t, "/", c.Path)
			assert.False(t, c.HttpOnly)

			var state ThemeState
			require.NoError(t, json.Unmarshal([]byte(body), &state))
			assert.Equal(t, tc.mode, state.Mode)
			assert.Equal(t, tc.label, state.Label)
			assert.Equal(t, "http://example.com/static/css/"+tc.sheet, state.Stylesheet)

			events, err := store.Recent(10)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tc.mode, events[0].Mode)
			assert.Equal(t, db.SourceToggle, events[0].Source)
		})
	}
}

func TestToggleTheme_HTMX(t *testing.T) {
	app, _ := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", http.NoBody)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(&http.Cookie{Name: "mode", Value: "light"})
	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", modeCookie(resp).Value)
	assert.Contains(t, body, `id="switch-mode"`)
	assert.Contains(t, body, "light_mode")
	assert.NotContains(t, body, "<html")
}

func TestGetTheme(t *testing.T) {
	tests := []struct {
		cookie string
		name   string
		want   ThemeState
	}{
		{"", "unset", ThemeState{Mode: "dark", Label: "light", Stylesheet: "http://example.com/static/css/dark-theme.css"}},
		{"dark", "dark", ThemeState{Mode: "dark", Label: "light", Stylesheet: "http://example.com/static/css/dark-theme.css"}},
		{"light", "light", ThemeState{Mode: "light", Label: "dark", Stylesheet: "http://example.com/static/css/light-theme.css"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			req := httptest.NewRequest(http.MethodGet, "/api/theme", http.NoBody)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "mode", Value: tc.cookie})
			}
			resp, body := do(t, app, req)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Nil(t, modeCookie(resp), "read only")

			var res map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &res))
			assert.Equal(t, map[string]string{
				"mode": tc.want.Mode, "label": tc.want.Label, "stylesheet": tc.want.Stylesheet,
			}, res)
		})
	}
}

func TestGetThemeStats(t *testing.T) {
	app, _ := newTestApp(t)

	cookie := ""
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/theme/toggle", http.NoBody)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "mode", Value: cookie})
		}
		resp, _ := do(t, app, req)
		cookie = modeCookie(resp).Value
	}
	assert.Equal(t, "light", cookie)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/theme/stats?limit=2", http.NoBody))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Counts []db.ModeCount  `json:"counts"`
		Recent []db.ThemeEvent `json:"recent"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, []db.ModeCount{{Mode: "dark", Count: 1}, {Mode: "light", Count: 2}}, res.Counts)
	assert.Len(t, res.Recent, 2)
}

func TestErrorPages(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("page not found", func(t *testing.T) {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "404 · Page not found")
		assert.Contains(t, body, `id="switch-mode"`, "full layout")
	})

	t.Run("htmx gets the body only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", http.NoBody)
		req.Header.Set("HX-Request", "true")
		resp, body := do(t, app, req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "404 · Page not found")
		assert.NotContains(t, body, "<html")
	})

	t.Run("api returns json", func(t *testing.T) {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/nope", http.NoBody))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.True(t, strings.HasPrefix(body, `{"error":`), body)
	})

	t.Run("method not allowed falls back to 500 page", func(t *testing.T) {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/theme/toggle", http.NoBody))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Contains(t, body, "405 · Something went wrong")
	})
}

func TestStatic(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		path  string
		code  int
		ctype string
	}{
		{"/static/css/dark-theme.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/static/css/light-theme.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/static/js/toggler.js", http.StatusOK, "application/javascript"},
		{"/static/css/blue-theme.css", http.StatusNotFound, ""},
		{"/static/css", http.StatusNotFound, ""},
		{"/static/../go.mod", http.StatusNotFound, ""},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			assert.Equal(t, tc.code, resp.StatusCode)
			if tc.ctype != "" {
				assert.Equal(t, tc.ctype, resp.Header.Get("Content-Type"))
			}
		})
	}
}
