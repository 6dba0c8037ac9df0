package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mode_switch/internals/db"
	"mode_switch/internals/theme"
)

// EventStore records theme changes.
type EventStore interface {
	Record(mode, source string) (db.ThemeEvent, error)
	Recent(limit int) ([]db.ThemeEvent, error)
	Counts() ([]db.ModeCount, error)
}

// Handler serves the page and the theme API.
type Handler struct {
	events EventStore
}

// New makes a Handler recording into events.
func New(events EventStore) *Handler {
	return &Handler{events: events}
}

// NewApp creates the fiber app with the page layout and the error pages.
func NewApp(views fiber.Views) *fiber.App {
	return fiber.New(fiber.Config{
		Views:        views,
		ViewsLayout:  "layouts/base",
		ErrorHandler: ErrorHandler,
	})
}

// Register mounts the routes. apiMiddleware wraps the /api group only.
func (h *Handler) Register(app *fiber.App, apiMiddleware ...fiber.Handler) {
	app.Post("/theme/toggle", h.ToggleTheme)

	api := app.Group("/api")
	for _, mw := range apiMiddleware {
		api.Use(mw)
	}
	api.Get("/theme", h.GetTheme)
	api.Get("/theme/stats", h.GetThemeStats)

	app.Get("/", h.GetIndex)
}

// pageData is the template data every full page needs, merged with extra.
func pageData(extra fiber.Map) fiber.Map {
	data := fiber.Map{
		"Stylesheet": theme.StylesheetURL("", theme.DefaultSheet),
		"Icon":       string(theme.DefaultLabel),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") != ""
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}
