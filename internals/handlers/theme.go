package handlers

import (
	log "github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"

	"mode_switch/internals/db"
	"mode_switch/internals/theme"
)

// ThemeState describes the preference and what the page shows for it.
type ThemeState struct {
	Mode       string `json:"mode"`
	Label      string `json:"label"`
	Stylesheet string `json:"stylesheet"`
}

func stateOf(c *fiber.Ctx, plan theme.Plan) ThemeState {
	label, sheet := plan.Label, plan.Sheet
	if !plan.Swaps() {
		label, sheet = theme.DefaultLabel, theme.DefaultSheet
	}
	return ThemeState{
		Mode:       string(plan.Mode),
		Label:      string(label),
		Stylesheet: theme.StylesheetURL(c.BaseURL(), sheet),
	}
}

// GetTheme reports what a page load does with the request's mode cookie.
// The cookie itself is not touched.
func (h *Handler) GetTheme(c *fiber.Ctx) error {
	stored := theme.NewCookieStore(newRequestJar(c)).Read()
	return c.JSON(stateOf(c, theme.PlanLoad(stored)))
}

// ToggleTheme flips the mode cookie the same way a click on the page button does.
func (h *Handler) ToggleTheme(c *fiber.Ctx) error {
	store := theme.NewCookieStore(newRequestJar(c))
	plan := theme.PlanClick(store.Read())
	if err := store.Write(plan.Write); err != nil {
		log.Printf("[ERROR] failed to set theme cookie: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save theme",
			"details": err.Error(),
		})
	}

	if _, err := h.events.Record(string(plan.Mode), db.SourceToggle); err != nil {
		// the cookie is already set, a lost event is not worth failing the toggle
		log.Printf("[WARN] failed to record theme event: %v", err)
	}

	if isHTMX(c) {
		return c.Render("partials/switch", fiber.Map{"Icon": string(plan.Label)}, "")
	}
	return c.JSON(stateOf(c, plan))
}

// GetThemeStats returns toggle counts per mode and the latest events.
func (h *Handler) GetThemeStats(c *fiber.Ctx) error {
	counts, err := h.events.Counts()
	if err != nil {
		log.Printf("[ERROR] failed to count theme events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to get theme stats",
			"details": err.Error(),
		})
	}

	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 500 {
		limit = 20
	}
	recent, err := h.events.Recent(limit)
	if err != nil {
		log.Printf("[ERROR] failed to list theme events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to get theme stats",
			"details": err.Error(),
		})
	}

	if counts == nil {
		counts = []db.ModeCount{}
	}
	if recent == nil {
		recent = []db.ThemeEvent{}
	}
	return c.JSON(fiber.Map{
		"counts": counts,
		"recent": recent,
	})
}
