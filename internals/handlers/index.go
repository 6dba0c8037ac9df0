package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetIndex handles the main page request. The page always starts in the dark
// theme; the toggler applies the stored preference in the browser.
func (h *Handler) GetIndex(c *fiber.Ctx) error {
	return c.Render("index", pageData(fiber.Map{"Title": "Home"}))
}
