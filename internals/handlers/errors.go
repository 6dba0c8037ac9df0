package handlers

import (
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
)

var errorTitles = map[int]string{
	fiber.StatusForbidden:           "Forbidden",
	fiber.StatusNotFound:            "Page not found",
	fiber.StatusInternalServerError: "Something went wrong",
}

// ErrorHandler renders errors as JSON under /api and as an error page
// elsewhere. HTMX requests get the page body without the layout.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}

	if isAPI(c) {
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}

	page := code
	if _, ok := errorTitles[page]; !ok {
		page = fiber.StatusInternalServerError
	}
	data := pageData(fiber.Map{"Title": errorTitles[page], "Code": code})
	c.Status(code)

	var rerr error
	if isHTMX(c) {
		rerr = c.Render(fmt.Sprintf("errors/%d", page), data, "")
	} else {
		rerr = c.Render(fmt.Sprintf("errors/%d", page), data)
	}
	if rerr != nil {
		log.Printf("[ERROR] failed to render error page: %v", rerr)
		return c.Status(code).SendString(errorTitles[page])
	}
	return nil
}
