package handlers

import (
	"io/fs"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var contentTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript",
	".wasm": "application/wasm",
	".map":  "application/json",
}

// Static serves files of fsys mounted under prefix. It is used with the
// embedded static directory; development mode serves from disk instead.
func Static(prefix string, fsys fs.FS) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimPrefix(c.Path(), prefix)
		name = strings.TrimPrefix(path.Clean("/"+name), "/")

		stat, err := fs.Stat(fsys, name)
		if err != nil || stat.IsDir() {
			return fiber.ErrNotFound
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to read file")
		}

		contentType, ok := contentTypes[path.Ext(name)]
		if !ok {
			contentType = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, contentType)
		return c.Send(data)
	}
}
