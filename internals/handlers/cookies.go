package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// requestJar is the cookie view of a single request: the cookies it carried,
// overlaid with the ones set on the response so far.
type requestJar struct {
	c       *fiber.Ctx
	written map[string]string
	order   []string
}

func newRequestJar(c *fiber.Ctx) *requestJar {
	return &requestJar{c: c, written: map[string]string{}}
}

func (j *requestJar) Cookies() string {
	var pairs []string
	seen := map[string]bool{}
	j.c.Request().Header.VisitAllCookie(func(k, v []byte) {
		name, value := string(k), string(v)
		if w, ok := j.written[name]; ok {
			value = w
		}
		seen[name] = true
		pairs = append(pairs, name+"="+value)
	})
	for _, name := range j.order {
		if !seen[name] {
			pairs = append(pairs, name+"="+j.written[name])
		}
	}
	return strings.Join(pairs, "; ")
}

// SetCookie sets a site-wide cookie readable from scripts. Attributes after the
// first ";" are ignored.
func (j *requestJar) SetCookie(cookie string) error {
	pair, _, _ := strings.Cut(cookie, ";")
	name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
	if !ok || name == "" {
		return fmt.Errorf("malformed cookie %q", cookie)
	}
	j.c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if _, ok := j.written[name]; !ok {
		j.order = append(j.order, name)
	}
	j.written[name] = value
	return nil
}
