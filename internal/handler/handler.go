package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// requestOrigin is the public origin links are built against. BASE_URL wins
// over the Host header when the service sits behind a proxy.
func requestOrigin(c echo.Context, baseURL string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/")
	}
	return c.Scheme() + "://" + c.Request().Host
}
