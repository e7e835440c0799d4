package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component and writes it to the response
func Render(c echo.Context, component templ.Component) error {
	return RenderStatus(c, http.StatusOK, component)
}

// RenderStatus renders a templ component with a non-200 status
func RenderStatus(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}
