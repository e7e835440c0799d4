package layout

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	defaultSiteName    = "Zenbild"
	defaultDescription = "Acompanhe e documente suas obras"
)

// PageMeta contains the metadata rendered into the document head
type PageMeta struct {
	Title        string
	Description  string
	CanonicalURL string
	SiteName     string

	// NoIndex keeps authenticated pages out of search engines
	NoIndex bool
}

// NewPageMeta creates a PageMeta with site-wide defaults.
// siteURL is the public base URL of the web app, e.g. "https://app.zenbild.com".
func NewPageMeta(c echo.Context, siteURL string) PageMeta {
	return PageMeta{
		Title:        defaultSiteName,
		Description:  defaultDescription,
		CanonicalURL: CanonicalURL(c, siteURL),
		SiteName:     defaultSiteName,
	}
}

// WithTitle sets the page title, suffixed with the site name
func (pm PageMeta) WithTitle(title string) PageMeta {
	if title != "" {
		pm.Title = fmt.Sprintf("%s | %s", title, pm.SiteName)
	}
	return pm
}

// Private marks the page as noindex
func (pm PageMeta) Private() PageMeta {
	pm.NoIndex = true
	return pm
}

// BuildAbsoluteURL converts a relative path to an absolute URL
func BuildAbsoluteURL(siteURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(siteURL, "/") + path
}

// CanonicalURL generates the canonical URL for the current request path
func CanonicalURL(c echo.Context, siteURL string) string {
	if c == nil {
		return strings.TrimSuffix(siteURL, "/") + "/"
	}
	return BuildAbsoluteURL(siteURL, c.Request().URL.Path)
}
