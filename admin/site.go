// Package admin renders the server-side administration pages: the index,
// the user screens with masked password display, and read-only lists of
// recipes, steps and ingredients.
package admin

import "recipe-service/config"

// Site is the explicit configuration of the admin pages
type Site struct {
	Title      string
	Header     string
	IndexTitle string
	PageSize   int
}

// NewSite builds the admin site configuration from cfg
func NewSite(cfg *config.Config) Site {
	return Site{
		Title:      cfg.SiteTitle,
		Header:     cfg.SiteHeader,
		IndexTitle: cfg.SiteIndexTitle,
		PageSize:   cfg.AdminPageSize,
	}
}
