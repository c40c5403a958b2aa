package services

import (
	"riskdesk/internal/core/access"
	"riskdesk/internal/core/domain"
)

const (
	loginTitle    = "Loan Risk AI - Secure Login"
	loginSubtitle = "Only authorized bank staff can access this dashboard"
)

// Shell is the frame drawn around every authenticated page
type Shell struct {
	Path     string         `json:"path"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Username string         `json:"username,omitempty"`
	Role     domain.Role    `json:"role,omitempty"`
	NavLinks []access.Route `json:"nav_links"`
}

// NewShell builds the page shell for a route. session may be nil.
func NewShell(session *domain.Session, path string) Shell {
	shell := Shell{
		Path:     access.Clean(path),
		NavLinks: access.NavLinks(session),
	}
	if shell.NavLinks == nil {
		shell.NavLinks = []access.Route{}
	}
	if route, ok := access.Lookup(path); ok {
		shell.Title = route.Title
		shell.Subtitle = route.Subtitle
	} else if shell.Path == access.RouteLogin {
		shell.Title = loginTitle
		shell.Subtitle = loginSubtitle
	}
	if session != nil {
		shell.Username = session.Username
		shell.Role = session.Role
	}
	return shell
}

// Page is the view model returned for every page
type Page struct {
	Shell Shell       `json:"shell"`
	View  interface{} `json:"view,omitempty"`
}
