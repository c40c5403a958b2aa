// Package access decides which dashboard routes a client session may open.
package access

import (
	"strings"

	"riskdesk/internal/core/domain"
)

// Dashboard routes
const (
	RouteHome        = "/"
	RouteLogin       = "/login"
	RouteAnalytics   = "/analytics"
	RouteTopRisky    = "/toprisky"
	RouteNeedOfficer = "/need-officer"
	RouteHistory     = "/history"
)

// Decision is the outcome of an access check. Target is set only for redirects.
type Decision struct {
	Allow  bool
	Target string
}

// Allow grants access to the requested route
func Allow() Decision {
	return Decision{Allow: true}
}

// Redirect sends the client elsewhere
func Redirect(target string) Decision {
	return Decision{Target: target}
}

// IsRedirect reports whether the decision is a redirect
func (d Decision) IsRedirect() bool {
	return !d.Allow
}

// Route describes one authenticated dashboard page
type Route struct {
	Path      string `json:"path"`
	Label     string `json:"label"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	AdminOnly bool   `json:"-"`
}

// Routes lists the authenticated pages in navigation order
var Routes = []Route{
	{
		Path:     RouteHome,
		Label:    "Home",
		Title:    "Risk Operations Dashboard",
		Subtitle: "Monitor borrower quality, prioritize intervention, and reduce default exposure.",
	},
	{
		Path:      RouteAnalytics,
		Label:     "Analytics",
		Title:     "Analytics Overview",
		Subtitle:  "Portfolio-wide distribution, confidence quality, and risk concentration.",
		AdminOnly: true,
	},
	{
		Path:     RouteTopRisky,
		Label:    "Top Risky",
		Title:    "Top Risk Borrowers",
		Subtitle: "Highest-priority accounts requiring immediate financial risk review.",
	},
	{
		Path:     RouteNeedOfficer,
		Label:    "Need Officer",
		Title:    "Officer Review Queue",
		Subtitle: "Borrowers automatically flagged for manual case assessment.",
	},
	{
		Path:     RouteHistory,
		Label:    "History",
		Title:    "Borrower Risk History",
		Subtitle: "Track historical risk outcomes and intervention actions per borrower.",
	},
}

// Lookup returns the route definition for a path
func Lookup(path string) (Route, bool) {
	path = Clean(path)
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Clean trims trailing slashes so "/toprisky/" and "/toprisky" match
func Clean(path string) string {
	if path == "" {
		return RouteHome
	}
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return RouteHome
	}
	return trimmed
}

// CanAccess maps a session and a route to allow or redirect.
// session is nil when the client is not logged in.
func CanAccess(session *domain.Session, route string) Decision {
	route = Clean(route)
	authenticated := session.Complete()

	if route == RouteLogin {
		if authenticated {
			return Redirect(RouteHome)
		}
		return Allow()
	}

	if !authenticated {
		return Redirect(RouteLogin)
	}

	r, known := Lookup(route)
	if !known {
		return Redirect(RouteHome)
	}

	// Hard block: hiding the nav link is not enough.
	if r.AdminOnly && !session.Role.IsAdmin() {
		return Redirect(RouteHome)
	}

	return Allow()
}

// NavLinks returns the pages the session's role may navigate to
func NavLinks(session *domain.Session) []Route {
	if !session.Complete() {
		return nil
	}
	links := make([]Route, 0, len(Routes))
	for _, r := range Routes {
		if CanAccess(session, r.Path).Allow {
			links = append(links, r)
		}
	}
	return links
}
