// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"strings"

	"github.com/dalemusser/coursehub/internal/app/system/prefs"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// NavLink is one entry of the sidebar navigation.
type NavLink struct {
	Label  string
	Href   string
	Icon   string
	Active bool

	// segments are the last path segments that mark this link active.
	segments []string
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	NavLinks    []NavLink

	// Sidebar preference (from the prefs cookie)
	SidebarCollapsed bool

	// Live session endpoint for pages that open a websocket.
	LiveURL string

	// CSRF protection
	CSRFToken string
}

// SidebarExpanded is the aria-expanded value for the sidebar toggle.
func (vm BaseVM) SidebarExpanded() string {
	if vm.SidebarCollapsed {
		return "false"
	}
	return "true"
}

var siteName = models.DefaultSiteName

// Init sets the site name shown in page titles and the sidebar header.
// Call this once at startup from bootstrap.
func Init(name string) {
	if strings.TrimSpace(name) != "" {
		siteName = name
	}
}

// SiteName returns the configured site name.
func SiteName() string { return siteName }

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	current := httpnav.CurrentPath(r)
	return BaseVM{
		SiteName:         siteName,
		Title:            title,
		BackURL:          httpnav.ResolveBackURL(r, backDefault),
		CurrentPath:      current,
		NavLinks:         Nav(r.URL.Path),
		SidebarCollapsed: prefs.FromRequest(r).SidebarCollapsed,
		LiveURL:          "/live",
		CSRFToken:        csrf.Token(r),
	}
}

// Nav returns the sidebar links with Active set for urlPath.
func Nav(urlPath string) []NavLink {
	links := []NavLink{
		{Label: "Dashboard", Href: "/", Icon: "home", segments: []string{"", "dashboard", "index.html"}},
		{Label: "Courses", Href: "/courses", Icon: "book", segments: []string{"courses", "courses.html"}},
		{Label: "Contact", Href: "/contact", Icon: "mail", segments: []string{"contact", "contact.html"}},
	}
	seg := LastSegment(urlPath)
	for i := range links {
		for _, s := range links[i].segments {
			if s == seg {
				links[i].Active = true
				break
			}
		}
	}
	return links
}

// LastSegment returns the final path segment of urlPath, ignoring a
// trailing slash. "/" and "" yield "".
func LastSegment(urlPath string) string {
	p := strings.TrimRight(urlPath, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}
