package viewdata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/prefs"
)

func TestLastSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"/courses", "courses"},
		{"/courses/", "courses"},
		{"/a/b/contact", "contact"},
		{"/contact.html", "contact.html"},
	}
	for _, tt := range tests {
		if got := LastSegment(tt.in); got != tt.want {
			t.Errorf("LastSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNav_ExactlyOneActive(t *testing.T) {
	tests := []struct {
		path   string
		active string
	}{
		{"/", "Dashboard"},
		{"/dashboard", "Dashboard"},
		{"/courses", "Courses"},
		{"/contact", "Contact"},
		{"/index.html", "Dashboard"},
	}
	for _, tt := range tests {
		var active []string
		for _, l := range Nav(tt.path) {
			if l.Active {
				active = append(active, l.Label)
			}
		}
		if len(active) != 1 || active[0] != tt.active {
			t.Errorf("Nav(%q) active = %v, want [%s]", tt.path, active, tt.active)
		}
	}
}

func TestNav_UnknownPathHasNoActive(t *testing.T) {
	for _, l := range Nav("/health") {
		if l.Active {
			t.Errorf("link %s should not be active", l.Label)
		}
	}
}

func TestNewBaseVM(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/courses?q=go", nil)
	r = r.WithContext(prefs.WithPrefs(r.Context(), prefs.Prefs{SidebarCollapsed: true}))

	vm := NewBaseVM(r, "Courses", "/")
	if vm.Title != "Courses" {
		t.Errorf("Title: got %q", vm.Title)
	}
	if vm.SiteName == "" {
		t.Error("SiteName should default")
	}
	if !vm.SidebarCollapsed || vm.SidebarExpanded() != "false" {
		t.Errorf("expected collapsed sidebar, got %v / %s", vm.SidebarCollapsed, vm.SidebarExpanded())
	}
	if vm.LiveURL != "/live" {
		t.Errorf("LiveURL: got %q", vm.LiveURL)
	}
}
