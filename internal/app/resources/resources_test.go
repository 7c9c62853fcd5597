package resources

import (
	"html/template"
	"strings"
	"testing"
)

func TestSharedTemplatesParse(t *testing.T) {
	tmpl, err := template.ParseFS(FS, "templates/*.gohtml")
	if err != nil {
		t.Fatalf("parse shared templates: %v", err)
	}
	for _, name := range []string{"layout_head", "layout_foot", "status_line"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("missing template %q", name)
		}
	}
}

func TestStatusLine(t *testing.T) {
	tmpl := template.Must(template.ParseFS(FS, "templates/*.gohtml"))
	var sb strings.Builder
	err := tmpl.ExecuteTemplate(&sb, "status_line", struct{ Message, Kind string }{"✅ Message sent successfully!", "success"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(sb.String(), `class="form-status success"`) {
		t.Errorf("unexpected status line: %s", sb.String())
	}
}
