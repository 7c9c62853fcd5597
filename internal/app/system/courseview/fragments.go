package courseview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/uistate"
	"github.com/dalemusser/coursehub/internal/domain/models"
)

//go:embed templates/*.gohtml
var fragmentFS embed.FS

// Renderer executes the catalog fragments. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded fragment templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("courseview").ParseFS(fragmentFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse course fragments: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// MustRenderer is NewRenderer for package-level initialization.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Sections renders the section containers and their cards.
func (r *Renderer) Sections(sections []Section) (template.HTML, error) {
	return r.execute("course_sections", sections)
}

// ModalView is the data of the modal content fragment.
type ModalView struct {
	Kind      string // "course" or "document"
	Course    models.Course
	ImageURL  string
	Details   template.HTML
	Confirmed bool
}

// NewModalView prepares m for rendering. Details markdown is converted to
// sanitized HTML.
func NewModalView(m uistate.Modal) (ModalView, error) {
	v := ModalView{Course: m.Course, Confirmed: m.Confirmed}
	switch m.Kind {
	case uistate.ModalCourse:
		v.Kind = "course"
	case uistate.ModalDocument:
		v.Kind = "document"
	default:
		return v, nil
	}
	v.ImageURL = NewCard(m.Course).ImageURL
	details, err := htmlsanitize.Markdown(m.Course.Details)
	if err != nil {
		return v, fmt.Errorf("render details for %s: %w", m.Course.Key, err)
	}
	v.Details = details
	return v, nil
}

// Modal renders the modal content for m. A closed modal renders as "".
func (r *Renderer) Modal(m uistate.Modal) (template.HTML, error) {
	if !m.IsOpen() {
		return "", nil
	}
	v, err := NewModalView(m)
	if err != nil {
		return "", err
	}
	return r.execute("course_modal", v)
}
