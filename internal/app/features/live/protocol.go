package live

import (
	"html/template"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/inputval"
)

// Event types sent by the page.
const (
	EvInit             = "init"              // Value: page query string
	EvSearch           = "search"            // Value: search box text
	EvFilter           = "filter"            // Value: category or "All"
	EvSort             = "sort"              // Value: recommended|az|za
	EvEnroll           = "enroll"            // ID: course key
	EvDownload         = "download"          // ID: course key
	EvConfirm          = "confirm"           // Confirm Enroll in the course preview
	EvClose            = "close"             // Close button in the modal
	EvBackdrop         = "backdrop"          // click outside the modal content
	EvDocumentDownload = "document_download" // Download PDF in the document preview
	EvContactSubmit    = "contact_submit"    // Form
	EvTileVisible      = "tile_visible"      // Tile, Target
	EvEnrollPopup      = "enroll_popup"
	EvPopupClose       = "popup_close"
	EvPopupBackdrop    = "popup_backdrop"
)

// Internal event types, posted by timers and background work.
const (
	evSearchFire     = "search_fire"
	evModalAutoClose = "modal_autoclose"
	evStatusClear    = "status_clear"
	evPopupHide      = "popup_hide"
	evCounterTick    = "counter_tick"
	evContactDone    = "contact_done"
)

// Event is one message from the page, or an internal message posted back
// into the session loop.
type Event struct {
	Type   string                 `json:"type"`
	Value  string                 `json:"value,omitempty"`
	ID     string                 `json:"id,omitempty"`
	Tile   string                 `json:"tile,omitempty"`
	Target string                 `json:"target,omitempty"`
	Form   *inputval.ContactInput `json:"form,omitempty"`

	// internal is set only by post; events decoded from the socket never
	// carry it, so they cannot impersonate timers or background work.
	internal bool
	gen      uint64
	seq      uint64
	num      int
	final    bool
	err      error
}

// pageEvents are the event types a page may send.
var pageEvents = map[string]bool{
	EvInit:             true,
	EvSearch:           true,
	EvFilter:           true,
	EvSort:             true,
	EvEnroll:           true,
	EvDownload:         true,
	EvConfirm:          true,
	EvClose:            true,
	EvBackdrop:         true,
	EvDocumentDownload: true,
	EvContactSubmit:    true,
	EvTileVisible:      true,
	EvEnrollPopup:      true,
	EvPopupClose:       true,
	EvPopupBackdrop:    true,
}

// metricLabel bounds the event label set to the known page events.
func metricLabel(typ string) string {
	if pageEvents[typ] {
		return typ
	}
	return "unknown"
}

// Frame types sent to the page.
const (
	FrSections   = "sections"
	FrModal      = "modal"
	FrNavigate   = "navigate"
	FrStatus     = "status"
	FrFormReset  = "form_reset"
	FrSubmitting = "submitting"
	FrTile       = "tile"
	FrPopup      = "popup"
	FrError      = "error"
)

// Frame is one update pushed to the page.
type Frame struct {
	Type string `json:"type"`

	HTML  template.HTML `json:"html,omitempty"`
	Count *int          `json:"count,omitempty"`
	Query *string       `json:"query,omitempty"`

	Open       *bool `json:"open,omitempty"`
	ScrollLock *bool `json:"scroll_lock,omitempty"`

	URL string `json:"url,omitempty"`

	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`

	Tile  string `json:"tile,omitempty"`
	Value *int   `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
	Final bool   `json:"final,omitempty"`

	Shown  *bool `json:"shown,omitempty"`
	Active *bool `json:"active,omitempty"`
}

func flag(b bool) *bool { return &b }
func num(n int) *int    { return &n }
func str(s string) *string {
	return &s
}

// Timing holds the session delays.
type Timing struct {
	Debounce        time.Duration
	ModalAutoClose  time.Duration
	StatusAutoClear time.Duration
	PopupAutoHide   time.Duration
	CounterDuration time.Duration
	CounterInterval time.Duration
}

// DefaultTiming returns the delays the page was designed around.
func DefaultTiming() Timing {
	return Timing{
		Debounce:        250 * time.Millisecond,
		ModalAutoClose:  1200 * time.Millisecond,
		StatusAutoClear: 5000 * time.Millisecond,
		PopupAutoHide:   3000 * time.Millisecond,
		CounterDuration: 1200 * time.Millisecond,
		CounterInterval: 50 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Debounce <= 0 {
		t.Debounce = d.Debounce
	}
	if t.ModalAutoClose <= 0 {
		t.ModalAutoClose = d.ModalAutoClose
	}
	if t.StatusAutoClear <= 0 {
		t.StatusAutoClear = d.StatusAutoClear
	}
	if t.PopupAutoHide <= 0 {
		t.PopupAutoHide = d.PopupAutoHide
	}
	if t.CounterDuration <= 0 {
		t.CounterDuration = d.CounterDuration
	}
	if t.CounterInterval <= 0 {
		t.CounterInterval = d.CounterInterval
	}
	return t
}
