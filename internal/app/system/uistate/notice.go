package uistate

// StatusKind colors the contact form status line.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the contact form status line.
type Status struct {
	Message string
	Kind    StatusKind
	Gen     uint64
}

// Visible reports whether there is a message to show.
func (st Status) Visible() bool { return st.Message != "" }

// Popup is the dashboard enroll popup.
type Popup struct {
	Shown bool
	Gen   uint64
}

// Status returns the current status line.
func (s *Store) Status() Status { return s.status }

// ShowStatus replaces the status line. The returned Gen identifies this
// message for ClearStatus.
func (s *Store) ShowStatus(msg string, kind StatusKind) Status {
	s.status = Status{Message: msg, Kind: kind, Gen: s.nextGen()}
	s.notify(Change{Kind: ChangeStatus})
	return s.status
}

// ClearStatus empties the status line if it still holds message gen. A
// clear scheduled for an older message is ignored.
func (s *Store) ClearStatus(gen uint64) bool {
	if !s.status.Visible() || s.status.Gen != gen {
		return false
	}
	s.status = Status{Gen: s.nextGen()}
	s.notify(Change{Kind: ChangeStatus})
	return true
}

// Popup returns the popup state.
func (s *Store) Popup() Popup { return s.popup }

// ShowPopup shows the enroll popup, restarting its auto-hide generation.
func (s *Store) ShowPopup() Popup {
	s.popup = Popup{Shown: true, Gen: s.nextGen()}
	s.notify(Change{Kind: ChangePopup})
	return s.popup
}

// HidePopup hides the popup if it is still showing generation gen.
func (s *Store) HidePopup(gen uint64) bool {
	if !s.popup.Shown || s.popup.Gen != gen {
		return false
	}
	return s.ClosePopup()
}

// ClosePopup hides the popup regardless of generation.
func (s *Store) ClosePopup() bool {
	if !s.popup.Shown {
		return false
	}
	s.popup = Popup{Gen: s.nextGen()}
	s.notify(Change{Kind: ChangePopup})
	return true
}
