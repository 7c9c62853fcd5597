package uistate

import "github.com/dalemusser/coursehub/internal/domain/models"

// ModalKind is the content shown in the preview modal.
type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalCourse
	ModalDocument
)

// Modal is the preview modal state. Gen changes every time content is
// opened so a delayed auto-close can tell whether it still applies.
type Modal struct {
	Kind      ModalKind
	Course    models.Course
	Confirmed bool
	Gen       uint64
}

// IsOpen reports whether the modal is showing.
func (m Modal) IsOpen() bool { return m.Kind != ModalClosed }

// ScrollLocked reports whether page scrolling must be suppressed.
func (m Modal) ScrollLocked() bool { return m.IsOpen() }

// Modal returns the current modal state.
func (s *Store) Modal() Modal { return s.modal }

// OpenCourse shows the course preview for rec. If the modal is already open
// its content is replaced in place.
func (s *Store) OpenCourse(rec models.Course) Modal {
	s.modal = Modal{Kind: ModalCourse, Course: rec, Gen: s.nextGen()}
	s.notify(Change{Kind: ChangeModal})
	return s.modal
}

// OpenDocument shows the document preview for rec.
func (s *Store) OpenDocument(rec models.Course) Modal {
	s.modal = Modal{Kind: ModalDocument, Course: rec, Gen: s.nextGen()}
	s.notify(Change{Kind: ChangeModal})
	return s.modal
}

// ConfirmEnroll moves an open, unconfirmed course preview to its confirmed
// state. The caller schedules the auto-close against the returned Gen.
func (s *Store) ConfirmEnroll() (Modal, bool) {
	if s.modal.Kind != ModalCourse || s.modal.Confirmed {
		return s.modal, false
	}
	s.modal.Confirmed = true
	s.notify(Change{Kind: ChangeModal})
	return s.modal, true
}

// CloseModal hides the modal. It returns false if it was already closed.
func (s *Store) CloseModal() bool {
	if !s.modal.IsOpen() {
		return false
	}
	s.modal = Modal{Gen: s.nextGen()}
	s.notify(Change{Kind: ChangeModal})
	return true
}

// AutoCloseModal closes the modal only if it still shows the content that
// had generation gen.
func (s *Store) AutoCloseModal(gen uint64) bool {
	if !s.modal.IsOpen() || s.modal.Gen != gen {
		return false
	}
	return s.CloseModal()
}

// DocumentDownload handles Download PDF inside a document preview. When the
// record has a document its URL is returned for navigation and the modal
// stays open; otherwise the modal closes.
func (s *Store) DocumentDownload() (url string, navigate bool) {
	if s.modal.Kind != ModalDocument {
		return "", false
	}
	if s.modal.Course.HasDocument() {
		return s.modal.Course.DocumentURL, true
	}
	s.CloseModal()
	return "", false
}
