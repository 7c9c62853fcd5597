package uistate_test

import (
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/courseq"
	"github.com/dalemusser/coursehub/internal/app/system/uistate"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	react   = models.Course{Key: "react", Title: "React", Category: models.CategoryFrontend}
	roadmap = models.Course{Key: "roadmap-frontend", Title: "Frontend Roadmap", Category: models.CategoryRoadmap, DocumentURL: "roadmaps/frontend.pdf"}
	nodoc   = models.Course{Key: "roadmap-x", Title: "X Roadmap", Category: models.CategoryRoadmap}
)

func record(s *uistate.Store) *[]uistate.ChangeKind {
	var got []uistate.ChangeKind
	s.Subscribe(func(c uistate.Change) { got = append(got, c.Kind) })
	return &got
}

func TestNew_InitialState(t *testing.T) {
	s := uistate.New()
	assert.Equal(t, courseq.DefaultState(), s.Query())
	assert.False(t, s.Modal().IsOpen())
	assert.False(t, s.Status().Visible())
	assert.False(t, s.Popup().Shown)
	assert.False(t, s.Submitting())
}

func TestQueryTransitions(t *testing.T) {
	s := uistate.New()
	changes := record(s)

	s.SetFreeText("react")
	s.SetCategory(models.CategoryFrontend)
	s.SetSort("za")

	assert.Equal(t, courseq.State{FreeText: "react", Category: models.CategoryFrontend, Sort: courseq.SortZA}, s.Query())
	assert.Equal(t, []uistate.ChangeKind{uistate.ChangeQuery, uistate.ChangeQuery, uistate.ChangeQuery}, *changes)

	s.SetCategory("nope")
	assert.Equal(t, models.CategoryAll, s.Query().Category, "exactly one filter is active and unknown means All")

	s.SetQuery(courseq.State{FreeText: "x", Category: "bad", Sort: "bad"})
	assert.Equal(t, courseq.State{FreeText: "x", Category: models.CategoryAll, Sort: courseq.SortRecommended}, s.Query())
}

func TestModal_OpenReplaceClose(t *testing.T) {
	s := uistate.New()
	changes := record(s)

	m1 := s.OpenCourse(react)
	require.True(t, m1.IsOpen())
	assert.True(t, m1.ScrollLocked())
	assert.Equal(t, uistate.ModalCourse, m1.Kind)

	m2 := s.OpenDocument(roadmap)
	assert.Equal(t, uistate.ModalDocument, m2.Kind)
	assert.NotEqual(t, m1.Gen, m2.Gen, "replacing content starts a new generation")
	assert.True(t, s.Modal().IsOpen(), "replace never passes through Closed")

	assert.True(t, s.CloseModal())
	assert.False(t, s.Modal().ScrollLocked())
	assert.False(t, s.CloseModal(), "closing a closed modal is a no-op")

	assert.Equal(t, []uistate.ChangeKind{uistate.ChangeModal, uistate.ChangeModal, uistate.ChangeModal}, *changes)
}

func TestModal_ConfirmEnroll(t *testing.T) {
	s := uistate.New()

	_, ok := s.ConfirmEnroll()
	assert.False(t, ok, "nothing to confirm while closed")

	s.OpenDocument(roadmap)
	_, ok = s.ConfirmEnroll()
	assert.False(t, ok, "document preview has no enroll")

	s.OpenCourse(react)
	m, ok := s.ConfirmEnroll()
	require.True(t, ok)
	assert.True(t, m.Confirmed)

	_, ok = s.ConfirmEnroll()
	assert.False(t, ok, "confirm is disabled once enrolled")
}

func TestModal_StaleAutoCloseIgnored(t *testing.T) {
	s := uistate.New()

	s.OpenCourse(react)
	m, ok := s.ConfirmEnroll()
	require.True(t, ok)

	// The user opens another preview before the auto-close fires.
	s.OpenCourse(roadmap)
	assert.False(t, s.AutoCloseModal(m.Gen))
	assert.True(t, s.Modal().IsOpen())

	// Closing and reopening also invalidates the old generation.
	current := s.Modal()
	s.CloseModal()
	s.OpenCourse(react)
	assert.False(t, s.AutoCloseModal(current.Gen))

	assert.True(t, s.AutoCloseModal(s.Modal().Gen))
	assert.False(t, s.Modal().IsOpen())
}

func TestModal_DocumentDownload(t *testing.T) {
	s := uistate.New()

	s.OpenDocument(roadmap)
	url, nav := s.DocumentDownload()
	assert.True(t, nav)
	assert.Equal(t, "roadmaps/frontend.pdf", url)
	assert.True(t, s.Modal().IsOpen())

	s.OpenDocument(nodoc)
	url, nav = s.DocumentDownload()
	assert.False(t, nav)
	assert.Empty(t, url)
	assert.False(t, s.Modal().IsOpen(), "no document means the modal just closes")
}

func TestStatus_StaleClearIgnored(t *testing.T) {
	s := uistate.New()

	first := s.ShowStatus("⚠️ Please fill in all required fields.", uistate.StatusError)
	second := s.ShowStatus("✅ Message sent successfully!", uistate.StatusSuccess)

	assert.False(t, s.ClearStatus(first.Gen), "old timer must not erase the newer message")
	assert.Equal(t, "✅ Message sent successfully!", s.Status().Message)

	assert.True(t, s.ClearStatus(second.Gen))
	assert.False(t, s.Status().Visible())
	assert.False(t, s.ClearStatus(second.Gen))
}

func TestPopup(t *testing.T) {
	s := uistate.New()

	p1 := s.ShowPopup()
	p2 := s.ShowPopup()
	assert.False(t, s.HidePopup(p1.Gen), "auto-hide from the first click is stale")
	assert.True(t, s.Popup().Shown)

	assert.True(t, s.HidePopup(p2.Gen))
	assert.False(t, s.ClosePopup())

	s.ShowPopup()
	assert.True(t, s.ClosePopup())
}

func TestSubmitGuard(t *testing.T) {
	s := uistate.New()
	assert.True(t, s.BeginSubmit())
	assert.False(t, s.BeginSubmit(), "second submit while in flight is ignored")
	s.EndSubmit()
	assert.False(t, s.Submitting())
	assert.True(t, s.BeginSubmit())
}

func TestTilesAnimateOnce(t *testing.T) {
	s := uistate.New()
	var tiles []string
	s.Subscribe(func(c uistate.Change) {
		if c.Kind == uistate.ChangeTile {
			tiles = append(tiles, c.Tile)
		}
	})

	assert.True(t, s.MarkTileAnimated("courses"))
	assert.False(t, s.MarkTileAnimated("courses"))
	assert.True(t, s.MarkTileAnimated("roadmaps"))
	assert.True(t, s.TileAnimated("courses"))
	assert.False(t, s.TileAnimated("messages"))
	assert.Equal(t, []string{"courses", "roadmaps"}, tiles)
}

func TestUnsubscribe(t *testing.T) {
	s := uistate.New()
	n := 0
	stop := s.Subscribe(func(uistate.Change) { n++ })
	s.SetFreeText("a")
	stop()
	s.SetFreeText("b")
	assert.Equal(t, 1, n)
}
