package prefs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/features/prefs"
	uiprefs "github.com/dalemusser/coursehub/internal/app/system/prefs"
	"github.com/dalemusser/coursehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*prefs.Handler, *uiprefs.Store) {
	t.Helper()
	store, err := uiprefs.NewStore(uiprefs.Options{Key: "0123456789abcdef0123456789abcdef"}, zap.NewNop())
	require.NoError(t, err)
	return prefs.NewHandler(store, errors.NewErrorLogger(zap.NewNop()), zap.NewNop()), store
}

func replay(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestHandleSidebar_ExplicitValue(t *testing.T) {
	h, store := newHandler(t)

	req := testutil.HTMX(testutil.NewFormRequest("/prefs/sidebar", "collapsed=true"), "")
	rec := httptest.NewRecorder()
	h.HandleSidebar(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, store.Read(replay(rec)).SidebarCollapsed)
}

func TestHandleSidebar_TogglesWithoutValue(t *testing.T) {
	h, store := newHandler(t)

	rec := httptest.NewRecorder()
	h.HandleSidebar(rec, testutil.HTMX(testutil.NewFormRequest("/prefs/sidebar", ""), ""))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, store.Read(replay(rec)).SidebarCollapsed)

	second := testutil.HTMX(testutil.NewFormRequest("/prefs/sidebar", ""), "")
	for _, c := range rec.Result().Cookies() {
		second.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	h.HandleSidebar(rec2, second)
	assert.False(t, store.Read(replay(rec2)).SidebarCollapsed)
}

func TestHandleSidebar_RedirectsPlainPost(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.HandleSidebar(rec, testutil.NewFormRequest("/prefs/sidebar", "collapsed=false&return=/courses"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/courses", rec.Header().Get("Location"))
}

func TestHandleSidebar_IgnoresForeignReturn(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.HandleSidebar(rec, testutil.NewFormRequest("/prefs/sidebar", "return=https://evil.example/"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHandleSidebar_RejectsBadValue(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewFormRequest("/prefs/sidebar", "collapsed=maybe")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSidebar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeGet(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeGet(rec, testutil.NewRequest(http.MethodGet, "/prefs"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sidebar_collapsed":false}`, testutil.Body(rec))
}
