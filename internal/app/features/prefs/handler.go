// internal/app/features/prefs/handler.go
package prefs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/limits"
	"github.com/dalemusser/coursehub/internal/app/system/navigation"
	uiprefs "github.com/dalemusser/coursehub/internal/app/system/prefs"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *uiprefs.Store
	ErrLog *errors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(store *uiprefs.Store, errLog *errors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: store, ErrLog: errLog, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /prefs – current preferences as JSON                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	p := h.Store.Read(r)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"sidebar_collapsed": p.SidebarCollapsed})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /prefs/sidebar – persist the sidebar state                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSidebar stores the "collapsed" form value. Without one the current
// state is flipped. htmx callers get 204; everyone else is redirected back.
func (h *Handler) HandleSidebar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxPrefsFormSize)
	if err := r.ParseForm(); err != nil {
		errors.Render(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	collapsed := !h.Store.Read(r).SidebarCollapsed
	if raw := strings.TrimSpace(r.PostFormValue("collapsed")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errors.Render(w, r, http.StatusBadRequest, "Bad request", "collapsed must be true or false.")
			return
		}
		collapsed = v
	}

	if err := h.Store.SetSidebarCollapsed(w, r, collapsed); err != nil {
		h.ErrLog.ServerError(w, r, err, "Could not save your preference.")
		return
	}
	h.Log.Debug("sidebar preference saved", zap.Bool("collapsed", collapsed))

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.PageBackURL), http.StatusSeeOther)
}
