// internal/app/features/contact/handler.go
package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/contactsvc"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/limits"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/statusmsg"
	"github.com/dalemusser/coursehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the contact page and relays submissions.
type Handler struct {
	Service *contactsvc.Service
	Log     *zap.Logger
}

func NewHandler(svc *contactsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Service: svc,
		Log:     logger,
	}
}

type statusData struct {
	Message string
	Kind    string
}

type pageData struct {
	viewdata.BaseVM
	Form   inputval.ContactInput
	Status statusData
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /contact – form                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Contact", "/"),
	}
	templates.Render(w, r, "contact", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /contact – form submission                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxContactFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	in := inputval.ContactInput{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Contact: r.PostFormValue("contact"),
		Message: r.PostFormValue("message"),
	}

	err := h.Service.Submit(r.Context(), in, ratelimit.ClientIP(r))
	msg := statusmsg.For(err)
	status := statusData{Message: msg.Text, Kind: string(msg.Kind)}

	// htmx swaps only the status line; on success the page clears the form.
	if r.Header.Get("HX-Request") != "" {
		if err == nil {
			w.Header().Set("HX-Trigger", "contact-sent")
		}
		templates.RenderSnippet(w, "status_line", status)
		return
	}

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Contact", "/"),
		Status: status,
	}
	if err != nil {
		// Keep what the visitor typed so they can retry.
		data.Form = in.Trimmed()
	}
	w.WriteHeader(httpStatus(err))
	templates.Render(w, r, "contact", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/contact – JSON submission                                         |
*─────────────────────────────────────────────────────────────────────────────*/

type apiRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

type apiResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func (h *Handler) HandleAPI(w http.ResponseWriter, r *http.Request) {
	var req apiRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxContactFormSize))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid JSON body", Kind: "error"})
		return
	}

	err := h.Service.Submit(r.Context(), inputval.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Contact: req.Contact,
		Message: req.Message,
	}, ratelimit.ClientIP(r))

	msg := statusmsg.For(err)
	writeJSON(w, httpStatus(err), apiResponse{
		OK:      err == nil,
		Message: msg.Text,
		Kind:    string(msg.Kind),
	})
}

// httpStatus maps a submission outcome to a response code.
func httpStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, inputval.ErrMissingFields), errors.Is(err, inputval.ErrInvalidEmail):
		return http.StatusUnprocessableEntity
	case errors.Is(err, statusmsg.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, contactrelay.ErrRejected), errors.Is(err, contactrelay.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, contactrelay.ErrNoEndpoint):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
