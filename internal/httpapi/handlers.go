package httpapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-tugboat/pkg/page"
	"github.com/goliatone/go-tugboat/pkg/preview"
	"github.com/goliatone/go-tugboat/pkg/render"
)

const (
	msgInvalid      = "Please correct the errors below."
	msgCreateFailed = "The preview could not be created. Try again later."
)

type handler struct {
	svc          PreviewService
	pages        PageRenderer
	logger       logrus.FieldLogger
	now          func() time.Time
	themeName    string
	themeVariant string
	assets       fs.FS

	csrfKey       []byte
	secureCookies bool
	csrf          *csrfGuard
}

func (h *handler) showCreate(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, preview.FormRequest{})
}

func (h *handler) submitCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	sub := preview.SubmissionFromValues(r.PostForm)
	result, err := h.svc.Submit(r.Context(), sub)

	var verr *preview.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderPage(w, r, http.StatusUnprocessableEntity, preview.FormRequest{
			Values: sub.Values(),
			Errors: verr.Fields,
		}, page.Error(msgInvalid))
	case err != nil:
		h.entry(r).WithError(err).Error("create preview")
		h.renderPage(w, r, http.StatusBadGateway, preview.FormRequest{
			Values: sub.Values(),
		}, page.Error(msgCreateFailed))
	default:
		h.renderPage(w, r, http.StatusCreated, preview.FormRequest{}, page.Status(result.Message))
	}
}

type sweepResponse struct {
	Deleted []string `json:"deleted"`
	Error   string   `json:"error,omitempty"`
}

func (h *handler) sweep(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.Sweep(r.Context(), h.now())
	resp := sweepResponse{Deleted: deleted}
	if resp.Deleted == nil {
		resp.Deleted = []string{}
	}

	status := http.StatusOK
	if err != nil {
		h.entry(r).WithError(err).Error("sweep previews")
		resp.Error = err.Error()
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, req preview.FormRequest, messages ...page.Message) {
	req.ThemeName = h.themeName
	req.ThemeVariant = h.themeVariant

	token, err := h.csrf.issue(w, r)
	if err != nil {
		h.entry(r).WithError(err).Error("issue csrf token")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	req.HiddenFields = render.MergeHiddenFields(req.HiddenFields, render.CSRFToken(CSRFField, token))

	data, err := h.svc.CreateForm(r.Context(), req)
	if err != nil {
		h.entry(r).WithError(err).Error("build create form")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data.Messages = append(data.Messages, messages...)

	out, err := h.pages.Render(r.Context(), data)
	if err != nil {
		h.entry(r).WithError(err).Error("render create page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (h *handler) entry(r *http.Request) logrus.FieldLogger {
	return h.logger.WithField("request_id", middleware.GetReqID(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
