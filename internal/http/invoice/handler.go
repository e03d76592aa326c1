package invoice

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicevault/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
)

type Handler struct {
	svc      *invoice.Service
	backend  string
	extra    map[string]any
	instance string
}

// NewHandler wires the invoice routes for one backend variant. The backend
// name and extra entries surface in the health payload.
func NewHandler(svc *invoice.Service, backend string, extra map[string]any) *Handler {
	return &Handler{
		svc:      svc,
		backend:  backend,
		extra:    extra,
		instance: uuid.NewString(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if records == nil {
		records = []*invoice.Invoice{}
	}

	respond.JSON(w, http.StatusOK, records)
}

type createResponse struct {
	OK     bool `json:"ok"`
	Exists bool `json:"exists,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req invoice.Invoice
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	_, created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, invoice.ErrMissingID) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		respond.Error(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.JSON(w, http.StatusOK, createResponse{OK: true, Exists: !created})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch invoice.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	merged, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "invoice not found")
			return
		}

		respond.Error(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.JSON(w, http.StatusOK, merged)
}

// delete is idempotent: removing an unknown id still reports ok.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Count(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	body := map[string]any{
		"status":       "ok",
		"invoiceCount": count,
		"time":         time.Now().UTC().Format(time.RFC3339),
		"backend":      h.backend,
		"instance":     h.instance,
	}

	for k, v := range h.extra {
		body[k] = v
	}

	respond.JSON(w, http.StatusOK, body)
}
