package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicevault/internal/export"
	"github.com/MrJamesThe3rd/invoicevault/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the full record set as a file attachment. The xlsx
// ledger is the default; ?format=csv selects the flat export.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	stamp := time.Now().Format("20060102")

	if r.URL.Query().Get("format") == "csv" {
		var buf bytes.Buffer
		if err := h.svc.WriteCSVAll(r.Context(), &buf); err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=\"invoices_%s.csv\"", stamp))

		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write csv export", "error", err)
		}

		return
	}

	book, err := h.svc.WorkbookAll(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoices_%s.xlsx\"", stamp))

	if _, err := book.WriteTo(w); err != nil {
		slog.Error("failed to write workbook export", "error", err)
	}
}
