// The local binary is the single-admin InvoiceVault variant: records live
// in one JSON file on disk and the API is not gated.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicevault/internal/config"
	"github.com/MrJamesThe3rd/invoicevault/internal/export"
	vaultHttp "github.com/MrJamesThe3rd/invoicevault/internal/http"
	exportHandler "github.com/MrJamesThe3rd/invoicevault/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/invoicevault/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
	"github.com/MrJamesThe3rd/invoicevault/internal/invoice/filestore"
	"github.com/MrJamesThe3rd/invoicevault/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := filestore.New(cfg.Store.DataFile)
	if err != nil {
		slog.Error("failed to open data file", "error", err, "path", cfg.Store.DataFile)
		os.Exit(1)
	}

	var (
		invoiceService = invoice.NewService(store)
		exportService  = export.NewService(invoiceService)
	)

	var (
		invoiceH = invoiceHandler.NewHandler(invoiceService, "file", map[string]any{
			"dataFile": store.Path(),
		})
		exportH = exportHandler.NewHandler(exportService)
	)

	m := metrics.New("invoicevault-local")
	router := vaultHttp.New(invoiceH, exportH, nil, m)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "backend", "file", "dataFile", store.Path())

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
