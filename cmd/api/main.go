// The api binary is the hosted InvoiceVault variant: records live in a
// MongoDB collection and every route sits behind the cookie login gate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicevault/internal/config"
	"github.com/MrJamesThe3rd/invoicevault/internal/database"
	"github.com/MrJamesThe3rd/invoicevault/internal/export"
	vaultHttp "github.com/MrJamesThe3rd/invoicevault/internal/http"
	authHandler "github.com/MrJamesThe3rd/invoicevault/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/invoicevault/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/invoicevault/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
	"github.com/MrJamesThe3rd/invoicevault/internal/invoice/mongostore"
	"github.com/MrJamesThe3rd/invoicevault/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := database.New(cfg.Mongo.URI)
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	var (
		invoiceService = invoice.NewService(mongostore.New(coll))
		exportService  = export.NewService(invoiceService)
		sessions       = authHandler.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	)

	var (
		invoiceH = invoiceHandler.NewHandler(invoiceService, "mongodb", map[string]any{
			"database": cfg.Mongo.Database,
		})
		exportH = exportHandler.NewHandler(exportService)
		authH   = authHandler.NewHandler(cfg.Auth.Username, cfg.Auth.Password, sessions)
	)

	m := metrics.New("invoicevault-api")
	router := vaultHttp.New(invoiceH, exportH, authH, m)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "backend", "mongodb")

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
