package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpanel/src/handler"
	"stockpanel/src/repository"
	"stockpanel/src/supervisor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"
)

// Dependencies are the long-lived collaborators the routes are bound to.
type Dependencies struct {
	PublicDir             string
	StockStates           *repository.StockStateRepository
	Positions             *repository.PositionRepository
	Prices                repository.PriceReader
	Script                *supervisor.Supervisor
	OpenBlocksConcurrency int
}

var pages = map[string]string{
	"/":                      "index.html",
	"/scripts":               "scripts.html",
	"/stock-1d":              "stock-1d.html",
	"/stock-detail/{symbol}": "stock-detail.html",
	"/open-blocks":           "open-blocks.html",
}

func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()
	// === Global Middleware ===
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("healthcheck write failed")
		}
	})

	// Pages
	for path, file := range pages {
		r.Get(path, handler.PageHandler(deps.PublicDir, file))
	}

	// Script control
	r.Get("/run-stock-1d-scrap", handler.RunScriptHandler(deps.Script))
	r.Get("/stop-stock-1d-scrap", handler.StopScriptHandler(deps.Script))
	r.Get("/get-logs", handler.GetLogsHandler(deps.Script))
	r.Get("/script-status", handler.ScriptStatusHandler(deps.Script))
	r.Get("/ws/logs", handler.LogsWebSocketHandler(deps.Script))

	// Stock data
	r.Get("/get-stock-data", handler.GetStockDataHandler(deps.StockStates))
	r.Get("/get-open-blocks", handler.GetOpenBlocksHandler(deps.StockStates, deps.Prices, deps.OpenBlocksConcurrency))
	r.Get("/get-symbol-data/{symbol}", handler.GetSymbolDataHandler(deps.Positions))
	r.Get("/get-price-data/{symbol}", handler.GetPriceDataHandler(deps.Prices))
	r.Get("/get-stock-state/{idSymbol}", handler.GetStockStateHandler(deps.StockStates))
	r.Post("/add-transaction", handler.AddTransactionHandler(deps.Positions))
	r.Post("/update-stock-state", handler.UpdateStockStateHandler(deps.StockStates))

	r.NotFound(handler.StaticHandler(deps.PublicDir).ServeHTTP)

	return r
}

// StartServer serves h on port until SIGINT or SIGTERM, then shuts down
// gracefully.
func StartServer(config *Config, h http.Handler) error {
	addr := ":" + config.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		logger.WithError(err).Error("Server crashed")
		return err
	case <-stop:
	}

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
		return err
	}
	return nil
}
