// Package app assembles the long-lived components of the stock panel server.
package app

import (
	"context"
	"fmt"

	"stockpanel/src/cache"
	"stockpanel/src/controller"
	"stockpanel/src/database"
	"stockpanel/src/repository"
	"stockpanel/src/server"
	"stockpanel/src/supervisor"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// ConfigureEncoding sets process-wide encoding options. Prices and amounts
// are rendered as JSON numbers, not strings. Call it once before serving.
func ConfigureEncoding() {
	decimal.MarshalJSONWithoutQuotes = true
}

// App owns everything that must be released on shutdown.
type App struct {
	Router *chi.Mux
	Script *supervisor.Supervisor

	serverConfig *server.Config
	redis        *cache.Client
}

// New connects both databases, the optional price cache, and builds the
// router around a single script supervisor.
func New(ctx context.Context) (*App, error) {
	log := logger.WithField("component", "app")

	if err := database.InitMainDB(); err != nil {
		return nil, err
	}
	if err := database.InitReadOnlyDB(); err != nil {
		database.Close()
		return nil, err
	}

	a := &App{
		Script:       supervisor.New(supervisor.GetConfig(), nil),
		serverConfig: server.GetConfig(),
	}

	var prices repository.PriceReader = repository.NewPriceRepository()

	cacheConfig := cache.GetConfig()
	if cacheConfig.Enabled() {
		client, err := cache.New(ctx, cacheConfig)
		if err != nil {
			log.WithError(err).Warn("price cache unavailable, continuing without it")
		} else {
			a.redis = client
			prices = repository.NewCachedPriceRepository(prices, cache.NewPriceCache(client, cacheConfig.PriceCacheTTL))
			log.WithField("addr", cacheConfig.Addr).Info("price cache enabled")
		}
	}

	a.Router = server.NewRouter(server.Dependencies{
		PublicDir:             a.serverConfig.PublicDir,
		StockStates:           repository.NewStockStateRepository(),
		Positions:             repository.NewPositionRepository(),
		Prices:                prices,
		Script:                a.Script,
		OpenBlocksConcurrency: controller.GetConfig().OpenBlocksConcurrency,
	})

	return a, nil
}

// Run serves HTTP until the process is asked to stop.
func (a *App) Run() error {
	if err := server.StartServer(a.serverConfig, a.Router); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Close interrupts a running script and releases connections.
func (a *App) Close() {
	a.Script.Shutdown()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis client")
		}
	}
	database.Close()
}
