package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockpanel/src/controller"
	"stockpanel/src/model"
	"stockpanel/src/repository"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

type stockStateLister interface {
	ListWithSymbols(ctx context.Context) ([]model.StockStateRow, error)
}

type openStateLister interface {
	ListOpen(ctx context.Context) ([]model.OpenStateRow, error)
}

type stockStateFinder interface {
	FindBySymbolID(ctx context.Context, symbolID uint) (*model.StockState, error)
}

type stockStateUpdater interface {
	ApplyUpdate(ctx context.Context, p model.UpdateStockStatePayload) (*model.StockState, error)
}

type positionLister interface {
	ListBySymbol(ctx context.Context, symbol string) ([]model.StockPosition, error)
}

type positionCreator interface {
	Create(ctx context.Context, position *model.StockPosition) error
}

type priceReader interface {
	Latest(ctx context.Context, symbol string) (*model.PriceSample, error)
}

// GetStockDataHandler lists every symbol joined with its state row.
func GetStockDataHandler(repo stockStateLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.ListWithSymbols(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to fetch stock data")
			writeError(w, http.StatusInternalServerError, "failed to fetch stock data")
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// GetOpenBlocksHandler lists open positions enriched with their latest price.
func GetOpenBlocksHandler(repo openStateLister, prices priceReader, concurrency int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.ListOpen(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to fetch open blocks")
			writeError(w, http.StatusInternalServerError, "failed to fetch open blocks")
			return
		}

		blocks, err := controller.BuildOpenBlocks(r.Context(), rows, prices, time.Now(), concurrency)
		if err != nil {
			logger.WithError(err).Error("failed to process open blocks")
			writeError(w, http.StatusInternalServerError, "failed to process open blocks")
			return
		}
		writeJSON(w, http.StatusOK, blocks)
	}
}

// GetSymbolDataHandler returns the transaction history of one symbol.
func GetSymbolDataHandler(repo positionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		positions, err := repo.ListBySymbol(r.Context(), symbol)
		if err != nil {
			logger.WithError(err).WithField("symbol", symbol).Error("failed to fetch symbol data")
			writeError(w, http.StatusInternalServerError, "failed to fetch symbol data")
			return
		}
		writeJSON(w, http.StatusOK, positions)
	}
}

// GetPriceDataHandler returns the latest price sample of a symbol as an array
// with zero or one element.
func GetPriceDataHandler(prices priceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		sample, err := prices.Latest(r.Context(), symbol)
		if err != nil {
			logger.WithError(err).WithField("symbol", symbol).Error("failed to fetch price")
			writeError(w, http.StatusInternalServerError, "failed to fetch price")
			return
		}

		samples := []model.PriceSample{}
		if sample != nil {
			samples = append(samples, *sample)
		}
		writeJSON(w, http.StatusOK, samples)
	}
}

func GetStockStateHandler(repo stockStateFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "idSymbol"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid idSymbol")
			return
		}

		state, err := repo.FindBySymbolID(r.Context(), uint(id))
		if errors.Is(err, repository.ErrStateNotFound) {
			writeError(w, http.StatusNotFound, "stock state not found")
			return
		}
		if err != nil {
			logger.WithError(err).WithField("idSymbol", id).Error("failed to fetch stock state")
			writeError(w, http.StatusInternalServerError, "failed to fetch stock state")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// AddTransactionHandler records a buy or sell transaction.
func AddTransactionHandler(repo positionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.AddTransactionPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid transaction payload")
			writeFailure(w, http.StatusBadRequest, "invalid payload")
			return
		}
		payload.Type = strings.TrimSpace(payload.Type)

		position := payload.ToPosition()
		if err := repo.Create(r.Context(), position); err != nil {
			logger.WithError(err).WithField("idSymbol", payload.IDSymbol).Error("failed to add transaction")
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, mutationResult{Success: true, Transaction: position})
	}
}

// UpdateStockStateHandler applies an update to the state row of a symbol.
func UpdateStockStateHandler(repo stockStateUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.UpdateStockStatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid stock state payload")
			writeFailure(w, http.StatusBadRequest, "invalid payload")
			return
		}

		state, err := repo.ApplyUpdate(r.Context(), payload)
		if errors.Is(err, repository.ErrStateNotFound) {
			writeFailure(w, http.StatusNotFound, "stock state not found")
			return
		}
		if err != nil {
			logger.WithError(err).WithField("idSymbol", payload.IDSymbol).Error("failed to update stock state")
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, mutationResult{Success: true, State: state})
	}
}
