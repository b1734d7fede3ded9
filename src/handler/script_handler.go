package handler

import (
	"errors"
	"net/http"

	"stockpanel/src/supervisor"

	logger "github.com/sirupsen/logrus"
)

type scriptRunner interface {
	Start() (supervisor.RunInfo, error)
	Stop() error
}

type scriptObserver interface {
	Logs() []string
	Status() supervisor.Status
}

// RunScriptHandler starts the 1D scrape script; 400 when it already runs.
func RunScriptHandler(runner scriptRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := runner.Start()
		if errors.Is(err, supervisor.ErrAlreadyRunning) {
			writeText(w, http.StatusBadRequest, "Script is already running.")
			return
		}
		if err != nil {
			logger.WithError(err).Error("failed to start script")
			writeError(w, http.StatusInternalServerError, "failed to start script")
			return
		}

		logger.WithField("runId", info.ID).Info("Stock 1D scrape requested")
		writeText(w, http.StatusOK, "Stock 1D scrape script started.")
	}
}

// StopScriptHandler interrupts the running script; 400 when none runs.
func StopScriptHandler(runner scriptRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := runner.Stop(); err != nil {
			if errors.Is(err, supervisor.ErrNotRunning) {
				writeText(w, http.StatusBadRequest, "No script is running.")
				return
			}
			logger.WithError(err).Error("failed to stop script")
			writeError(w, http.StatusInternalServerError, "failed to stop script")
			return
		}
		writeText(w, http.StatusOK, "Script stopped.")
	}
}

func GetLogsHandler(observer scriptObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, observer.Logs())
	}
}

func ScriptStatusHandler(observer scriptObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, observer.Status())
	}
}
