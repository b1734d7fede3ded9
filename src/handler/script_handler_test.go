package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stockpanel/src/supervisor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScriptHandler(t *testing.T) {
	script := &mockScript{info: supervisor.RunInfo{ID: "run-1"}}

	req := httptest.NewRequest(http.MethodGet, "/run-stock-1d-scrap", nil)
	rr := httptest.NewRecorder()
	RunScriptHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Stock 1D scrape script started.", rr.Body.String())
	assert.Equal(t, 1, script.startCalls)
}

func TestRunScriptHandler_AlreadyRunning(t *testing.T) {
	script := &mockScript{startErr: supervisor.ErrAlreadyRunning}

	req := httptest.NewRequest(http.MethodGet, "/run-stock-1d-scrap", nil)
	rr := httptest.NewRecorder()
	RunScriptHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Script is already running.", rr.Body.String())
}

func TestRunScriptHandler_SpawnFailure(t *testing.T) {
	script := &mockScript{startErr: assert.AnError}

	req := httptest.NewRequest(http.MethodGet, "/run-stock-1d-scrap", nil)
	rr := httptest.NewRecorder()
	RunScriptHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestStopScriptHandler(t *testing.T) {
	script := &mockScript{}

	req := httptest.NewRequest(http.MethodGet, "/stop-stock-1d-scrap", nil)
	rr := httptest.NewRecorder()
	StopScriptHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Script stopped.", rr.Body.String())
	assert.Equal(t, 1, script.stopCalls)
}

func TestStopScriptHandler_NotRunning(t *testing.T) {
	script := &mockScript{stopErr: supervisor.ErrNotRunning}

	req := httptest.NewRequest(http.MethodGet, "/stop-stock-1d-scrap", nil)
	rr := httptest.NewRecorder()
	StopScriptHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No script is running.", rr.Body.String())
}

func TestGetLogsHandler(t *testing.T) {
	script := &mockScript{logs: []string{"line 1", "Error: boom"}}

	req := httptest.NewRequest(http.MethodGet, "/get-logs", nil)
	rr := httptest.NewRecorder()
	GetLogsHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["line 1","Error: boom"]`, rr.Body.String())
}

func TestGetLogsHandler_RealSupervisorRightAfterStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiet.sh")
	require.NoError(t, os.WriteFile(path, []byte("exec sleep 5\n"), 0o644))

	s := supervisor.New(supervisor.Config{Interpreter: "/bin/sh", ScriptPath: path, LogCapacity: 100}, nil)
	t.Cleanup(s.Shutdown)

	_, err := s.Start()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/get-logs", nil)
	rr := httptest.NewRecorder()
	GetLogsHandler(s).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestScriptStatusHandler(t *testing.T) {
	startedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	script := &mockScript{status: supervisor.Status{Running: true, RunID: "run-1", StartedAt: &startedAt}}

	req := httptest.NewRequest(http.MethodGet, "/script-status", nil)
	rr := httptest.NewRecorder()
	ScriptStatusHandler(script).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"running":true,"runId":"run-1","startedAt":"2024-05-01T08:00:00Z"}`, rr.Body.String())
}
