package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stockpanel/src/supervisor"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 4 * time.Second
)

// ErrConflict is returned when the panel refuses to start or stop the script
// because it is already in the requested state.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return "panel conflict: " + e.Message
}

// PanelClient talks to a running stock panel server over HTTP.
type PanelClient struct {
	baseURL string
	http    *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == http.StatusTooManyRequests {
		return true
	}
	if code == http.StatusRequestTimeout {
		return true
	}
	return false
}

func NewPanelClient(baseURL string, timeout time.Duration) *PanelClient {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
		logger.Warnf("No panel URL provided, using default: %s", baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &PanelClient{
		baseURL: baseURL,
		http:    httpClient,
	}
}

func (c *PanelClient) get(ctx context.Context, path string) ([]byte, int, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp.Body(), resp.StatusCode(), nil
}

// Logs returns the script log lines currently buffered by the panel.
func (c *PanelClient) Logs(ctx context.Context) ([]string, error) {
	raw, code, err := c.get(ctx, "/get-logs")
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", code, string(raw))
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	return lines, nil
}

func (c *PanelClient) Status(ctx context.Context) (*supervisor.Status, error) {
	raw, code, err := c.get(ctx, "/script-status")
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", code, string(raw))
	}

	var status supervisor.Status
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

// StartScrape asks the panel to launch the scrape script.
func (c *PanelClient) StartScrape(ctx context.Context) (string, error) {
	return c.command(ctx, "/run-stock-1d-scrap")
}

// StopScrape asks the panel to interrupt the scrape script.
func (c *PanelClient) StopScrape(ctx context.Context) (string, error) {
	return c.command(ctx, "/stop-stock-1d-scrap")
}

func (c *PanelClient) command(ctx context.Context, path string) (string, error) {
	raw, code, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	switch code {
	case http.StatusOK:
		return string(raw), nil
	case http.StatusBadRequest:
		return "", &ErrConflict{Message: string(raw)}
	default:
		return "", fmt.Errorf("HTTP %d: %s", code, string(raw))
	}
}
