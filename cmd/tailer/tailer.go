package tailer

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is used when no positive poll interval is configured.
const DefaultInterval = 2 * time.Second

type logSource interface {
	Logs(ctx context.Context) ([]string, error)
}

// Tailer polls a panel's log buffer and prints lines it has not seen yet.
type Tailer struct {
	Source   logSource
	Interval time.Duration
	Out      io.Writer
	Log      *logrus.Entry
}

func (t *Tailer) Start(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seen []string
	for {
		current, err := t.Source.Logs(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			t.Log.WithError(err).Warn("failed to poll logs")
		} else {
			for _, line := range NewLines(seen, current) {
				if _, err := fmt.Fprintln(t.Out, line); err != nil {
					return err
				}
			}
			seen = current
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// NewLines returns the tail of curr that follows the longest suffix of prev
// it starts with. The buffer is a sliding window, so lines evicted from the
// front of prev do not reappear in curr.
func NewLines(prev, curr []string) []string {
	limit := min(len(prev), len(curr))
	for k := limit; k > 0; k-- {
		if slices.Equal(prev[len(prev)-k:], curr[:k]) {
			return curr[k:]
		}
	}
	return curr
}
