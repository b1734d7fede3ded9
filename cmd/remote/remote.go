package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"stockpanel/src/connectors"
	"stockpanel/src/supervisor"
)

type panel interface {
	StartScrape(ctx context.Context) (string, error)
	StopScrape(ctx context.Context) (string, error)
	Status(ctx context.Context) (*supervisor.Status, error)
}

// Remote drives the scrape script of a running panel.
type Remote struct {
	Panel panel
	Out   io.Writer
}

// Start asks the panel to launch the script. A conflict is printed and
// returned so the command exits non-zero.
func (r *Remote) Start(ctx context.Context) error {
	return r.command(r.Panel.StartScrape(ctx))
}

func (r *Remote) Stop(ctx context.Context) error {
	return r.command(r.Panel.StopScrape(ctx))
}

func (r *Remote) command(msg string, err error) error {
	var conflict *connectors.ErrConflict
	if errors.As(err, &conflict) {
		_, _ = fmt.Fprintln(r.Out, conflict.Message)
		return err
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Out, msg)
	return err
}

func (r *Remote) Status(ctx context.Context) error {
	status, err := r.Panel.Status(ctx)
	if err != nil {
		return err
	}
	if !status.Running || status.StartedAt == nil {
		_, err = fmt.Fprintln(r.Out, "idle")
		return err
	}
	_, err = fmt.Fprintf(r.Out, "running %s since %s\n", status.RunID, status.StartedAt.Format(time.RFC3339))
	return err
}
