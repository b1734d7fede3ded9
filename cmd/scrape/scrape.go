package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"stockpanel/src/supervisor"

	"github.com/sirupsen/logrus"
)

// Scrape runs the scrape script once in the foreground and prints its log
// entries as they arrive.
type Scrape struct {
	Log *logrus.Entry
	Out io.Writer
}

func (s *Scrape) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	sup := supervisor.New(supervisor.GetConfig(), s.Log)

	_, lines, cancel := sup.Subscribe()
	defer cancel()

	info, err := sup.Start()
	if err != nil {
		return err
	}
	s.Log.WithField("command", info.Command).Info("Scrape started")

	done := make(chan error, 1)
	go func() {
		done <- sup.Wait(ctx)
	}()

	for {
		select {
		case line := <-lines:
			s.print(line)
		case err := <-done:
			s.drain(lines)
			if err != nil && !errors.Is(err, supervisor.ErrNotRunning) {
				if errors.Is(err, context.Canceled) {
					s.Log.Warn("Interrupted, stopping scrape")
					sup.Shutdown()
					return nil
				}
				return err
			}
			return nil
		}
	}
}

func (s *Scrape) drain(lines <-chan string) {
	for {
		select {
		case line := <-lines:
			s.print(line)
		default:
			return
		}
	}
}

func (s *Scrape) print(line string) {
	if _, err := fmt.Fprintln(s.Out, line); err != nil {
		s.Log.WithError(err).Warn("failed to print log line")
	}
}
