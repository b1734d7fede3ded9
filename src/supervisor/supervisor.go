// Package supervisor runs at most one external scraping script at a time and
// mirrors its output into a bounded log buffer.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"stockpanel/src/logbuffer"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning = errors.New("script already running")
	ErrNotRunning     = errors.New("no script running")
)

// RunInfo identifies one script run.
type RunInfo struct {
	ID        string    `json:"runId"`
	StartedAt time.Time `json:"startedAt"`
	Command   string    `json:"command"`
}

type Status struct {
	Running   bool       `json:"running"`
	RunID     string     `json:"runId,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

type run struct {
	info RunInfo
	cmd  *exec.Cmd
	done chan struct{}
}

// Supervisor owns the single process handle and the log buffer. It moves
// between Idle and Running only through Start, Stop and the script's own exit.
type Supervisor struct {
	interpreter string
	scriptPath  string
	workDir     string
	logs        *logbuffer.Buffer
	log         *logger.Entry

	mu sync.Mutex
	// current is the live handle, nil when idle.
	current *run
	// latestID is the most recently started run. Output and exit entries of
	// older runs are dropped.
	latestID string
}

func New(config Config, log *logger.Entry) *Supervisor {
	if log == nil {
		log = logger.WithField("component", "supervisor")
	}
	return &Supervisor{
		interpreter: config.Interpreter,
		scriptPath:  config.ScriptPath,
		workDir:     config.WorkDir,
		logs:        logbuffer.New(config.LogCapacity),
		log:         log,
	}
}

// Start spawns the script with piped output and clears the log buffer.
func (s *Supervisor) Start() (RunInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return RunInfo{}, ErrAlreadyRunning
	}

	cmd := exec.Command(s.interpreter, s.scriptPath)
	cmd.Dir = s.workDir
	cmd.Env = os.Environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return RunInfo{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return RunInfo{}, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return RunInfo{}, fmt.Errorf("failed to start script: %w", err)
	}

	r := &run{
		info: RunInfo{
			ID:        uuid.New().String(),
			StartedAt: time.Now().UTC(),
			Command:   strings.Join(cmd.Args, " "),
		},
		cmd:  cmd,
		done: make(chan struct{}),
	}
	s.current = r
	s.latestID = r.info.ID
	s.logs.Reset()

	events := make(chan LineEvent, 64)
	var readers sync.WaitGroup
	readers.Add(2)
	go s.emitLines(stdout, r.info.ID, Stdout, events, &readers)
	go s.emitLines(stderr, r.info.ID, Stderr, events, &readers)
	go func() {
		readers.Wait()
		close(events)
	}()
	go s.consume(r, events)

	s.log.WithFields(logger.Fields{
		"runId":   r.info.ID,
		"command": r.info.Command,
		"pid":     cmd.Process.Pid,
	}).Info("Script started")

	return r.info, nil
}

// consume appends every line event to the buffer, then reaps the process once
// both streams are closed.
func (s *Supervisor) consume(r *run, events <-chan LineEvent) {
	for ev := range events {
		text := ev.Text
		if ev.Stream == Stderr {
			text = "Error: " + text
		}
		s.log.WithFields(logger.Fields{"runId": ev.RunID, "stream": ev.Stream}).Debug(ev.Text)
		s.appendFor(ev.RunID, text)
	}

	err := r.cmd.Wait()
	entry := exitEntry(err)
	s.log.WithField("runId", r.info.ID).Info(entry)

	s.mu.Lock()
	if s.current == r {
		s.current = nil
	}
	if s.latestID == r.info.ID {
		s.logs.Append(entry)
	}
	s.mu.Unlock()

	close(r.done)
}

func (s *Supervisor) appendFor(runID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestID != runID {
		return
	}
	s.logs.Append(text)
}

func exitEntry(err error) string {
	if err == nil {
		return "Script exited with code 0"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return fmt.Sprintf("Script exited with code %d", code)
		}
		return fmt.Sprintf("Script terminated: %s", exitErr.ProcessState.String())
	}
	return fmt.Sprintf("Script exited with error: %v", err)
}

// Stop sends SIGINT to the script and forgets the handle without waiting for
// it to exit. The exit entry is appended later when the process is reaped.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNotRunning
	}

	r := s.current
	s.current = nil

	if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
		s.log.WithError(err).WithField("runId", r.info.ID).Warn("failed to interrupt script")
	}

	s.log.WithField("runId", r.info.ID).Info("Script stopped")
	return nil
}

// Logs returns a snapshot of the buffered output.
func (s *Supervisor) Logs() []string {
	return s.logs.Snapshot()
}

// Subscribe follows the buffered output; see logbuffer.Buffer.Subscribe.
func (s *Supervisor) Subscribe() ([]string, <-chan string, func()) {
	return s.logs.Subscribe()
}

func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Status{}
	}
	startedAt := s.current.info.StartedAt
	return Status{
		Running:   true,
		RunID:     s.current.info.ID,
		StartedAt: &startedAt,
	}
}

// Wait blocks until the live script has exited and its exit entry is in the
// buffer.
func (s *Supervisor) Wait(ctx context.Context) error {
	s.mu.Lock()
	r := s.current
	s.mu.Unlock()

	if r == nil {
		return ErrNotRunning
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown interrupts a live script, if any.
func (s *Supervisor) Shutdown() {
	if err := s.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		s.log.WithError(err).Warn("failed to stop script on shutdown")
	}
}
