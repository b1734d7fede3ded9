package supervisor

import (
	"bufio"
	"io"
	"sync"
)

type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

const maxLineLength = 1024 * 1024

// LineEvent is one line of script output.
type LineEvent struct {
	RunID  string
	Stream Stream
	Text   string
}

// emitLines splits r into lines and sends one LineEvent per line until r is
// exhausted. Whatever cannot be scanned is drained so the child never blocks
// on a full pipe.
func (s *Supervisor) emitLines(r io.Reader, runID string, stream Stream, events chan<- LineEvent, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		events <- LineEvent{RunID: runID, Stream: stream, Text: scanner.Text()}
	}

	if err := scanner.Err(); err != nil {
		s.log.WithError(err).WithField("stream", stream).Warn("failed to read script output")
		_, _ = io.Copy(io.Discard, r)
	}
}
