package tailer

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLines(t *testing.T) {
	window := func(from, to int) []string {
		var out []string
		for i := from; i <= to; i++ {
			out = append(out, fmt.Sprintf("line %d", i))
		}
		return out
	}

	cases := []struct {
		name string
		prev []string
		curr []string
		want []string
	}{
		{name: "first poll", prev: nil, curr: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "appended", prev: []string{"a", "b"}, curr: []string{"a", "b", "c"}, want: []string{"c"}},
		{name: "unchanged", prev: []string{"a", "b"}, curr: []string{"a", "b"}, want: []string{}},
		{name: "window slid", prev: window(1, 100), curr: window(3, 102), want: []string{"line 101", "line 102"}},
		{name: "repeated lines", prev: []string{"x", "x"}, curr: []string{"x", "x", "x"}, want: []string{"x"}},
		{name: "new run", prev: []string{"a", "Script exited with code 0"}, curr: []string{"b"}, want: []string{"b"}},
		{name: "reset to empty", prev: []string{"a"}, curr: []string{}, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewLines(tc.prev, tc.curr)
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

type scriptedSource struct {
	mu    sync.Mutex
	polls [][]string
	calls int
}

func (s *scriptedSource) Logs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.polls)-1)
	s.calls++
	return s.polls[i], nil
}

func TestTailerPrintsOnlyNewLines(t *testing.T) {
	source := &scriptedSource{polls: [][]string{
		{"a"},
		{"a", "b"},
		{"a", "b", "c"},
	}}
	log, _ := logrustest.NewNullLogger()
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	tl := &Tailer{Source: source, Interval: 5 * time.Millisecond, Out: &out, Log: log.WithField("cmd", "tail-logs")}

	done := make(chan error, 1)
	go func() { done <- tl.Start(ctx) }()

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.calls >= 5
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, "a\nb\nc\n", out.String())
}

func TestTailerNonPositiveIntervalFallsBack(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		source := &scriptedSource{polls: [][]string{{"a"}}}
		log, _ := logrustest.NewNullLogger()
		var out bytes.Buffer

		ctx, cancel := context.WithCancel(context.Background())
		tl := &Tailer{Source: source, Interval: interval, Out: &out, Log: log.WithField("cmd", "tail-logs")}

		done := make(chan error, 1)
		go func() { done <- tl.Start(ctx) }()

		require.Eventually(t, func() bool {
			source.mu.Lock()
			defer source.mu.Unlock()
			return source.calls >= 1
		}, 2*time.Second, 5*time.Millisecond)
		cancel()
		require.NoError(t, <-done)

		assert.Equal(t, "a\n", out.String())
	}
}
