// Package telemetry provides the driver-display sink used by the CLI. Lines
// are accumulated between flushes and written through the logger.
package telemetry

import (
	"sync"
	"time"

	"github.com/bft-labs/robocore/pkg/log"
)

// Line is one key/value display entry.
type Line struct {
	Key   string
	Value interface{}
}

// Option configures a Sink.
type Option func(*Sink)

// WithInterval limits how often lines are emitted. Updates arriving sooner
// keep the pending lines for the next emission.
func WithInterval(d time.Duration) Option {
	return func(s *Sink) {
		s.interval = d
	}
}

// WithAutoClear controls whether emitted lines are cleared. Default true.
func WithAutoClear(enabled bool) Option {
	return func(s *Sink) {
		s.autoClear = enabled
	}
}

// WithNow replaces the time source used for the interval.
func WithNow(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// Sink implements opmode.Telemetry on top of a log.Logger.
type Sink struct {
	mu        sync.Mutex
	logger    log.Logger
	lines     []Line
	index     map[string]int
	interval  time.Duration
	autoClear bool
	now       func() time.Time
	lastEmit  time.Time
	updates   int
	emitted   int
}

// NewSink creates a sink that emits through logger.
func NewSink(logger log.Logger, opts ...Option) *Sink {
	s := &Sink{
		logger:    logger,
		index:     make(map[string]int),
		autoClear: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddData sets the value for key. A key added twice keeps its position.
func (s *Sink) AddData(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[key]; ok {
		s.lines[i].Value = value
		return
	}
	s.index[key] = len(s.lines)
	s.lines = append(s.lines, Line{Key: key, Value: value})
}

// Update emits the pending lines unless the interval has not elapsed.
func (s *Sink) Update() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates++
	now := s.now()
	if s.interval > 0 && !s.lastEmit.IsZero() && now.Sub(s.lastEmit) < s.interval {
		return nil
	}
	s.lastEmit = now

	if len(s.lines) > 0 {
		fields := make([]log.Field, 0, len(s.lines))
		for _, l := range s.lines {
			fields = append(fields, log.Any(l.Key, l.Value))
		}
		s.logger.Info("telemetry", fields...)
		s.emitted++
	}

	if s.autoClear {
		s.clear()
	}
	return nil
}

// Clear drops pending lines.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Sink) clear() {
	s.lines = s.lines[:0]
	s.index = make(map[string]int)
}

// Lines returns a copy of the pending lines.
func (s *Sink) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Updates returns how many times Update was called.
func (s *Sink) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Emitted returns how many telemetry log lines were written.
func (s *Sink) Emitted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emitted
}
