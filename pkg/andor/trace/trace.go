// Package trace is the optional diagnostic sink the search reports into.
// Nothing here affects search results.
package trace

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a trace event.
type Kind string

const (
	KindTry       Kind = "try"       // a rule is applied during plan search
	KindNoPlan    Kind = "no_plan"   // no alternative found for the remaining goals
	KindSequel    Kind = "sequel"    // all goals satisfied, control passed to the sequel planner
	KindCycle     Kind = "cycle"     // goal already under derivation
	KindProvided  Kind = "provided"  // goal assumed directly providable
	KindCondition Kind = "condition" // DNF condition computed for a goal
)

// Event is one search decision.
type Event struct {
	Kind   Kind
	Depth  int
	Goal   string
	Rule   string
	Detail string
}

func (e Event) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", e.Depth))
	b.WriteString(string(e.Kind))
	if e.Goal != "" {
		fmt.Fprintf(&b, " goal=%s", e.Goal)
	}
	if e.Rule != "" {
		fmt.Fprintf(&b, " rule=%q", e.Rule)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " %s", e.Detail)
	}
	return b.String()
}

// Tracer receives search events.
type Tracer interface {
	Trace(e Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Trace(Event) {}

// OrNop returns t, or Nop if t is nil.
func OrNop(t Tracer) Tracer {
	if t == nil {
		return Nop{}
	}
	return t
}

// Multi forwards every event to each of its tracers.
type Multi []Tracer

func (m Multi) Trace(e Event) {
	for _, t := range m {
		if t != nil {
			t.Trace(e)
		}
	}
}

// Recorder keeps events in memory, in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Trace(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// String renders the events one per line, indented by depth.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, e := range r.Events() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type zapTracer struct {
	logger *zap.Logger
}

// NewZap emits every event as a debug entry on logger.
func NewZap(logger *zap.Logger) Tracer {
	if logger == nil {
		return Nop{}
	}
	return zapTracer{logger: logger.Named("search")}
}

func (z zapTracer) Trace(e Event) {
	z.logger.Debug(string(e.Kind),
		zap.Int("depth", e.Depth),
		zap.String("goal", e.Goal),
		zap.String("rule", e.Rule),
		zap.String("detail", e.Detail),
	)
}
