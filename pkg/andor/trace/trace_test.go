package trace

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Trace(Event{Kind: KindTry, Rule: "b <- [a]"})
	r.Trace(Event{Kind: KindCycle, Depth: 2, Goal: "a"})
	r.Trace(Event{Kind: KindTry, Depth: 1, Rule: "c <- [b]"})

	if got := r.Count(KindTry); got != 2 {
		t.Errorf("Count(try) = %d, want 2", got)
	}
	if len(r.Events()) != 3 {
		t.Fatalf("expected 3 events, got %d", len(r.Events()))
	}

	out := r.String()
	if !strings.Contains(out, "    cycle goal=a") {
		t.Errorf("depth indentation missing:\n%s", out)
	}
	if !strings.Contains(out, `try rule="b <- [a]"`) {
		t.Errorf("rule missing:\n%s", out)
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(Nop); !ok {
		t.Error("nil tracer should become Nop")
	}
	r := &Recorder{}
	if OrNop(r) != Tracer(r) {
		t.Error("non-nil tracer should be returned unchanged")
	}
}

func TestZapTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewZap(zap.New(core))

	tr.Trace(Event{Kind: KindProvided, Depth: 1, Goal: "water"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Message != "provided" || e.LoggerName != "search" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.ContextMap()["goal"] != "water" {
		t.Errorf("goal field missing: %v", e.ContextMap())
	}
}

func TestZapTracerNilLogger(t *testing.T) {
	if _, ok := NewZap(nil).(Nop); !ok {
		t.Error("nil logger should yield Nop")
	}
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, nil, b}

	m.Trace(Event{Kind: KindTry, Rule: "b <- [a]"})

	if a.Count(KindTry) != 1 || b.Count(KindTry) != 1 {
		t.Errorf("every tracer should see the event: %d, %d", a.Count(KindTry), b.Count(KindTry))
	}
}
