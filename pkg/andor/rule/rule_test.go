package rule

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDeduplicates(t *testing.T) {
	r := New([]string{"c", "c"}, []string{"a", "b", "a"}, 0.5)
	if diff := cmp.Diff([]string{"a", "b"}, r.Antecedents()); diff != "" {
		t.Errorf("antecedents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c"}, r.Consequents()); diff != "" {
		t.Errorf("consequents mismatch (-want +got):\n%s", diff)
	}
}

func TestGoalListsAreCopies(t *testing.T) {
	r := New([]string{"b"}, []string{"a"}, 1)
	r.Antecedents()[0] = "z"
	r.Consequents()[0] = "z"
	if r.String() != "b <- [a]" {
		t.Errorf("rule mutated through accessor: %s", r)
	}
}

func TestKey(t *testing.T) {
	if got := New([]string{"b"}, []string{"a"}, 1).Key(); got != "b <- [a]" {
		t.Errorf("unnamed key = %q", got)
	}
	if got := Named("boil", []string{"tea"}, []string{"water"}, 1).Key(); got != "boil" {
		t.Errorf("named key = %q", got)
	}
}

func TestExecute(t *testing.T) {
	r := New([]string{"b"}, nil, 1)
	if err := r.Execute(context.Background(), nil); err != nil {
		t.Fatalf("action-less rule should succeed: %v", err)
	}

	var ran bool
	r.Action = func(ctx context.Context, state State) error {
		ran = true
		return nil
	}
	if err := r.Execute(context.Background(), nil); err != nil || !ran {
		t.Fatalf("action not run: ran=%v err=%v", ran, err)
	}

	boom := errors.New("boom")
	r.Action = func(ctx context.Context, state State) error { return boom }
	err := r.Execute(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped action error, got %v", err)
	}
	if !strings.Contains(err.Error(), "b <- []") {
		t.Errorf("error should name the rule: %v", err)
	}
}

func TestTestable(t *testing.T) {
	g := Testable("door-open", func(s State) bool { return s.(map[string]bool)["door-open"] })
	if g.Goal() != "door-open" {
		t.Errorf("Goal() = %q", g.Goal())
	}
	if g.IsSatisfied(map[string]bool{}) {
		t.Error("should not be satisfied")
	}
	if !g.IsSatisfied(map[string]bool{"door-open": true}) {
		t.Error("should be satisfied")
	}
}

func TestIndex(t *testing.T) {
	ab := New([]string{"a", "b"}, nil, 1)
	b := New([]string{"b"}, []string{"a"}, 1)
	c := New([]string{"c"}, []string{"b"}, 1)
	idx := NewIndex([]*Rule[string]{ab, b, c})

	if got := idx.RulesFor("b"); len(got) != 2 || got[0] != ab || got[1] != b {
		t.Errorf("RulesFor(b) = %v", got)
	}
	if got := idx.RulesFor("missing"); got == nil || len(got) != 0 {
		t.Errorf("RulesFor(missing) should be empty and non-nil, got %#v", got)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, idx.Goals()); diff != "" {
		t.Errorf("Goals mismatch (-want +got):\n%s", diff)
	}
	if !idx.Produces("c") || idx.Produces("d") {
		t.Error("Produces mismatch")
	}
	if idx.Position(c) != 2 || idx.Position(New([]string{"c"}, nil, 1)) != -1 {
		t.Error("Position mismatch")
	}
	if idx.Len() != 3 {
		t.Errorf("Len = %d", idx.Len())
	}
}

func TestIndexReturnsCopies(t *testing.T) {
	a := New([]string{"a"}, nil, 1)
	b := New([]string{"b"}, nil, 1)
	idx := NewIndex([]*Rule[string]{a, b})

	idx.Rules()[0] = b
	idx.RulesFor("a")[0] = b
	if got := idx.Rules(); got[0] != a {
		t.Errorf("Rules was mutated through a returned slice: %v", got)
	}
	if got := idx.RulesFor("a"); len(got) != 1 || got[0] != a {
		t.Errorf("RulesFor was mutated through a returned slice: %v", got)
	}
}

func TestSetCoalescesEquivalentRules(t *testing.T) {
	s := NewSet(
		New([]string{"b"}, []string{"a", "c"}, 1),
		New([]string{"b"}, []string{"c", "a"}, 0.2),
		New([]string{"b"}, []string{"a"}, 1),
	)
	if s.Len() != 2 {
		t.Fatalf("expected 2 rules, got %v", s.Rules())
	}
	if s.Add(nil) {
		t.Error("nil rule should not be added")
	}
	if s.Rules()[0].Weight != 1 {
		t.Error("first equivalent rule should be kept")
	}
}
