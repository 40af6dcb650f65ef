package transform

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/andor/pkg/andor/reach"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/trace"
)

func r(consequent string, antecedents ...string) *rule.Rule[string] {
	return rule.New([]string{consequent}, antecedents, 1)
}

func rendered(rules []*rule.Rule[string]) []string {
	out := make([]string, len(rules))
	for i, rl := range rules {
		ants := rl.Antecedents()
		sort.Strings(ants)
		out[i] = strings.Join(rl.Consequents(), ",") + " <- " + strings.Join(ants, ",")
	}
	sort.Strings(out)
	return out
}

// subsets returns every subset of goals.
func subsets(goals []string) [][]string {
	out := [][]string{{}}
	for _, g := range goals {
		n := len(out)
		for i := 0; i < n; i++ {
			out = append(out, append(append([]string(nil), out[i]...), g))
		}
	}
	return out
}

func restrict(closure map[string]bool, goals []string) []string {
	var out []string
	for _, g := range goals {
		if closure[g] {
			out = append(out, g)
		}
	}
	return out
}

func TestProjectionSkipsIntermediateGoals(t *testing.T) {
	rules := []*rule.Rule[string]{r("b", "a"), r("c", "b"), r("d", "c")}

	got := NewProjection(rules, []string{"a", "c"}, nil).ProjectedRules()

	if diff := cmp.Diff([]string{"c <- a"}, rendered(got)); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectionOneRulePerClause(t *testing.T) {
	rules := []*rule.Rule[string]{
		r("goal", "mid"),
		r("mid", "x", "y"),
		r("mid", "z"),
		r("goal", "x", "y", "z"),
	}

	got := NewProjection(rules, []string{"goal", "x", "y", "z"}, nil).ProjectedRules()

	want := []string{"goal <- x,y", "goal <- z"}
	if diff := cmp.Diff(want, rendered(got)); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectionNeverAssumesTopLevelGoal(t *testing.T) {
	rules := []*rule.Rule[string]{r("a", "b"), r("b", "a"), r("b")}

	got := NewProjection(rules, []string{"a", "b"}, nil).ProjectedRules()

	// a is derived from b; b has a base case and a cyclic rule through a.
	want := []string{"a <- ", "b <- "}
	if diff := cmp.Diff(want, rendered(got)); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
	for _, rl := range got {
		for _, a := range rl.Antecedents() {
			if a == rl.Consequents()[0] {
				t.Errorf("tautological rule %s", rl)
			}
		}
	}
}

func TestProjectionCoalescesDuplicates(t *testing.T) {
	rules := []*rule.Rule[string]{r("g", "x"), r("g", "y")}
	var calls int
	factory := func(goal string, _ []string) *rule.Rule[string] {
		calls++
		return rule.New([]string{goal}, nil, 1)
	}

	got := NewProjection(rules, []string{"g", "x", "y"}, factory).ProjectedRules()

	if calls != 2 {
		t.Errorf("factory should be called once per clause, called %d times", calls)
	}
	if len(got) != 1 {
		t.Errorf("equivalent synthesized rules should coalesce, got %v", got)
	}
}

func TestProjectionUsesFactory(t *testing.T) {
	rules := []*rule.Rule[string]{r("b", "a")}
	factory := func(goal string, ants []string) *rule.Rule[string] {
		return rule.Named("projected-"+goal, []string{goal}, ants, 0.25)
	}

	got := NewProjection(rules, []string{"a", "b"}, factory).ProjectedRules()
	if len(got) != 1 || got[0].Name != "projected-b" || got[0].Weight != 0.25 {
		t.Fatalf("unexpected rules %v", got)
	}
}

func TestProjectionPreservesReachability(t *testing.T) {
	rules := []*rule.Rule[string]{
		r("m1", "a"),
		r("m2", "m1", "b"),
		r("c", "m2"),
		r("c", "d"),
		r("d", "c", "a"),
		r("e", "m1", "c"),
	}
	kept := []string{"a", "b", "c", "e"}

	projected := NewProjection(rules, kept, nil).ProjectedRules()

	for _, given := range subsets(kept) {
		want := restrict(reach.Closure(rules, given), kept)
		got := restrict(reach.Closure(projected, given), kept)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("given %v: reachability mismatch (-original +projected):\n%s", given, diff)
		}
	}
}

func TestMarginalizeIntermediateGoal(t *testing.T) {
	rules := []*rule.Rule[string]{r("a", "x"), r("x", "b")}

	got := NewMarginalizer(rules, []string{"x"}, nil).MarginalizedRules()

	if diff := cmp.Diff([]string{"a <- b"}, rendered(got)); diff != "" {
		t.Errorf("marginalization mismatch (-want +got):\n%s", diff)
	}
}

func TestMarginalizeCollapsesBaseCases(t *testing.T) {
	rules := []*rule.Rule[string]{r("a", "x"), r("x", "b"), r("b")}

	got := NewMarginalizer(rules, []string{"x"}, nil).MarginalizedRules()

	if diff := cmp.Diff([]string{"a <- ", "b <- "}, rendered(got)); diff != "" {
		t.Errorf("marginalization mismatch (-want +got):\n%s", diff)
	}
}

func TestMarginalizeUnreferencedGoalPreservesReachability(t *testing.T) {
	rules := []*rule.Rule[string]{
		r("b", "a"),
		r("c", "b"),
		r("c", "d"),
		r("d", "c"),
		r("e", "a", "d"),
		r("f"),
	}
	goals := []string{"a", "b", "c", "d", "e", "f"}

	marginalized := NewMarginalizer(rules, []string{"unused"}, nil).MarginalizedRules()

	for _, given := range subsets(goals) {
		want := restrict(reach.Closure(rules, given), goals)
		got := restrict(reach.Closure(marginalized, given), goals)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("given %v: reachability mismatch (-original +marginalized):\n%s", given, diff)
		}
	}
}

func TestMarginalizedGoalsDisappear(t *testing.T) {
	rules := []*rule.Rule[string]{r("a", "x"), r("x", "b"), r("x", "c"), r("y", "x")}

	got := NewMarginalizer(rules, []string{"x"}, nil).MarginalizedRules()

	for _, rl := range got {
		for _, g := range append(rl.Consequents(), rl.Antecedents()...) {
			if g == "x" {
				t.Errorf("marginalized goal survives in %s", rl)
			}
		}
	}
	want := []string{"a <- b", "a <- c", "y <- b", "y <- c"}
	if diff := cmp.Diff(want, rendered(got)); diff != "" {
		t.Errorf("marginalization mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformTracer(t *testing.T) {
	rec := &trace.Recorder{}
	rules := []*rule.Rule[string]{r("a", "b"), r("b", "a")}

	got := NewMarginalizer(rules, nil, nil, WithTracer(rec)).MarginalizedRules()

	if rec.Count(trace.KindCondition) == 0 {
		t.Error("expected condition events")
	}
	// Each goal is derivable from the other, which may be given.
	if diff := cmp.Diff([]string{"a <- b", "b <- a"}, rendered(got)); diff != "" {
		t.Errorf("marginalization mismatch (-want +got):\n%s", diff)
	}
}
