package reach

// GoalStack holds the goals currently under derivation. Entering a goal that
// is already on the stack means the derivation would go through itself.
type GoalStack[G comparable] struct {
	goals []G
	count map[G]int
}

// NewGoalStack returns an empty stack.
func NewGoalStack[G comparable]() *GoalStack[G] {
	return &GoalStack[G]{count: make(map[G]int)}
}

// Push marks g as under derivation.
func (s *GoalStack[G]) Push(g G) {
	s.goals = append(s.goals, g)
	s.count[g]++
}

// Pop removes and returns the most recently pushed goal.
// It panics on an empty stack.
func (s *GoalStack[G]) Pop() G {
	g := s.goals[len(s.goals)-1]
	s.goals = s.goals[:len(s.goals)-1]
	if s.count[g]--; s.count[g] == 0 {
		delete(s.count, g)
	}
	return g
}

// Contains reports whether g is under derivation.
func (s *GoalStack[G]) Contains(g G) bool {
	return s.count[g] > 0
}

// Empty reports whether no goal is under derivation, i.e. the next goal
// entered is a top-level one.
func (s *GoalStack[G]) Empty() bool { return len(s.goals) == 0 }

// Len returns the stack depth.
func (s *GoalStack[G]) Len() int { return len(s.goals) }

// Reset empties the stack.
func (s *GoalStack[G]) Reset() {
	s.goals = s.goals[:0]
	clear(s.count)
}
