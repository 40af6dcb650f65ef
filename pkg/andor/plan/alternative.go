package plan

import "math"

// Alternative executes exactly one of its children, sampled from a smoothed
// distribution proportional to the children's weights.
type Alternative[G comparable] struct {
	children  []Plan[G]
	smoothing float64
}

// NewAlternative is NewAlternativeWithSmoothing with DefaultSmoothing.
func NewAlternative[G comparable](children ...Plan[G]) Plan[G] {
	return NewAlternativeWithSmoothing(DefaultSmoothing, children...)
}

// NewAlternativeWithSmoothing flattens nested Alternative children and
// collapses a single child to itself. It returns nil when there are no
// children or any child is nil. A non-positive smoothing falls back to
// DefaultSmoothing.
func NewAlternativeWithSmoothing[G comparable](smoothing float64, children ...Plan[G]) Plan[G] {
	if smoothing <= 0 || math.IsNaN(smoothing) {
		smoothing = DefaultSmoothing
	}
	flat := make([]Plan[G], 0, len(children))
	for _, c := range children {
		switch c := c.(type) {
		case nil:
			return nil
		case *Alternative[G]:
			flat = append(flat, c.children...)
		default:
			flat = append(flat, c)
		}
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return &Alternative[G]{children: flat, smoothing: smoothing}
}

// Children returns the alternatives.
func (a *Alternative[G]) Children() []Plan[G] {
	return append([]Plan[G](nil), a.children...)
}

// Smoothing returns the constant added to each weight before normalizing.
func (a *Alternative[G]) Smoothing() float64 { return a.smoothing }

// Probabilities returns each child's selection probability: proportional to
// max(weight, 0) + smoothing. They are strictly positive and sum to 1.
func (a *Alternative[G]) Probabilities() []float64 {
	ps := make([]float64, len(a.children))
	total := 0.0
	for i, c := range a.children {
		ps[i] = math.Max(c.Weight(), 0) + a.smoothing
		total += ps[i]
	}
	for i := range ps {
		ps[i] /= total
	}
	return ps
}

// Weight is the expected child weight under the selection distribution.
func (a *Alternative[G]) Weight() float64 {
	w := 0.0
	for i, p := range a.Probabilities() {
		w += a.children[i].Weight() * p
	}
	return w
}

// Choose samples a child index.
func (a *Alternative[G]) Choose(rng Rand) int {
	x := rng.Float64()
	acc := 0.0
	ps := a.Probabilities()
	for i, p := range ps {
		acc += p
		if x < acc {
			return i
		}
	}
	return len(ps) - 1
}

func (a *Alternative[G]) NestedString(indent int) string {
	return nest(indent, "Alternative"+weightSuffix(a), a.children)
}

func (a *Alternative[G]) String() string { return a.NestedString(0) }

func (*Alternative[G]) sealed(G) {}
