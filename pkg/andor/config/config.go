// Package config loads rule bases from YAML.
//
// A rule base file looks like:
//
//	rules:
//	  - name: boil
//	    if: [water]
//	    then: [hot-water]
//	    weight: 0.8
//	    success: 0.9
//	goals: [tea]
//	given: [water]
//	unless: tea
//	planner:
//	  smoothing: 0.01
//	store:
//	  path: andor.db
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/andor/pkg/andor/internalerr"
	"github.com/cognicore/andor/pkg/andor/rule"
)

// DefaultWeight is the weight of a rule that does not declare one.
const DefaultWeight = 1.0

// RuleBase represents a rule base file
type RuleBase struct {
	Rules []RuleSpec `yaml:"rules"`
	Goals []string   `yaml:"goals,omitempty"`
	Given []string   `yaml:"given,omitempty"`
	// Unless names a goal tested at run time: when it already holds the
	// plan does nothing.
	Unless  string    `yaml:"unless,omitempty"`
	Planner Planner   `yaml:"planner,omitempty"`
	Store   StoreSpec `yaml:"store,omitempty"`
}

// RuleSpec is one rule as written in YAML. Success is the probability that
// executing the rule actually works; only simulations consult it.
type RuleSpec struct {
	Name    string   `yaml:"name,omitempty"`
	If      []string `yaml:"if,omitempty"`
	Then    []string `yaml:"then"`
	Weight  *float64 `yaml:"weight,omitempty"`
	Success *float64 `yaml:"success,omitempty"`
}

// Planner holds search settings
type Planner struct {
	Smoothing float64 `yaml:"smoothing,omitempty"`
}

// StoreSpec locates the learned-weight store
type StoreSpec struct {
	Path string `yaml:"path,omitempty"`
}

// LoadRuleBase loads a rule base from a YAML file
func LoadRuleBase(path string) (*RuleBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a rule base
func Parse(data []byte) (*RuleBase, error) {
	var rb RuleBase
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := rb.Validate(); err != nil {
		return nil, err
	}
	return &rb, nil
}

// Validate checks every rule and setting
func (rb *RuleBase) Validate() error {
	names := make(map[string]int, len(rb.Rules))
	for i, spec := range rb.Rules {
		if len(spec.Then) == 0 {
			return fmt.Errorf("%w: rule %d has no consequents", internalerr.ErrInvalidConfig, i)
		}
		if spec.Name != "" {
			if prev, ok := names[spec.Name]; ok {
				return fmt.Errorf("%w: rule name %q used by rules %d and %d", internalerr.ErrInvalidConfig, spec.Name, prev, i)
			}
			names[spec.Name] = i
		}
		if spec.Weight != nil && (math.IsNaN(*spec.Weight) || math.IsInf(*spec.Weight, 0)) {
			return fmt.Errorf("%w: rule %d weight must be finite", internalerr.ErrInvalidConfig, i)
		}
		if spec.Success != nil && (*spec.Success < 0 || *spec.Success > 1) {
			return fmt.Errorf("%w: rule %d success %v outside [0,1]", internalerr.ErrInvalidConfig, i, *spec.Success)
		}
	}
	if rb.Planner.Smoothing < 0 || math.IsNaN(rb.Planner.Smoothing) {
		return fmt.Errorf("%w: planner smoothing must be non-negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// BuildRules builds the rules in file order. Actions are left unset; callers
// attach them by rule key.
func (rb *RuleBase) BuildRules() []*rule.Rule[string] {
	out := make([]*rule.Rule[string], len(rb.Rules))
	for i, spec := range rb.Rules {
		out[i] = rule.Named(spec.Name, spec.Then, spec.If, spec.weight())
	}
	return out
}

// SuccessOf maps rule keys to their declared success probability, 1 when
// undeclared.
func (rb *RuleBase) SuccessOf() map[string]float64 {
	rules := rb.BuildRules()
	out := make(map[string]float64, len(rules))
	for i, r := range rules {
		p := 1.0
		if s := rb.Rules[i].Success; s != nil {
			p = *s
		}
		out[r.Key()] = p
	}
	return out
}

func (s RuleSpec) weight() float64 {
	if s.Weight == nil {
		return DefaultWeight
	}
	return *s.Weight
}

// FromRules renders rules back into specs, the inverse of BuildRules.
func FromRules(rules []*rule.Rule[string]) []RuleSpec {
	out := make([]RuleSpec, len(rules))
	for i, r := range rules {
		w := r.Weight
		out[i] = RuleSpec{
			Name:   r.Name,
			If:     r.Antecedents(),
			Then:   r.Consequents(),
			Weight: &w,
		}
	}
	return out
}
