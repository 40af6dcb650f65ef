package config

import (
	"context"
	"fmt"

	"github.com/cognicore/andor/pkg/andor/internalerr"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/store"
	"github.com/cognicore/andor/pkg/andor/store/memstore"
	"github.com/cognicore/andor/pkg/andor/store/sqlite"
)

// Loader loads a rule base and opens its store
type Loader struct {
	RuleBasePath string
	// StorePath overrides the rule base's store.path.
	StorePath string
}

// Components holds everything a planning run needs
type Components struct {
	RuleBase *RuleBase
	Rules    []*rule.Rule[string]
	Store    store.Store
}

// Load reads the rule base and opens the store. Without a store path the
// store is in memory. The caller closes Components.Store.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	comp := &Components{RuleBase: &RuleBase{}}

	if l.RuleBasePath != "" {
		rb, err := LoadRuleBase(l.RuleBasePath)
		if err != nil {
			return nil, fmt.Errorf("load rule base: %w", err)
		}
		comp.RuleBase = rb
	}
	comp.Rules = comp.RuleBase.BuildRules()

	path := l.StorePath
	if path == "" {
		path = comp.RuleBase.Store.Path
	}
	if path == "" {
		comp.Store = memstore.New()
		return comp, nil
	}

	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", internalerr.ErrStoreUnavailable, path, err)
	}
	comp.Store = st
	return comp, nil
}
