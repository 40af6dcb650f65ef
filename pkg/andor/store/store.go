// Package store persists what planning learns between runs: the weight of
// every rule, keyed by rule key, and a log of executed episodes.
package store

import (
	"context"
	"time"
)

// Store is the main interface for persisting learned rule weights
type Store interface {
	Close() error

	// Weights
	UpsertWeight(ctx context.Context, key string, weight float64) error
	GetWeight(ctx context.Context, key string) (float64, bool, error)
	Weights(ctx context.Context) (map[string]float64, error)

	// Episodes
	RecordEpisode(ctx context.Context, e Episode) error
	Episodes(ctx context.Context, limit int) ([]Episode, error)
}

// Episode records one execution of a plan and the reward it earned
type Episode struct {
	ID     string
	Goals  []string
	Reward float64
	Err    string // execution error, empty on success
	Plan   string // rendered plan tree
	At     time.Time
}

// DefaultEpisodeLimit applies when Episodes is called with limit <= 0.
const DefaultEpisodeLimit = 20
