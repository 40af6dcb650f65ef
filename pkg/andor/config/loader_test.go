package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/andor/pkg/andor/internalerr"
	"github.com/cognicore/andor/pkg/andor/store/memstore"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	defer comp.Store.Close()

	if len(comp.Rules) != 0 {
		t.Errorf("Rules should be empty, got %v", comp.Rules)
	}
	if _, ok := comp.Store.(*memstore.Store); !ok {
		t.Errorf("Expected in-memory store, got %T", comp.Store)
	}
}

func TestLoaderNonExistentRuleBase(t *testing.T) {
	loader := Loader{RuleBasePath: "/nonexistent/rules.yaml"}

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent rule base")
	}
}

func TestLoaderValidFiles(t *testing.T) {
	tmpDir := t.TempDir()
	rulesPath := filepath.Join(tmpDir, "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte(teaRules), 0644); err != nil {
		t.Fatalf("Failed to write rules: %v", err)
	}

	loader := Loader{
		RuleBasePath: rulesPath,
		StorePath:    filepath.Join(tmpDir, "weights.db"),
	}
	ctx := context.Background()
	comp, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Store.Close()

	if len(comp.Rules) != 3 {
		t.Errorf("Expected 3 rules, got %d", len(comp.Rules))
	}
	if err := comp.Store.UpsertWeight(ctx, "boil", 0.3); err != nil {
		t.Fatalf("UpsertWeight: %v", err)
	}
	if _, err := os.Stat(loader.StorePath); err != nil {
		t.Errorf("store file should exist: %v", err)
	}
}

func TestLoaderBadStorePath(t *testing.T) {
	loader := Loader{StorePath: filepath.Join(t.TempDir(), "missing-dir", "weights.db")}

	_, err := loader.Load(context.Background())
	if !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
