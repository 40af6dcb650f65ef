// Package export writes rule sets, typically the output of projection or
// marginalization, back out in the rule base format config.Parse reads.
package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/andor/pkg/andor/config"
	"github.com/cognicore/andor/pkg/andor/rule"
)

// RuleWriter persists rendered rules to a destination (file, stream, etc.).
type RuleWriter interface {
	WriteRules(ctx context.Context, content string) error
}

// FileWriter replaces the file at Path.
type FileWriter struct {
	Path string
}

func (w FileWriter) WriteRules(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(w.Path, []byte(content), 0o644)
}

// StreamWriter writes to an io.Writer such as os.Stdout.
type StreamWriter struct {
	W io.Writer
}

func (w StreamWriter) WriteRules(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(w.W, content)
	return err
}

// RuleExporter renders rules as a YAML rule base.
type RuleExporter struct {
	Writer RuleWriter
	// Goals, if set, are written as the rule base's goals.
	Goals []string
}

func (e *RuleExporter) Export(ctx context.Context, rules []*rule.Rule[string]) error {
	if e.Writer == nil {
		return fmt.Errorf("rule exporter: nil writer")
	}
	content, err := Render(rules, e.Goals)
	if err != nil {
		return err
	}
	return e.Writer.WriteRules(ctx, content)
}

// Render produces the YAML rule base for rules and goals.
func Render(rules []*rule.Rule[string], goals []string) (string, error) {
	rb := config.RuleBase{
		Rules: config.FromRules(rules),
		Goals: goals,
	}
	out, err := yaml.Marshal(&rb)
	if err != nil {
		return "", fmt.Errorf("render rules: %w", err)
	}
	return string(out), nil
}
