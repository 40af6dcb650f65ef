package plan

import (
	"fmt"
	"strings"
)

func pad(indent int) string {
	return strings.Repeat("    ", indent)
}

func weightSuffix(w interface{ Weight() float64 }) string {
	return fmt.Sprintf(" (weight %.3f)", w.Weight())
}

func nest[G comparable](indent int, header string, children []Plan[G]) string {
	var b strings.Builder
	b.WriteString(pad(indent))
	b.WriteString(header)
	for _, c := range children {
		b.WriteString("\n")
		b.WriteString(c.NestedString(indent + 1))
	}
	return b.String()
}
