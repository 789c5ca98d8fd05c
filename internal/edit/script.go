package edit

import (
	"fmt"
	"strings"

	"github.com/CaptShanks/markprism/internal/tree"
)

// Script is an ordered list of ops
type Script []Op

// Apply runs every op against t in order
func (s Script) Apply(t *tree.Tree) error {
	for i, op := range s {
		if err := op.Apply(t); err != nil {
			return fmt.Errorf("edit %d (%s): %w", i+1, op, err)
		}
	}
	return nil
}

// Run builds a tree from lines, applies the script and returns the document
// serialized before and after the edits
func (s Script) Run(lines []string) (before, after []string, err error) {
	t := tree.Build(lines)
	before = t.Lines()
	if err := s.Apply(t); err != nil {
		return before, nil, err
	}
	return before, t.Lines(), nil
}

// Strings renders every op in parseable form
func (s Script) Strings() []string {
	out := make([]string, len(s))
	for i, op := range s {
		out[i] = op.String()
	}
	return out
}

// String joins the ops with spaces
func (s Script) String() string {
	return strings.Join(s.Strings(), " ")
}
