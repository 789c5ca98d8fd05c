// Package edit describes tree edits as small textual operations so they can be
// given on the command line, typed into the editor, replayed by the watcher
// and recorded in history.
package edit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/CaptShanks/markprism/internal/tree"
)

// Kind is the type of edit an Op performs
type Kind string

const (
	KindRename Kind = "rename"
	KindBold   Kind = "bold"
	KindRemove Kind = "remove"
	KindWrap   Kind = "wrap"
)

// Kinds lists every edit kind in display order
var Kinds = []Kind{KindRename, KindBold, KindRemove, KindWrap}

var (
	// ErrUnknownOp is returned for an op whose kind is not one of Kinds
	ErrUnknownOp = errors.New("unknown edit")
	// ErrBadArgs is returned when an op has the wrong number or form of arguments
	ErrBadArgs = errors.New("invalid edit arguments")
)

// argCount is the number of arguments each kind takes
var argCount = map[Kind]int{
	KindRename: 2,
	KindBold:   1,
	KindRemove: 1,
	KindWrap:   2,
}

// usage shows the expected form of each kind
var usage = map[Kind]string{
	KindRename: "rename:<old>:<new>",
	KindBold:   "bold:<row>",
	KindRemove: "remove:<tag>",
	KindWrap:   "wrap:<word>:<tag>",
}

// Op is one edit with its arguments
type Op struct {
	Kind Kind
	Args []string
}

// Usage returns the expected textual form of an op kind
func Usage(k Kind) string {
	return usage[k]
}

// Parse reads an op written as kind:arg[:arg], e.g. rename:td:th or bold:2.
// The last argument may itself contain colons.
func Parse(s string) (Op, error) {
	kindStr, rest, _ := strings.Cut(strings.TrimSpace(s), ":")
	kind := Kind(strings.ToLower(kindStr))

	n, ok := argCount[kind]
	if !ok {
		return Op{}, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownOp, kindStr, kindList())
	}

	var args []string
	if rest != "" {
		args = strings.SplitN(rest, ":", n)
	}
	return New(kind, args...)
}

// New builds an op and checks its arguments
func New(kind Kind, args ...string) (Op, error) {
	n, ok := argCount[kind]
	if !ok {
		return Op{}, fmt.Errorf("%w %q", ErrUnknownOp, kind)
	}
	if len(args) != n {
		return Op{}, fmt.Errorf("%w: %s takes %d argument(s), usage %s", ErrBadArgs, kind, n, usage[kind])
	}
	for _, a := range args {
		if a == "" {
			return Op{}, fmt.Errorf("%w: empty argument, usage %s", ErrBadArgs, usage[kind])
		}
	}
	switch kind {
	case KindRename, KindWrap:
		if !tree.ValidName(args[1]) {
			return Op{}, fmt.Errorf("%w: %q is not a valid element name", ErrBadArgs, args[1])
		}
	case KindBold:
		row, err := strconv.Atoi(args[0])
		if err != nil || row < 1 {
			return Op{}, fmt.Errorf("%w: row must be a positive number, got %q", ErrBadArgs, args[0])
		}
	}
	return Op{Kind: kind, Args: args}, nil
}

// ParseAll parses each op in order, stopping at the first error
func ParseAll(specs []string) (Script, error) {
	script := make(Script, 0, len(specs))
	for _, s := range specs {
		op, err := Parse(s)
		if err != nil {
			return nil, err
		}
		script = append(script, op)
	}
	return script, nil
}

// String renders the op in the form Parse accepts
func (o Op) String() string {
	return strings.Join(append([]string{string(o.Kind)}, o.Args...), ":")
}

// Describe renders the op as a short sentence for humans
func (o Op) Describe() string {
	switch o.Kind {
	case KindRename:
		return fmt.Sprintf("rename <%s> to <%s>", o.Args[0], o.Args[1])
	case KindBold:
		return fmt.Sprintf("bold table row %s", o.Args[0])
	case KindRemove:
		return fmt.Sprintf("remove <%s>", o.Args[0])
	case KindWrap:
		return fmt.Sprintf("wrap %q in <%s>", o.Args[0], o.Args[1])
	default:
		return o.String()
	}
}

// Apply performs the op on t
func (o Op) Apply(t *tree.Tree) error {
	switch o.Kind {
	case KindRename:
		t.ReplaceTag(o.Args[0], o.Args[1])
	case KindBold:
		row, err := strconv.Atoi(o.Args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadArgs, err)
		}
		t.BoldRow(row)
	case KindRemove:
		t.RemoveTag(o.Args[0])
	case KindWrap:
		t.WrapWord(o.Args[0], o.Args[1])
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, o.Kind)
	}
	return nil
}

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
