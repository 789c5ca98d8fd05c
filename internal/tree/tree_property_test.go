package tree

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	genTags  = []string{"table", "tr", "td", "ul", "ol", "li", "p", "b", "em"}
	// edits may also be asked for names that can't label an element
	editTags = append([]string{"a>b", "<i", "/p"}, genTags...)
	genTexts = []string{"The cat sat.", "cat", "cats.", "Cat, again", "td", "li", "x", "a cat!", "category cat"}
)

// documentFrom turns a stream of small numbers into a well-formed document in
// which every element has at least one child.
func documentFrom(program []int) []string {
	lines := []string{"<html>"}
	var stack []string
	filled := []bool{false}

	closeTop := func() {
		if !filled[len(filled)-1] {
			lines = append(lines, genTexts[len(lines)%len(genTexts)])
		}
		lines = append(lines, "</"+stack[len(stack)-1]+">")
		stack = stack[:len(stack)-1]
		filled = filled[:len(filled)-1]
		filled[len(filled)-1] = true
	}

	for i, v := range program {
		switch {
		case v < 3 && len(stack) < 6:
			tag := genTags[(v*7+i)%len(genTags)]
			lines = append(lines, "<"+tag+">")
			stack = append(stack, tag)
			filled[len(filled)-1] = true
			filled = append(filled, false)
		case v < 5 && len(stack) > 0:
			closeTop()
		default:
			lines = append(lines, genTexts[(v+i)%len(genTexts)])
			filled[len(filled)-1] = true
		}
	}
	for len(stack) > 0 {
		closeTop()
	}
	// no edit below can match this line, so the root never ends up childless
	return append(lines, "The end.", "</html>")
}

// applyEdits runs an edit sequence chosen by ops against tr
func applyEdits(tr *Tree, ops []int) {
	for i, op := range ops {
		tag := genTags[(op+i)%len(genTags)]
		switch op % 4 {
		case 0:
			tr.ReplaceTag(tag, editTags[(op+2*i+1)%len(editTags)])
		case 1:
			tr.BoldRow(op%3 + 1)
		case 2:
			tr.RemoveTag(tag)
		case 3:
			tr.WrapWord("cat", editTags[(op+i)%len(editTags)])
		}
	}
}

func checkInvariants(tr *Tree) bool {
	ok := true
	tr.Walk(func(n *Node, _ int) bool {
		if !n.IsLeaf() && (strings.ContainsAny(n.Label, "<>") || strings.HasPrefix(n.Label, "/")) {
			ok = false
		}
		return true
	})
	return ok
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTreeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	programGen := gen.SliceOf(gen.IntRange(0, 8))
	editsGen := gen.SliceOfN(6, gen.IntRange(0, 40))

	properties.Property("serialize inverts build", prop.ForAll(
		func(program []int) bool {
			lines := documentFrom(program)
			return equalLines(lines, Build(lines).Lines())
		},
		programGen,
	))

	properties.Property("edits keep element names bracket free", prop.ForAll(
		func(program, edits []int) bool {
			tr := Build(documentFrom(program))
			applyEdits(tr, edits)
			return checkInvariants(tr)
		},
		programGen, editsGen,
	))

	properties.Property("edited output reparses to itself", prop.ForAll(
		func(program, edits []int) bool {
			tr := Build(documentFrom(program))
			applyEdits(tr, edits)
			out := tr.Lines()
			return equalLines(out, Build(out).Lines())
		},
		programGen, editsGen,
	))

	properties.Property("remove is idempotent", prop.ForAll(
		func(program []int, pick int) bool {
			name := genTags[pick%len(genTags)]
			tr := Build(documentFrom(program))
			tr.RemoveTag(name)
			once := tr.Lines()
			tr.RemoveTag(name)
			return !tr.HasTag(name) && equalLines(once, tr.Lines())
		},
		programGen, gen.IntRange(0, 100),
	))

	properties.Property("single-pass remove matches rescanning", prop.ForAll(
		func(program []int, pick int) bool {
			name := genTags[pick%len(genTags)]
			lines := documentFrom(program)
			got := Build(lines)
			got.RemoveTag(name)
			want := Build(lines)
			rescanRemove(want, name)
			return equalLines(want.Lines(), got.Lines())
		},
		programGen, gen.IntRange(0, 100),
	))

	properties.Property("renaming to the same name changes nothing", prop.ForAll(
		func(program []int, pick int) bool {
			name := genTags[pick%len(genTags)]
			lines := documentFrom(program)
			tr := Build(lines)
			tr.ReplaceTag(name, name)
			return equalLines(lines, tr.Lines())
		},
		programGen, gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
