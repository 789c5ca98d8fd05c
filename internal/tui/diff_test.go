package tui

import (
	"fmt"
	"testing"
)

func ops(diff []DiffLine) string {
	s := ""
	for _, d := range diff {
		switch d.Op {
		case DiffEqual:
			s += "="
		case DiffInsert:
			s += "+"
		case DiffDelete:
			s += "-"
		case DiffSeparator:
			s += "@"
		}
	}
	return s
}

func TestComputeDiff(t *testing.T) {
	tests := []struct {
		name          string
		before, after []string
		want          string
	}{
		{"equal", []string{"a", "b"}, []string{"a", "b"}, "=="},
		{"insert", []string{"a", "c"}, []string{"a", "b", "c"}, "=+="},
		{"delete", []string{"a", "b", "c"}, []string{"a", "c"}, "=-="},
		{"replace", []string{"a", "b", "c"}, []string{"a", "x", "c"}, "=-+="},
		{"empty before", nil, []string{"a"}, "+"},
		{"empty after", []string{"a"}, nil, "-"},
		{"wrap", []string{"<td>", "cat", "</td>"}, []string{"<td>", "<b>", "cat", "</b>", "</td>"}, "=+=+="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ops(ComputeDiff(tt.before, tt.after)); got != tt.want {
				t.Errorf("ComputeDiff = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeDiffLargeCore(t *testing.T) {
	var before, after []string
	before = append(before, "head")
	after = append(after, "head")
	for i := 0; i < maxLCSLines; i++ {
		before = append(before, fmt.Sprintf("old %d", i))
		after = append(after, fmt.Sprintf("new %d", i))
	}
	before = append(before, "tail")
	after = append(after, "tail")

	diff := ComputeDiff(before, after)
	ins, del := DiffStats(diff)
	if ins != maxLCSLines || del != maxLCSLines {
		t.Errorf("expected %d inserts and deletes, got %d/%d", maxLCSLines, ins, del)
	}
	if diff[0].Op != DiffEqual || diff[len(diff)-1].Op != DiffEqual {
		t.Error("expected common prefix and suffix to stay equal")
	}
}

func TestContextDiff(t *testing.T) {
	var before []string
	for i := 0; i < 20; i++ {
		before = append(before, fmt.Sprintf("line %d", i))
	}
	after := append([]string{}, before...)
	after[10] = "changed"

	got := ops(ContextDiff(ComputeDiff(before, after), 2))
	if got != "@==-+==@" {
		t.Errorf("ContextDiff = %s", got)
	}

	if ContextDiff(ComputeDiff(before, before), 3) != nil {
		t.Error("expected nil when nothing changed")
	}
}
