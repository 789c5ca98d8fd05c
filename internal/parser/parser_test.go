package parser

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		kind TokenKind
		name string
	}{
		{"<html>", TokenOpen, "html"},
		{"</html>", TokenClose, "html"},
		{"<td>", TokenOpen, "td"},
		{"</td>", TokenClose, "td"},
		{"The cat sat.", TokenText, ""},
		{"a/b", TokenText, ""},
		{"<", TokenText, ""},
		{"", TokenText, ""},
		{" <p>", TokenText, ""},
		{"1 < 2 > 0", TokenText, ""},
	}
	for _, tt := range tests {
		tok := Classify(tt.line)
		if tok.Kind != tt.kind {
			t.Errorf("Classify(%q).Kind = %s, want %s", tt.line, tok.Kind, tt.kind)
		}
		if tok.Name != tt.name {
			t.Errorf("Classify(%q).Name = %q, want %q", tt.line, tok.Name, tt.name)
		}
		if tok.Raw != tt.line {
			t.Errorf("Classify(%q).Raw = %q", tt.line, tok.Raw)
		}
	}
}

func TestTagLines(t *testing.T) {
	if got := OpenTag("tr"); got != "<tr>" {
		t.Errorf("Expected '<tr>', got '%s'", got)
	}
	if got := CloseTag("tr"); got != "</tr>" {
		t.Errorf("Expected '</tr>', got '%s'", got)
	}
}

func TestReadLines(t *testing.T) {
	input := "<html>\r\n<p>\nhello\n</p>\n</html>"

	lines, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to read lines: %v", err)
	}

	want := []string{"<html>", "<p>", "hello", "</p>", "</html>"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestReadLinesLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)

	lines, err := ReadLines(strings.NewReader(long + "\n"))
	if err != nil {
		t.Fatalf("Failed to read long line: %v", err)
	}
	if len(lines) != 1 || len(lines[0]) != len(long) {
		t.Errorf("Expected one line of %d bytes", len(long))
	}
}

func TestReadLinesEmpty(t *testing.T) {
	lines, err := ReadLines(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Failed to read empty input: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected 0 lines, got %d", len(lines))
	}
}

func TestSummarize(t *testing.T) {
	lines := []string{"<html>", "<table>", "<tr>", "<td>", "a", "</td>", "</tr>", "</table>", "</html>"}

	s := Summarize(lines)
	if !s.Balanced {
		t.Errorf("Expected balanced document, problem at line %d", s.FirstProblem)
	}
	if s.Open != 4 || s.Close != 4 || s.Text != 1 {
		t.Errorf("Expected 4/4/1 tokens, got %d/%d/%d", s.Open, s.Close, s.Text)
	}
	if s.MaxDepth != 4 {
		t.Errorf("Expected depth 4, got %d", s.MaxDepth)
	}
	if s.Lines != len(lines) {
		t.Errorf("Expected %d lines, got %d", len(lines), s.Lines)
	}
}

func TestSummarizeProblems(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		line  int
	}{
		{"stray closer", []string{"<html>", "</p>", "</html>"}, 2},
		{"wrong closer", []string{"<html>", "<p>", "x", "</b>", "</html>"}, 4},
		{"unclosed", []string{"<html>", "<p>", "x", "</p>", "<b>", "y"}, 5},
	}
	for _, tt := range tests {
		s := Summarize(tt.lines)
		if s.Balanced {
			t.Errorf("%s: expected unbalanced", tt.name)
		}
		if s.FirstProblem != tt.line {
			t.Errorf("%s: expected problem at line %d, got %d", tt.name, tt.line, s.FirstProblem)
		}
	}
}
