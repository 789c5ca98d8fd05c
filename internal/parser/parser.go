package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TokenKind represents what a single input line denotes
type TokenKind string

const (
	TokenOpen  TokenKind = "open"
	TokenClose TokenKind = "close"
	TokenText  TokenKind = "text"
)

// Token is a classified input line
type Token struct {
	Kind TokenKind
	Name string // element name for open/close tokens, empty for text
	Raw  string
}

// Summary describes the token mix of a document without validating it
type Summary struct {
	Lines    int
	Open     int
	Close    int
	Text     int
	MaxDepth int
	Balanced bool
	// FirstProblem is the 1-based line of the first closer without a matching
	// opener, or of the opener left unclosed at the end. Zero when balanced.
	FirstProblem int
}

const maxLineSize = 1024 * 1024

// Classify determines the token kind of a line
func Classify(line string) Token {
	if len(line) >= 3 && strings.HasPrefix(line, "</") && strings.HasSuffix(line, ">") {
		return Token{Kind: TokenClose, Name: line[2 : len(line)-1], Raw: line}
	}
	if len(line) >= 2 && line[0] == '<' && line[len(line)-1] == '>' {
		return Token{Kind: TokenOpen, Name: line[1 : len(line)-1], Raw: line}
	}
	return Token{Kind: TokenText, Raw: line}
}

// OpenTag renders the opening tag line for an element name
func OpenTag(name string) string {
	return "<" + name + ">"
}

// CloseTag renders the closing tag line for an element name
func CloseTag(name string) string {
	return "</" + name + ">"
}

// ReadLines reads every line of r in order. Line terminators (including a
// trailing carriage return) are not part of the returned lines.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	// Long text runs are legal, so allow lines well past the 64K default
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// Summarize counts tokens and checks tag nesting. Names are matched so a
// closer for the wrong element is reported as a problem too.
func Summarize(lines []string) Summary {
	s := Summary{Lines: len(lines), Balanced: true}
	var stack []string
	var openedAt []int

	for i, line := range lines {
		tok := Classify(line)
		switch tok.Kind {
		case TokenOpen:
			s.Open++
			stack = append(stack, tok.Name)
			openedAt = append(openedAt, i+1)
			if len(stack) > s.MaxDepth {
				s.MaxDepth = len(stack)
			}
		case TokenClose:
			s.Close++
			if len(stack) == 0 || stack[len(stack)-1] != tok.Name {
				if s.Balanced {
					s.Balanced = false
					s.FirstProblem = i + 1
				}
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
					openedAt = openedAt[:len(openedAt)-1]
				}
				continue
			}
			stack = stack[:len(stack)-1]
			openedAt = openedAt[:len(openedAt)-1]
		default:
			s.Text++
		}
	}

	if len(stack) > 0 && s.Balanced {
		s.Balanced = false
		s.FirstProblem = openedAt[len(openedAt)-1]
	}
	return s
}
