package tree

import (
	"bufio"
	"io"
	"strings"

	"github.com/CaptShanks/markprism/internal/parser"
)

// Lines serializes the tree one token per line. For a tree built from a
// well-formed document with no empty elements it returns the original lines.
func (t *Tree) Lines() []string {
	var lines []string
	t.emit(func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines
}

// HTML returns the serialized document with a newline after every line
func (t *Tree) HTML() string {
	var sb strings.Builder
	t.emit(func(line string) error {
		sb.WriteString(line)
		sb.WriteByte('\n')
		return nil
	})
	return sb.String()
}

// WriteTo writes the serialized document to w, a newline after every line
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	err := t.emit(func(line string) error {
		n, err := bw.WriteString(line)
		written += int64(n)
		if err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, bw.Flush()
}

func (t *Tree) emit(fn func(string) error) error {
	if t.Empty() {
		return nil
	}
	return emit(t.root, fn)
}

func emit(n *Node, fn func(string) error) error {
	for ; n != nil; n = n.NextSibling {
		if n.IsLeaf() {
			if err := fn(n.Label); err != nil {
				return err
			}
			continue
		}
		if err := fn(parser.OpenTag(n.Label)); err != nil {
			return err
		}
		if err := emit(n.FirstChild, fn); err != nil {
			return err
		}
		if err := fn(parser.CloseTag(n.Label)); err != nil {
			return err
		}
	}
	return nil
}
