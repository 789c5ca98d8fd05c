package tree

import "strings"

// WrapWord wraps every whole-word occurrence of word in the document's text
// with a new element named tagName. Matching ignores case; the wrapped text
// keeps the capitalization it had in the document.
//
// A candidate only counts as a whole word when it is followed by the end of
// the text, a space, or one of . , ! ? that is itself followed by the end of
// the text or a space. That punctuation mark moves into the wrapped text.
// What precedes the candidate is not checked. An invalid tagName (see
// ValidName) leaves the tree unchanged.
func (t *Tree) WrapWord(word, tagName string) {
	if t.Empty() || word == "" || !ValidName(tagName) {
		return
	}
	wrapWord(t.root.FirstChild, word, tagName)
}

func wrapWord(n *Node, word, tagName string) {
	for n != nil {
		if !n.IsLeaf() {
			wrapWord(n.FirstChild, word, tagName)
			n = n.NextSibling
			continue
		}

		start, end, ok := findWholeWord(n.Label, word)
		if !ok {
			n = n.NextSibling
			continue
		}
		n = splitLeaf(n, start, end, tagName)
	}
}

// splitLeaf turns leaf into [before] <tagName>match</tagName> [after] and
// returns the node that follows the new element. No empty text leaf is ever
// created: without before text the leaf itself becomes the element.
func splitLeaf(leaf *Node, start, end int, tagName string) *Node {
	text := leaf.Label
	before, match, after := text[:start], text[start:end], text[end:]

	next := leaf.NextSibling
	if after != "" {
		next = &Node{Label: after, NextSibling: next}
	}

	wrapped := leaf
	if before != "" {
		wrapped = &Node{}
		leaf.Label = before
		leaf.NextSibling = wrapped
	}
	wrapped.Label = tagName
	wrapped.FirstChild = &Node{Label: match}
	wrapped.NextSibling = next

	return next
}

// findWholeWord returns the byte range of the first whole-word, case-insensitive
// occurrence of word in text, including an absorbed trailing punctuation mark.
func findWholeWord(text, word string) (start, end int, ok bool) {
	for i := 0; i+len(word) <= len(text); i++ {
		if !strings.EqualFold(text[i:i+len(word)], word) {
			continue
		}
		if n, accepted := boundary(text[i+len(word):]); accepted {
			return i, i + len(word) + n, true
		}
	}
	return 0, 0, false
}

// boundary checks the text following a candidate match. It reports whether the
// match stands as a whole word and how many punctuation bytes it absorbs.
func boundary(rest string) (absorb int, ok bool) {
	switch {
	case rest == "":
		return 0, true
	case rest[0] == ' ':
		return 0, true
	case isSentencePunct(rest[0]) && (len(rest) == 1 || rest[1] == ' '):
		return 1, true
	}
	return 0, false
}

func isSentencePunct(c byte) bool {
	return c == '.' || c == ',' || c == '!' || c == '?'
}
