// Package tree holds the in-memory form of a line-oriented markup document.
// Each node keeps a first-child and a next-sibling link, which is enough to
// represent an ordered tree of any arity. The package builds trees from lines,
// edits them in place (rename, bold a table row, remove a tag, wrap a word)
// and writes them back out one token per line.
package tree
