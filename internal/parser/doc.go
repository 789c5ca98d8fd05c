// Package parser classifies the lines of the one-token-per-line markup dialect
// and reads them from an input stream. Every line is exactly one of an opening
// tag, a closing tag or a run of literal text.
package parser
