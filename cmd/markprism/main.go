// Command markprism edits line-oriented markup documents as trees.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
