// Command glyphfield renders glyph distance fields from the command line.
//
// Usage:
//
//	glyphfield generate ABC --font builtin:goregular --mode msdf --out fields/
//	glyphfield atlas --preset ui-msdf --out atlas/
//	glyphfield presets --config glyphfield.yml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
