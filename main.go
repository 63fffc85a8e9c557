package main

import (
	"github.com/xkilldash9x/windmouse-cli/cmd"
)

// main is the entry point for the windmouse CLI. Command-line parsing,
// configuration and execution all live in the cmd package.
func main() {
	cmd.Execute()
}
