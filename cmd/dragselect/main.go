// Package main is the entry point for the dragselect terminal demo.
package main

import (
	"os"

	"github.com/dshills/dragselect/cmd/dragselect/commands"
)

func main() {
	os.Exit(commands.Execute())
}
