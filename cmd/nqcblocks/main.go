package main

import (
	"os"

	"github.com/nqc-blocks/nqcblocks/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
