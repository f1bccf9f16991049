package main

import (
	"os"

	"github.com/bookwright-dev/bookwright/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
