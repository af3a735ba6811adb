package main

import (
	"os"

	"github.com/tinybird-community/tinybird-go/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
