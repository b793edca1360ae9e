package main

import (
	"os"

	"github.com/stockwise/backend/cmd/stockwise/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
