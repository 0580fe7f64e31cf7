package main

import (
	"os"

	"github.com/StarRy7c/Gamebot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
