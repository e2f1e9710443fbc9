package main

import (
	"os"

	"github.com/officefood/officefood/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
