package main

import (
	"os"

	"github.com/jmccallister93/take-action/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
