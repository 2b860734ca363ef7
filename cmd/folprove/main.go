// Package main provides the CLI entry point for folprove.
package main

import (
	"os"

	"github.com/foltheorem/folprove/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
