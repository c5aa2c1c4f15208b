// Package main is the entry point for the cursorflow CLI.
package main

import (
	"os"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
