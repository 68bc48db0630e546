// Package main is the entry point for the diaria CLI.
package main

import (
	"os"

	"github.com/camara-itapoa/diaria-engine/cmd/diaria/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
