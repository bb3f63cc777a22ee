// Package main is the entry point for the quizzed CLI.
package main

import (
	"os"

	"github.com/David256/quizzed-backend/cmd/quizzed/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
