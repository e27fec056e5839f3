// Package main provides the entry point for the logvet CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/logvet/cmd/logvet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
