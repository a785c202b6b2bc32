// Package main is the entry point for the inbox CLI.
package main

import (
	"fmt"
	"os"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := inboxtui.Execute(fmt.Sprintf("%s (%s, %s)", version, commit, date)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
