package main

import (
	"fmt"
	"os"

	"github.com/nbench/envprofile/cmd/envprofile"
)

func main() {
	rootCmd := envprofile.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Failures are a single structured object so callers never
		// have to parse free-form stderr.
		fmt.Fprintln(os.Stdout, envprofile.RenderError(err))
		os.Exit(1)
	}
}
