package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pkgcraft",
	Short: "Gentoo package metadata tools",
	Long:  `Command-line tools for parsing and querying Gentoo-compatible package metadata.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
