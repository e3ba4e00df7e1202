package main

import (
	"fmt"
	"os"

	"github.com/pkgcraft/go-pkgcraft/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Operate on package versions",
}

var versionCompareCmd = &cobra.Command{
	Use:   "compare <version1> <op> <version2>",
	Short: "Compare two versions using an operator (<, <=, ==, !=, >=, >)",
	Args:  cobra.ExactArgs(3),
	Run:   runVersionCompare,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.AddCommand(versionCompareCmd)
}

func runVersionCompare(cmd *cobra.Command, args []string) {
	a, err := version.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", args[0], err)
		os.Exit(1)
	}
	b, err := version.Parse(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", args[2], err)
		os.Exit(1)
	}

	c := version.Compare(a, b)
	result := false
	switch args[1] {
	case "<":
		result = c < 0
	case "<=":
		result = c <= 0
	case "==":
		result = c == 0
	case "!=":
		result = c != 0
	case ">=":
		result = c >= 0
	case ">":
		result = c > 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown operator %q\n", args[1])
		os.Exit(1)
	}

	if !result {
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "true")
}
