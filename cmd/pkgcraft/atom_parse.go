package main

import (
	"fmt"
	"os"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
	"github.com/spf13/cobra"
)

var atomCmd = &cobra.Command{
	Use:   "atom",
	Short: "Operate on package atoms",
}

var atomParseCmd = &cobra.Command{
	Use:   "parse <atom>",
	Short: "Parse a dependency atom and print its components",
	Args:  cobra.ExactArgs(1),
	Run:   runAtomParse,
}

var atomParseEapi string

func init() {
	atomParseCmd.Flags().StringVar(&atomParseEapi, "eapi", eapi.Latest.ID(), "EAPI to parse against")
	rootCmd.AddCommand(atomCmd)
	atomCmd.AddCommand(atomParseCmd)
}

func runAtomParse(cmd *cobra.Command, args []string) {
	e, err := eapi.Get(atomParseEapi)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown EAPI %q\n", atomParseEapi)
		os.Exit(1)
	}

	d, err := atom.ParseDep(args[0], e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", args[0], err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "category: %s\n", d.Category)
	fmt.Fprintf(out, "package: %s\n", d.Package)
	if d.HasVersion {
		fmt.Fprintf(out, "version: %s\n", d.Version.String())
	}
	if d.HasSlot {
		fmt.Fprintf(out, "slot: %s\n", d.Slot)
	}
	if d.HasSubslot {
		fmt.Fprintf(out, "subslot: %s\n", d.Subslot)
	}
	if d.HasRepo {
		fmt.Fprintf(out, "repo: %s\n", d.Repo)
	}
	if len(d.UseDeps) > 0 {
		fmt.Fprintf(out, "use deps: %v\n", d.UseDepsSet())
	}
}
