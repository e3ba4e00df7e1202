package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkgcraft/go-pkgcraft/internal/config"
	"github.com/pkgcraft/go-pkgcraft/internal/diag"
	"github.com/pkgcraft/go-pkgcraft/internal/repo"
	"github.com/spf13/cobra"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Operate on repositories",
}

var repoCatalogPath string

var repoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories known to the configured catalog",
	Run:   runRepoList,
}

func init() {
	repoCmd.PersistentFlags().StringVar(&repoCatalogPath, "catalog", "repos.yaml", "path to the repo catalog")
	rootCmd.AddCommand(repoCmd)
	repoCmd.AddCommand(repoListCmd)
}

func runRepoList(cmd *cobra.Command, args []string) {
	cat, err := config.LoadRepoCatalog(repoCatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	for id, entry := range cat.Repos {
		masters, err := cat.ResolveMasterPaths(id)
		sink := diag.NewCollector()
		if err != nil {
			sink.Record(diag.Diagnostic{Severity: diag.SeverityError, Repo: id, Message: "master resolution failed", Err: err})
		}

		r, err := repo.Open(entry.Path, entry.Priority, masters, sink)
		status := color.GreenString("ok")
		if err != nil {
			status = color.RedString("error: %v", err)
		} else if sink.HasErrors() {
			status = color.YellowString("warnings")
		}
		if r != nil {
			fmt.Printf("%-20s priority=%-5d %s\n", r.ID(), r.Priority(), status)
		} else {
			fmt.Printf("%-20s priority=%-5d %s\n", id, entry.Priority, status)
		}
		for _, d := range sink.Items() {
			renderDiagnostic(d)
		}
	}
}

func renderDiagnostic(d diag.Diagnostic) {
	prefix := color.YellowString("warning")
	if d.Severity == diag.SeverityError {
		prefix = color.RedString("error")
	}
	if d.Err != nil {
		fmt.Fprintf(os.Stderr, "  %s: %s/%s: %s: %v\n", prefix, d.Repo, d.Pkg, d.Message, d.Err)
	} else {
		fmt.Fprintf(os.Stderr, "  %s: %s/%s: %s\n", prefix, d.Repo, d.Pkg, d.Message)
	}
}
