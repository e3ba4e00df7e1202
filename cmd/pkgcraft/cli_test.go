package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	expected := []string{"version", "atom", "repo"}
	for _, use := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Use == use {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q subcommand to be registered", use)
		}
	}
}

func TestVersionCompareSubcommand(t *testing.T) {
	found := false
	for _, cmd := range versionCmd.Commands() {
		if strings.HasPrefix(cmd.Use, "compare") {
			found = true
		}
	}
	if !found {
		t.Error("version compare subcommand should exist")
	}
}

func TestAtomParseFlags(t *testing.T) {
	flag := atomParseCmd.Flags().Lookup("eapi")
	if flag == nil {
		t.Error("atom parse should have an --eapi flag")
	}
}

func TestRepoSubcommands(t *testing.T) {
	expected := []string{"list", "search"}
	for _, name := range expected {
		found := false
		for _, cmd := range repoCmd.Commands() {
			if strings.HasPrefix(cmd.Use, name) {
				found = true
			}
		}
		if !found {
			t.Errorf("repo %s subcommand should exist", name)
		}
	}
}

func TestVersionCompareExecutesTrueComparison(t *testing.T) {
	out, err := executeCommand(rootCmd, "version", "compare", "1.0", "<", "2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "true") {
		t.Fatalf("expected output to contain 'true', got %q", out)
	}
}

func TestAtomParseExecutesValidAtom(t *testing.T) {
	out, err := executeCommand(rootCmd, "atom", "parse", "dev-libs/openssl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "category: dev-libs") || !strings.Contains(out, "package: openssl") {
		t.Fatalf("expected parsed category/package in output, got %q", out)
	}
}

func TestRepoSearchHasQueryFlag(t *testing.T) {
	flag := repoSearchCmd.Flags().Lookup("query")
	if flag == nil {
		t.Fatal("repo search should have a --query flag")
	}
}
