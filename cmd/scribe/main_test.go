package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := runCLI(t, []string{"--help"})
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"start", "stop", "toggle", "cancel", "status", "config", "domains"} {
		requireContains(t, out, name)
	}
	if strings.Contains(out, "daemon ") && strings.Contains(out, "foreground") {
		t.Fatal("hidden daemon command should not appear in help")
	}
}

func TestDomainsCommandListsPresets(t *testing.T) {
	out, err := runCLI(t, []string{"domains"})
	if err != nil {
		t.Fatalf("domains: %v", err)
	}
	for _, domain := range []string{"general", "dev", "medical", "legal", "finance"} {
		requireContains(t, out, domain)
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Scribe", statusOK, "Running", false)
	requireContains(t, line, "Scribe:")
	requireContains(t, line, "[OK] Running")
	if strings.Contains(line, ansiGreen) {
		t.Fatal("colorless render should not emit ANSI codes")
	}

	colored := renderStatusLine("Scribe", statusError, "gone", true)
	requireContains(t, colored, ansiRed)
	requireContains(t, colored, ansiReset)
}
