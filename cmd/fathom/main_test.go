package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/config"
)

const issuesJSON = `[
  {"key": "FAT-1", "fields": {"summary": "Kittens are cute", "description": "wool and lasers", "status": "To Do"}},
  {"key": "FAT-2", "fields": {"summary": "Bears are cute", "description": "wool and beer", "status": "Done"}},
  {"key": "FAT-3", "fields": {"summary": "Unrelated", "status": "Done"}}
]`

// execute runs the root command with a throwaway config and env file.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	dir := t.TempDir()
	docs := filepath.Join(dir, "issues.json")
	if err := os.WriteFile(docs, []byte(issuesJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	base := []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
		"--documents", docs,
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, base...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		counter string
	}{
		{"all", []string{"query"}, []string{"FAT-1", "FAT-2", "FAT-3"}, "3/3 matched"},
		{"terms", []string{"query", "wool"}, []string{"FAT-1", "FAT-2"}, "2/3 matched"},
		{"every term", []string{"query", "wool", "beer"}, []string{"FAT-2"}, "1/3 matched"},
		{"limit", []string{"query", "--limit", "1", "cute"}, []string{"FAT-1"}, "2/3 matched"},
		{"none", []string{"query", "zebra"}, nil, "0/3 matched"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			var keys []string
			for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
				if f := strings.Fields(line); len(f) > 0 {
					keys = append(keys, f[0])
				}
			}
			if strings.Join(keys, ",") != strings.Join(tt.want, ",") {
				t.Errorf("keys = %v, want %v", keys, tt.want)
			}
			if !strings.Contains(stderr, tt.counter) {
				t.Errorf("stderr = %q, want %q", stderr, tt.counter)
			}
		})
	}
}

func TestQuery_PrintsSummary(t *testing.T) {
	stdout, _, err := execute(t, "query", "lasers")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Kittens are cute") {
		t.Errorf("stdout = %q, want the summary", stdout)
	}
}

func TestQuery_ShowExtract(t *testing.T) {
	stdout, _, err := execute(t, "query", "--show-extract", "beer")
	if err != nil {
		t.Fatal(err)
	}
	want := "    FAT-2 k=FAT-2 Bears are cute wool and beer none none st=DONE"
	if !strings.Contains(stdout, want+"\n") {
		t.Errorf("stdout = %q, want extract line %q", stdout, want)
	}
}

func TestQuery_MissingDocuments(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	dir := t.TempDir()
	cmd.SetArgs([]string{"query",
		"--config", filepath.Join(dir, "config.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
		"--documents", filepath.Join(dir, "missing.json"),
	})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing document file")
	}
}

func TestVersion(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != "v1.2.3" {
		t.Errorf("version = %q, want v1.2.3", stdout)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")
	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"config", "init", "--config", path, "--env-file", filepath.Join(dir, ".env")}, args...))
		return cmd.Execute()
	}

	if err := run(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tick_interval: 500ms") {
		t.Errorf("config file missing defaults:\n%s", data)
	}

	if err := run(); err == nil {
		t.Error("second init overwrote the file without --force")
	}
	if err := run("--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	stdout, _, err := execute(t, "config", "show", "--debug")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"debug: true", "level: debug", "issues.json"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}
}

type quitModel struct{}

func (quitModel) Init() tea.Cmd                       { return tea.Quit }
func (quitModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return quitModel{}, tea.Quit }
func (quitModel) View() string                        { return "" }

func TestProgramOptions_LeavesTerminalModesToDecoder(t *testing.T) {
	cfg := config.Default()
	cfg.UI.AltScreen = false

	var out bytes.Buffer
	opts := append(programOptions(context.Background(), cfg), tea.WithOutput(&out), tea.WithoutSignalHandler())
	if _, err := tea.NewProgram(quitModel{}, opts...).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), "\x1b[?2004h") {
		t.Errorf("program enabled bracketed paste: %q", out.String())
	}
}
