package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/roomstats/internal/config"
)

func setupExports(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	files := map[string]string{
		"a.csv": "1,X,12.30,12.28,12.5,0\n",
		"b.csv": "1,X,13.00,12.59,13.0,2\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write export: %v", err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return string(data)
}

func TestAggregateLegacyFlags(t *testing.T) {
	dir := setupExports(t)
	outDir := t.TempDir()

	stdout, err := execute(t, "--CSVdir", dir, "--Output", "summary", "--RTA", "--output-dir", outDir)
	if err != nil {
		t.Fatalf("execute failed: %v\n%s", err, stdout)
	}
	outPath := filepath.Join(outDir, "summary.csv")
	want := "RowIndex,RoomID,RoomName,N,BestTime,AverageTime,StdDevTime\n" +
		"0,1,X,2,12.5,12.75,0.25\n"
	if diff := cmp.Diff(want, readOutput(t, outPath)); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
	for _, line := range []string{
		"Output will use real time formatting (ss.ms).",
		"Output saved to " + outPath,
	} {
		if !strings.Contains(stdout, line) {
			t.Fatalf("stdout missing %q:\n%s", line, stdout)
		}
	}
}

func TestAggregatePrint(t *testing.T) {
	dir := setupExports(t)
	outDir := t.TempDir()

	stdout, err := execute(t, "--csv-dir", dir, "--output", "summary.xlsx", "--output-dir", outDir, "--print")
	if err != nil {
		t.Fatalf("execute failed: %v\n%s", err, stdout)
	}
	if _, err := os.Stat(filepath.Join(outDir, "summary.xlsx")); err != nil {
		t.Fatalf("expected xlsx output: %v", err)
	}
	for _, want := range []string{"Output will use practice segment time formatting (ss.ff).", "AverageTime", "12.45", "Times: practice segment (ss.ff)"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestAggregateMissingRequired(t *testing.T) {
	dir := setupExports(t)
	outDir := t.TempDir()

	stdout, err := execute(t, "--csv-dir", dir, "--output-dir", outDir)
	var missing *config.MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingError, got %v", err)
	}
	if diff := cmp.Diff([]string{"output"}, missing.Fields); diff != "" {
		t.Fatalf("unexpected missing fields (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Fatalf("expected usage output:\n%s", stdout)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no output files, got %d", len(entries))
	}
}

func TestAggregateConfigPrecedence(t *testing.T) {
	dir := setupExports(t)
	outDir := t.TempDir()
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "[aggregate]\ncsv-dir = \"" + filepath.ToSlash(dir) + "\"\noutput = \"fromfile\"\nrta = true\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROOMSTATS_OUTPUT", "fromenv")
	t.Setenv("ROOMSTATS_OUTPUT_DIR", outDir)

	if _, err := execute(t); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(readOutput(t, filepath.Join(outDir, "fromenv.csv")), "12.75") {
		t.Fatalf("expected real-time summary from file config")
	}

	if _, err := execute(t, "--output", "fromflag", "--rta=false"); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(readOutput(t, filepath.Join(outDir, "fromflag.csv")), "12.45") {
		t.Fatalf("expected practice-segment summary when flag overrides config")
	}
}

func TestAggregateInvalidLogLevel(t *testing.T) {
	dir := setupExports(t)
	_, err := execute(t, "--csv-dir", dir, "--output", "x", "--output-dir", t.TempDir(), "--log-level", "chatty")
	if err == nil || !strings.Contains(err.Error(), "log-level") {
		t.Fatalf("expected log level error, got %v", err)
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if diff := cmp.Diff(config.FileConfig{}, cfg); diff != "" {
		t.Fatalf("template should leave every value unset (-want +got):\n%s", diff)
	}
}
