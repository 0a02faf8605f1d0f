// Package main provides the CLI entrypoint for roomstats.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verte-zerg/roomstats/internal/config"
	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/pipeline"
	"github.com/verte-zerg/roomstats/internal/stats"
	"github.com/verte-zerg/roomstats/internal/statsui"
)

const defaultLogLevel = "warn"

// Flag spellings accepted for compatibility with older scripts.
var legacyFlags = map[string]string{
	"CSVdir": "csv-dir",
	"Output": "output",
	"RTA":    "rta",
}

var (
	aggregateCSVDir    string
	aggregateOutput    string
	aggregateOutputDir string
	aggregateRTA       bool
	aggregateKeepParts bool
	aggregatePrint     bool
	aggregateLogLevel  string

	viewCSVDir string
	viewRTA    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "roomstats",
		Short: "Summarize per-room times across speedrun attempts",
		Long: "Process room times for a single route/category from CSV exports.\n" +
			"Each file may hold several attempts; attempts are split at resets,\n" +
			"aligned by room position and summarized per row.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAggregateCmd,
	}

	rootCmd.Flags().StringVar(&aggregateCSVDir, "csv-dir", "", "directory containing the CSV exports (required)")
	rootCmd.Flags().StringVar(&aggregateOutput, "output", "", "name of the output file; .csv is appended unless it ends in .csv or .xlsx (required)")
	rootCmd.Flags().StringVar(&aggregateOutputDir, "output-dir", "", "directory for relative output names (default: current directory)")
	rootCmd.Flags().BoolVar(&aggregateRTA, "rta", false, "summarize real time (ss.ms) instead of practice segment time (ss.ff)")
	rootCmd.Flags().BoolVar(&aggregateKeepParts, "keep-parts", false, "write each split attempt to <csv-dir>/"+pipeline.PartsDir)
	rootCmd.Flags().BoolVar(&aggregatePrint, "print", false, "print the summary table after writing it")
	rootCmd.Flags().StringVar(&aggregateLogLevel, "log-level", defaultLogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newViewCmd())

	return rootCmd
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := legacyFlags[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

func runAggregateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			if uerr := cmd.Usage(); uerr != nil {
				// Best-effort usage output.
				_ = uerr
			}
		}
		return err
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Output will use %s.\n", modeDescription(cfg.Mode)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	res, err := pipeline.Run(commandContext(cmd), afero.NewOsFs(), cfg, log)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoAttempts) {
			logErrf("No attempts found. Check that --csv-dir points at the exported CSV files.\n")
		}
		return err
	}
	if _, err := fmt.Fprintf(out, "Output saved to %s\n", res.OutputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if aggregatePrint {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderSummary(out, res.Rows); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	}
	return nil
}

// resolveRunConfig merges settings with precedence flag > environment >
// config file > flag default.
func resolveRunConfig(cmd *cobra.Command) (model.RunConfig, error) {
	settings, err := loadSettings()
	if err != nil {
		return model.RunConfig{}, err
	}
	applyStringConfig(cmd, "csv-dir", &aggregateCSVDir, settings.CSVDir)
	applyStringConfig(cmd, "output", &aggregateOutput, settings.Output)
	applyStringConfig(cmd, "output-dir", &aggregateOutputDir, settings.OutputDir)
	applyBoolConfig(cmd, "rta", &aggregateRTA, settings.RTA)
	applyBoolConfig(cmd, "keep-parts", &aggregateKeepParts, settings.KeepParts)
	applyStringConfig(cmd, "log-level", &aggregateLogLevel, settings.LogLevel)

	return model.RunConfig{
		CSVDir:    aggregateCSVDir,
		Output:    aggregateOutput,
		OutputDir: aggregateOutputDir,
		Mode:      modeFor(aggregateRTA),
		KeepParts: aggregateKeepParts,
		LogLevel:  strings.ToLower(strings.TrimSpace(aggregateLogLevel)),
	}, nil
}

func loadSettings() (config.AggregateConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.AggregateConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return config.AggregateConfig{}, err
	}
	return config.Merge(fileCfg.Aggregate, envCfg), nil
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}

func modeFor(rta bool) model.TimeMode {
	if rta {
		return model.ModeRealTime
	}
	return model.ModePracticeSegment
}

func modeDescription(mode model.TimeMode) string {
	if mode == model.ModeRealTime {
		return "real time formatting (ss.ms)"
	}
	return "practice segment time formatting (ss.ff)"
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the summary in a terminal table",
		Args:  cobra.NoArgs,
		RunE:  runViewCmd,
	}
	cmd.Flags().StringVar(&viewCSVDir, "csv-dir", "", "directory containing the CSV exports (required)")
	cmd.Flags().BoolVar(&viewRTA, "rta", false, "start in real time mode")
	return cmd
}

func runViewCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "csv-dir", &viewCSVDir, settings.CSVDir)
	applyBoolConfig(cmd, "rta", &viewRTA, settings.RTA)
	if viewCSVDir == "" {
		if uerr := cmd.Usage(); uerr != nil {
			// Best-effort usage output.
			_ = uerr
		}
		return &config.MissingError{Fields: []string{"csv-dir"}}
	}

	log, err := newLogger(cmd.ErrOrStderr(), "")
	if err != nil {
		return err
	}
	cfg := model.RunConfig{CSVDir: viewCSVDir, Mode: modeFor(viewRTA)}
	aligned, _, err := pipeline.Analyze(commandContext(cmd), afero.NewOsFs(), cfg, log)
	if err != nil {
		return err
	}

	ui := statsui.NewModel(viewCSVDir, aligned, cfg.Mode)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run summary TUI: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# roomstats configuration
# Uncomment a value to enable it. CLI flags and %s_* environment
# variables override config values.

[aggregate]
# csv-dir = "/path/to/exports"   # Directory containing the CSV exports
# output = "summary"             # Output file name (.csv or .xlsx)
# output-dir = ""                # Directory for relative output names
# rta = false                    # Summarize real time instead of practice segment time
# keep-parts = false             # Write split attempts to <csv-dir>/%s
# log-level = %q             # Log level
`,
		config.EnvPrefix,
		pipeline.PartsDir,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
