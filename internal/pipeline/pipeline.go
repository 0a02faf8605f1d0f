// Package pipeline runs the batch aggregation from export directory to summary file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/roomstats/internal/align"
	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/roomlog"
	"github.com/verte-zerg/roomstats/internal/segment"
	"github.com/verte-zerg/roomstats/internal/stats"
)

// PartsDir is the subdirectory of the export directory that receives part files.
const PartsDir = "csv_preproc"

// ErrNoAttempts is returned when the export directory yields no non-empty attempt.
var ErrNoAttempts = errors.New("no attempts found")

// Result describes a completed run.
type Result struct {
	Files      int
	Attempts   int
	OutputPath string
	Rows       []model.SummaryRow
}

// ListExports returns the CSV files directly inside dir, sorted by name.
func ListExports(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads every export in dir and splits each into attempt segments.
// Files are processed concurrently; segments come back in file order and
// then in order within each file.
func Load(ctx context.Context, fs afero.Fs, dir string, log logrus.FieldLogger) ([]model.AttemptSegment, int, error) {
	paths, err := ListExports(fs, dir)
	if err != nil {
		return nil, 0, err
	}

	perFile := make([][]model.AttemptSegment, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := readExport(fs, path)
			if err != nil {
				return err
			}
			perFile[i] = segment.Split(path, records)
			log.WithFields(logrus.Fields{
				"file":     filepath.Base(path),
				"rows":     len(records),
				"resets":   segment.Resets(records),
				"segments": len(perFile[i]),
			}).Debug("Split export")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var segments []model.AttemptSegment
	for _, segs := range perFile {
		segments = append(segments, segs...)
	}
	return segments, len(paths), nil
}

func readExport(fs afero.Fs, path string) ([]model.RoomVisitRecord, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only export.
			_ = cerr
		}
	}()
	return roomlog.ReadRaw(file, path)
}

// WriteParts materialises segments as part files under dir/PartsDir.
func WriteParts(fs afero.Fs, dir string, segments []model.AttemptSegment) error {
	partsDir := filepath.Join(dir, PartsDir)
	if err := fs.MkdirAll(partsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create parts directory: %w", err)
	}
	for _, seg := range segments {
		path := filepath.Join(partsDir, roomlog.PartFileName(seg.Source, seg.Part))
		if err := writeFile(fs, path, func(f afero.File) error {
			return roomlog.WritePart(f, seg)
		}); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// Analyze loads dir and aligns all attempts by room position.
func Analyze(ctx context.Context, fs afero.Fs, cfg model.RunConfig, log logrus.FieldLogger) (model.AlignedTable, int, error) {
	segments, files, err := Load(ctx, fs, cfg.CSVDir, log)
	if err != nil {
		return model.AlignedTable{}, 0, err
	}
	if cfg.KeepParts {
		if err := WriteParts(fs, cfg.CSVDir, segments); err != nil {
			return model.AlignedTable{}, 0, err
		}
		log.WithField("dir", filepath.Join(cfg.CSVDir, PartsDir)).Info("Wrote part files")
	}
	attempts := align.Number(segments)
	if len(attempts) == 0 {
		return model.AlignedTable{}, files, fmt.Errorf("%w in %s", ErrNoAttempts, cfg.CSVDir)
	}
	log.WithFields(logrus.Fields{
		"files":    files,
		"segments": len(segments),
		"attempts": len(attempts),
	}).Debug("Numbered attempts")
	return align.Align(attempts), files, nil
}

// Run aggregates cfg.CSVDir and writes the summary. Nothing is written to
// the output path unless every stage succeeds.
func Run(ctx context.Context, fs afero.Fs, cfg model.RunConfig, log logrus.FieldLogger) (Result, error) {
	table, files, err := Analyze(ctx, fs, cfg, log)
	if err != nil {
		return Result{}, err
	}
	rows, err := stats.Summarize(table, cfg.Mode)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compute stats: %w", err)
	}

	outPath := OutputPath(cfg)
	format, _ := roomlog.OutputFormatFor(outPath)
	if err := fs.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFile(fs, outPath, func(f afero.File) error {
		return roomlog.WriteSummary(f, format, rows)
	}); err != nil {
		return Result{}, fmt.Errorf("failed to write output: %w", err)
	}
	log.WithFields(logrus.Fields{
		"attempts": table.Attempts,
		"rooms":    len(rows),
		"output":   outPath,
	}).Info("Wrote summary")

	return Result{
		Files:      files,
		Attempts:   table.Attempts,
		OutputPath: outPath,
		Rows:       rows,
	}, nil
}

// OutputPath resolves the output file name against the output directory
// and appends the default extension when needed.
func OutputPath(cfg model.RunConfig) string {
	path := roomlog.NormalizeOutputPath(cfg.Output)
	if filepath.IsAbs(path) || cfg.OutputDir == "" {
		return path
	}
	return filepath.Join(cfg.OutputDir, path)
}

// writeFile writes through a temp file in the target directory and renames
// it into place, so readers never see a partial file.
func writeFile(fs afero.Fs, path string, write func(afero.File) error) error {
	tmpFile, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		if _, err := fs.Stat(tmpPath); err == nil {
			_ = fs.Remove(tmpPath)
		}
	}()

	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	if err := fs.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return nil
}
