package consolidate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"uk-demand-dashboard/internal/config"
	"uk-demand-dashboard/internal/data"
	"uk-demand-dashboard/internal/export"
	"uk-demand-dashboard/internal/model"

	"github.com/charmbracelet/log"
)

// DemandSource is one yearly demand file and its SETTLEMENT_DATE layout.
type DemandSource struct {
	Name       string
	DateLayout string
}

// Options fully describes a run. Relative file names resolve against DataPath.
type Options struct {
	DataPath    string
	DemandFiles []DemandSource

	TemperatureFile string
	TimeColumn      string
	ValueColumn     string
	Cutoff          time.Time
	BucketWidth     time.Duration

	DemandOutput      string
	TemperatureOutput string
	CleanedOutput     string
	WorkbookOutput    string // empty disables the workbook
}

// OptionsFromConfig builds run options from a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return Options{}, err
	}
	width, err := cfg.BucketWidth()
	if err != nil {
		return Options{}, err
	}
	cc := cfg.Consolidate
	opts := Options{
		DataPath:          cc.DataPath,
		TemperatureFile:   cc.TemperatureFile,
		TimeColumn:        cc.TemperatureTime,
		ValueColumn:       cc.TemperatureValue,
		Cutoff:            cutoff,
		BucketWidth:       width,
		DemandOutput:      cc.DemandOutput,
		TemperatureOutput: cc.TemperatureOutput,
		CleanedOutput:     cc.CleanedOutput,
	}
	if cc.WriteWorkbook {
		opts.WorkbookOutput = cc.WorkbookOutput
	}
	for _, f := range cc.DemandFiles {
		opts.DemandFiles = append(opts.DemandFiles, DemandSource{Name: f.Name, DateLayout: f.DateLayout})
	}
	return opts, nil
}

func (o Options) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.DataPath, name)
}

// Sink receives the cleaned records after the CSVs are written.
type Sink interface {
	SaveCleaned(ctx context.Context, records []model.CleanedRecord) (int, error)
}

// Engine runs the consolidation pipeline.
type Engine struct {
	opts   Options
	sink   Sink
	logger *log.Logger
}

// New returns an engine. sink may be nil; a nil logger uses the default one.
func New(opts Options, sink Sink, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{opts: opts, sink: sink, logger: logger}
}

// Run executes every stage once and regenerates all outputs. Any input or
// output failure aborts the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if len(e.opts.DemandFiles) == 0 {
		return nil, fmt.Errorf("no demand files")
	}
	rep := &Report{FileRows: map[string]int{}}

	files := make([]model.DemandFile, 0, len(e.opts.DemandFiles))
	for _, src := range e.opts.DemandFiles {
		f, err := data.LoadDemandCSV(e.opts.path(src.Name))
		if err != nil {
			return nil, fmt.Errorf("load demand: %w", err)
		}
		f = NormalizeDates(f, src.DateLayout)
		rep.FileRows[f.Name] = len(f.Records)
		e.logger.Debug("loaded demand file", "file", f.Name, "rows", len(f.Records), "layout", src.DateLayout)
		files = append(files, f)
	}

	records, columns := Concat(files...)
	rep.ConcatenatedRows = len(records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	series, nulls, err := Resample(records, columns, e.opts.BucketWidth)
	if err != nil {
		return nil, err
	}
	rep.NullDates = nulls
	rep.Buckets = series.Len()
	if nulls > 0 {
		e.logger.Warn("rows with unparseable settlement dates were skipped", "rows", nulls)
	}

	rep.DemandOutput = e.opts.path(e.opts.DemandOutput)
	if err := WriteDemandSeriesCSV(rep.DemandOutput, series); err != nil {
		return nil, fmt.Errorf("write demand series: %w", err)
	}
	e.logger.Info("wrote resampled demand", "path", rep.DemandOutput, "buckets", rep.Buckets)

	temps, err := data.LoadTemperatureCSV(e.opts.path(e.opts.TemperatureFile), e.opts.TimeColumn, e.opts.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("load temperatures: %w", err)
	}
	kept := FilterTemperatures(temps, e.opts.Cutoff)
	rep.TemperatureRows = len(kept.Records)
	rep.TemperatureDropped = len(temps.Records) - len(kept.Records)

	rep.TemperatureOutput = e.opts.path(e.opts.TemperatureOutput)
	if err := WriteTemperatureCSV(rep.TemperatureOutput, kept); err != nil {
		return nil, fmt.Errorf("write temperatures: %w", err)
	}
	e.logger.Info("wrote filtered temperatures", "path", rep.TemperatureOutput,
		"rows", rep.TemperatureRows, "dropped", rep.TemperatureDropped)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	merged, filled := InterpolateNearest(Merge(series, kept.Records))
	rep.MergedRows = len(merged)
	rep.InterpolatedCells = filled

	rep.CleanedOutput = e.opts.path(e.opts.CleanedOutput)
	if err := WriteCleanedCSV(rep.CleanedOutput, merged); err != nil {
		return nil, fmt.Errorf("write cleaned: %w", err)
	}
	e.logger.Info("wrote cleaned dataset", "path", rep.CleanedOutput, "rows", rep.MergedRows, "interpolated", filled)

	if e.opts.WorkbookOutput != "" {
		raw, err := export.BuildCleanedXLSX(merged)
		if err != nil {
			return nil, fmt.Errorf("build workbook: %w", err)
		}
		rep.WorkbookOutput = e.opts.path(e.opts.WorkbookOutput)
		if err := os.WriteFile(rep.WorkbookOutput, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
		e.logger.Info("wrote workbook", "path", rep.WorkbookOutput)
	}

	if e.sink != nil {
		n, err := e.sink.SaveCleaned(ctx, merged)
		if err != nil {
			return nil, fmt.Errorf("store cleaned: %w", err)
		}
		rep.StoredRows = n
		e.logger.Info("stored cleaned records", "rows", n)
	}
	return rep, nil
}
