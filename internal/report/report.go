// Package report turns a population table into a batch extinction report:
// an Excel workbook, per-species trend charts, a years-remaining chart and a
// Markdown summary.
package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"speciestrend/internal/dataset"
	"speciestrend/internal/recorder"
)

// Output file names inside the output directory.
const (
	WorkbookFile       = "species_trend_report.xlsx"
	YearsRemainingFile = "years_remaining.png"
	MarkdownFile       = "species_trend_report.md"
	chartsDir          = "charts"
)

// Options configures a Generator.
type Options struct {
	OutputDir       string
	ReferenceYear   int // 0 means the current year
	CriticalHorizon int
	Workers         int
	Source          string // label stored with recorded runs
	Catalog         *dataset.Catalog
	Recorder        recorder.Recorder
}

// Result lists what a run produced.
type Result struct {
	Models   []SpeciesModel
	Workbook string
	Markdown string
	Charts   []string
	Overview string // empty when nothing could be plotted
}

// Generator produces reports from population tables.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.CriticalHorizon <= 0 {
		opts.CriticalHorizon = 10
	}
	return &Generator{opts: opts}
}

func (g *Generator) referenceYear() int {
	if g.opts.ReferenceYear > 0 {
		return g.opts.ReferenceYear
	}
	return time.Now().Year()
}

// Generate analyses table and writes every output. Chart failures are logged
// and do not stop the run.
func (g *Generator) Generate(table *dataset.Table) (*Result, error) {
	refYear := g.referenceYear()
	fmt.Printf("🦎 Analysing %d species (reference year %d)...\n", table.Len(), refYear)

	analyzer := &Analyzer{
		ReferenceYear:   refYear,
		CriticalHorizon: g.opts.CriticalHorizon,
		Workers:         g.opts.Workers,
		Catalog:         g.opts.Catalog,
	}
	models := analyzer.Analyze(table)

	chartPath := filepath.Join(g.opts.OutputDir, chartsDir)
	if err := os.MkdirAll(chartPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	res := &Result{
		Models:   models,
		Workbook: filepath.Join(g.opts.OutputDir, WorkbookFile),
		Markdown: filepath.Join(g.opts.OutputDir, MarkdownFile),
	}

	if err := WriteWorkbook(res.Workbook, models, refYear); err != nil {
		return nil, err
	}
	fmt.Printf("   - %s\n", res.Workbook)

	res.Charts = WriteTrendCharts(chartPath, models)
	fmt.Printf("   - %d trend charts in %s\n", len(res.Charts), chartPath)

	overview := filepath.Join(g.opts.OutputDir, YearsRemainingFile)
	if err := WriteYearsRemainingChart(overview, models, refYear); err != nil {
		log.Printf("[WARN] years remaining chart: %v", err)
	} else {
		res.Overview = overview
		fmt.Printf("   - %s\n", overview)
	}

	if err := WriteMarkdown(res.Markdown, models, refYear, g.opts.CriticalHorizon); err != nil {
		return nil, fmt.Errorf("write markdown: %w", err)
	}
	fmt.Printf("   - %s\n", res.Markdown)

	g.record(models, refYear)

	fmt.Println("✅ Report complete")
	return res, nil
}

// record stores the run in the history database. Failures are logged only.
func (g *Generator) record(models []SpeciesModel, refYear int) {
	computable := 0
	for _, m := range models {
		if m.Estimate.Computable() {
			computable++
		}
	}

	runID, err := g.opts.Recorder.RecordRun(&recorder.Run{
		Source:        g.opts.Source,
		ReferenceYear: refYear,
		Species:       len(models),
		Computable:    computable,
	})
	if err != nil {
		log.Printf("[ERROR] record run: %v", err)
		return
	}

	now := time.Now()
	for _, m := range models {
		if err := g.opts.Recorder.RecordEstimate(EstimateRecord(runID, now, m)); err != nil {
			log.Printf("[ERROR] record estimate %s: %v", m.Species, err)
		}
	}
}

// EstimateRecord converts a model to its history row.
func EstimateRecord(runID int64, ts time.Time, m SpeciesModel) *recorder.EstimateRecord {
	rec := &recorder.EstimateRecord{
		RunID:     runID,
		Timestamp: ts,
		Species:   m.Species,
		Outcome:   m.Estimate.Outcome.String(),
		Year:      m.Estimate.Year,
		Points:    m.ValidPoints,
		Risk:      m.RiskLevel,
	}
	if m.Estimate.Computable() {
		rec.RawYear = m.Estimate.Raw
	}
	if fit := m.Estimate.Fit; fit != nil {
		rec.Slope = fit.Slope
		rec.Intercept = fit.Intercept
	}
	return rec
}
