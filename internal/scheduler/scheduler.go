package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"speciestrend/internal/dataset"
	"speciestrend/internal/report"
)

// ErrRunInProgress is returned by RunNow while another report is being generated.
var ErrRunInProgress = errors.New("report run already in progress")

// TableLoader reloads the population table before each run so that edits to
// the source file are picked up.
type TableLoader func() (*dataset.Table, error)

// Scheduler regenerates the batch report on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Load      TableLoader
	Generator *report.Generator
	Ctx       context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. Cron expressions include a seconds field.
func NewScheduler(ctx context.Context, load TableLoader, gen *report.Generator) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Load:      load,
		Generator: gen,
		Ctx:       ctx,
	}
}

// Register adds the report task under the cron expression expr.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	log.Printf("[INFO] report scheduled: %s", expr)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running report to finish,
// whether it was started by cron or by RunNow.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.mu.Lock()
	s.mu.Unlock()
	log.Println("[INFO] scheduler stopped")
}

// RunNow generates the report immediately.
func (s *Scheduler) RunNow() (*report.Result, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	if err := s.Ctx.Err(); err != nil {
		return nil, err
	}

	table, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	return s.Generator.Generate(table)
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running scheduled report")
	res, err := s.RunNow()
	if err != nil {
		log.Printf("[ERROR] scheduled report: %v", err)
		return
	}
	log.Printf("[INFO] scheduled report done: %d species, %s", len(res.Models), res.Markdown)
}
