// Package services orchestrates a full prioritization run: fetch the
// configuration workbook, pull the aged payables report, allocate
// budgets across the configured periods, and publish the result.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"paycalc/internal/alloc"
	"paycalc/internal/docs"
	"paycalc/internal/log"
	"paycalc/internal/report"
	"paycalc/internal/workbook"
)

// ErrNoLedger is returned when the report contains no payable rows.
var ErrNoLedger = errors.New("aged payables report contains no rows")

// ReportProvider fetches the aged payables ledger.
type ReportProvider interface {
	FetchAgedPayables(ctx context.Context) (*report.AgedPayables, error)
}

// Options configures a RunProcessor.
type Options struct {
	Reports ReportProvider
	Store   docs.Store
	Planner *alloc.Planner
	Logger  *log.Logger

	// LocalOutputFile, when set, also saves the rendered workbook to
	// disk. A failed local save is a warning, not a run failure.
	LocalOutputFile string
	// RemoteOutputFile names the published workbook; the store may make
	// the final name unique.
	RemoteOutputFile string
}

// RunProcessor runs the prioritization pipeline end to end, once per
// invocation. It has no persistent state between runs.
type RunProcessor struct {
	reports ReportProvider
	store   docs.Store
	planner *alloc.Planner
	logger  *log.Logger

	localOutput  string
	remoteOutput string
}

func NewRunProcessor(opts Options) *RunProcessor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentRun})
	}
	return &RunProcessor{
		reports:      opts.Reports,
		store:        opts.Store,
		planner:      opts.Planner,
		logger:       logger,
		localOutput:  opts.LocalOutputFile,
		remoteOutput: opts.RemoteOutputFile,
	}
}

// Run executes one prioritization pass. A run with nothing to recommend
// is a success; a run that cannot fetch its inputs or publish its output
// is not.
func (p *RunProcessor) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logger := p.logger.With(log.FieldRunID, runID)
	logger.InfoContext(ctx, "Starting prioritization run")

	configBytes, err := p.store.FetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("fetch configuration workbook: %w", err)
	}
	cfg, err := workbook.ParseConfig(configBytes)
	if err != nil {
		return fmt.Errorf("parse configuration workbook: %w", err)
	}
	logger.InfoContext(ctx, "Configuration loaded",
		log.FieldCount, len(cfg.Periods))

	rep, err := p.reports.FetchAgedPayables(ctx)
	if err != nil {
		return fmt.Errorf("fetch aged payables: %w", err)
	}
	ledger := rep.Flatten()
	if len(ledger) == 0 {
		return ErrNoLedger
	}
	logger.InfoContext(ctx, "Aged payables ledger parsed",
		log.FieldRecords, len(ledger))

	result := p.planner.Run(ledger, *cfg)
	if len(result.Recommendations) == 0 {
		logger.InfoContext(ctx, "Nothing to recommend")
		return nil
	}
	logger.InfoContext(ctx, "Allocation complete",
		log.FieldRecords, len(result.Recommendations),
		log.FieldCount, len(result.Summary))

	content, err := workbook.Render(result.Recommendations, result.Summary)
	if err != nil {
		return fmt.Errorf("render recommendations workbook: %w", err)
	}

	if p.localOutput != "" {
		if err := os.WriteFile(p.localOutput, content, 0o644); err != nil {
			logger.WarnContext(ctx, "Failed to save local copy",
				log.FieldLocalPath, p.localOutput,
				log.FieldError, err)
		} else {
			logger.InfoContext(ctx, "Saved local copy",
				log.FieldLocalPath, p.localOutput)
		}
	}

	ref, err := p.store.Publish(ctx, p.remoteOutput, content)
	if err != nil {
		return fmt.Errorf("publish recommendations workbook: %w", err)
	}
	logger.InfoContext(ctx, "Recommendations published",
		log.FieldRemoteRef, ref)
	return nil
}
