// Package pipeline runs one quick-close report: fetch, select, enrich,
// aggregate and write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickclose-report/internal/backoffice"
	"quickclose-report/internal/config"
	"quickclose-report/internal/database"
	"quickclose-report/internal/detect"
	"quickclose-report/internal/enrich"
	"quickclose-report/internal/report"
	"quickclose-report/internal/source"
	"quickclose-report/internal/summary"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status tells how a run ended. Every status other than StatusCompleted is
// an informational early exit that writes no file.
type Status string

const (
	StatusCompleted    Status = "completed"
	StatusNoTrades     Status = "no_trades"
	StatusNoQuickClose Status = "no_quick_close"
	StatusNoAccounts   Status = "no_accounts"
	StatusNoRows       Status = "no_rows"
)

// Result describes a finished run.
type Result struct {
	RunID            string
	Status           Status
	Trades           int
	QuickCloseLogins int
	Rows             int
	Summaries        int
	Output           string
	Elapsed          time.Duration
}

// Pipeline is a single report run over a source.
type Pipeline struct {
	logger     *zap.Logger
	src        source.Source
	classifier detect.Classifier
	enricher   *enrich.Enricher
	report     config.Report
}

// New creates a pipeline reading from src.
func New(logger *zap.Logger, cfg *config.Config, src source.Source) *Pipeline {
	lots := detect.LotRule{RawPrefixes: cfg.Detection.RawLotPrefixes, Divisor: cfg.Detection.LotDivisor}
	return &Pipeline{
		logger:     logger,
		src:        src,
		classifier: detect.NewClassifier(cfg.Detection.Threshold),
		enricher:   enrich.NewEnricher(src, lots, cfg.Detection.AccountTypes, logger),
		report:     cfg.Report,
	}
}

// Run builds the report for trades opened or closed within [start, end].
func (p *Pipeline) Run(ctx context.Context, start, end time.Time) (Result, error) {
	began := time.Now()
	res := Result{RunID: uuid.NewString()}
	l := p.logger.With(zap.String("run_id", res.RunID))

	l.Info("Fetching trades data within the specified time range...",
		zap.Time("start", start), zap.Time("end", end))
	trades, err := p.src.Trades(ctx, start, end)
	if err != nil {
		return res, err
	}
	res.Trades = len(trades)
	l.Info("Fetched trades", zap.Int("count", len(trades)))
	if len(trades) == 0 {
		return p.finish(l, res, StatusNoTrades, began), nil
	}

	logins := detect.SelectLogins(trades, p.classifier)
	res.QuickCloseLogins = len(logins)
	if len(logins) == 0 {
		return p.finish(l, res, StatusNoQuickClose, began), nil
	}
	trades = detect.RestrictToLogins(trades, logins)
	l.Info("Filtered trades based on quick-close criteria",
		zap.Int("logins", len(logins)), zap.Int("trades", len(trades)))

	rows, err := p.enricher.Enrich(ctx, trades)
	if errors.Is(err, enrich.ErrNoAccounts) {
		return p.finish(l, res, StatusNoAccounts, began), nil
	}
	if err != nil {
		return res, err
	}
	res.Rows = len(rows)
	if len(rows) == 0 {
		return p.finish(l, res, StatusNoRows, began), nil
	}

	summaries := summary.Aggregate(rows, p.classifier)
	res.Summaries = len(summaries)

	err = report.WriteWorkbook(p.report.Output,
		report.TradesSheet(p.report.TradesSheet, rows),
		report.SummarySheet(p.report.SummarySheet, summaries),
	)
	if err != nil {
		return res, fmt.Errorf("failed to write report: %w", err)
	}
	res.Output = p.report.Output
	l.Info("Filtered data and summary have been written",
		zap.String("output", res.Output), zap.Int("rows", res.Rows), zap.Int("summaries", res.Summaries))

	return p.finish(l, res, StatusCompleted, began), nil
}

func (p *Pipeline) finish(l *zap.Logger, res Result, status Status, began time.Time) Result {
	res.Status = status
	res.Elapsed = time.Since(began)
	switch status {
	case StatusNoTrades:
		l.Info("No trades found within the specified time range.")
	case StatusNoQuickClose:
		l.Info("No trades found with close times within the quick-close threshold.",
			zap.Duration("threshold", p.classifier.Threshold))
	case StatusNoAccounts:
		l.Info("No matching accounts found with the specified account types.")
	case StatusNoRows:
		l.Info("No trades left after joining customers and countries.")
	}
	l.Info("Run finished", zap.String("status", string(status)), zap.Duration("elapsed", res.Elapsed))
	return res
}

// OpenSource opens the source selected by cfg.Source.Kind. On success the
// returned close function releases whatever the source holds.
func OpenSource(cfg *config.Config, logger *zap.Logger) (source.Source, func() error, error) {
	switch cfg.Source.Kind {
	case "api":
		return backoffice.NewClient(&cfg.Source.API, logger), func() error { return nil }, nil
	case "database", "":
		db, err := database.NewDatabase(cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
		}
		return source.NewDBSource(db, logger), func() error { return database.Close(db) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// Execute opens the configured source, runs the report for the configured
// window and releases the source on every path.
func Execute(ctx context.Context, cfg *config.Config, logger *zap.Logger) (res Result, err error) {
	start, end, err := cfg.Window.Bounds()
	if err != nil {
		return res, err
	}

	src, closeSource, err := OpenSource(cfg, logger)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := closeSource(); cerr != nil {
			logger.Warn("Failed to close data source", zap.Error(cerr))
		} else {
			logger.Info("Data source closed.")
		}
	}()

	return New(logger, cfg, src).Run(ctx, start, end)
}
