// Package profile orchestrates column spec validation and feature-matrix
// profiling: it runs the selection filters and persists the resulting report.
package profile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tabprep/internal/domain"
	"github.com/kailas-cloud/tabprep/internal/domain/colspec"
	"github.com/kailas-cloud/tabprep/internal/domain/frame"
	domprofile "github.com/kailas-cloud/tabprep/internal/domain/profile"
	"github.com/kailas-cloud/tabprep/internal/metrics"
	"github.com/kailas-cloud/tabprep/internal/selection"
)

// Service runs the selection filters and manages reports.
type Service struct {
	repo          Repository
	logger        *zap.Logger
	nullThreshold float64
	corrThreshold float64
}

// New creates a profile service with the default thresholds.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		logger:        logger,
		nullThreshold: selection.DefaultNullThreshold,
		corrThreshold: selection.DefaultCorrThreshold,
	}
}

// WithThresholds overrides the default null and correlation thresholds.
func (s *Service) WithThresholds(null, corr float64) *Service {
	s.nullThreshold = null
	s.corrThreshold = corr
	return s
}

// ValidateColumns checks a column descriptor list against the schema
// invariants. Violations wrap domain.ErrInvalidSpec plus the specific
// colspec sentinel, so callers can branch on either.
func (s *Service) ValidateColumns(_ context.Context, columns []colspec.Column) error {
	if err := colspec.New(columns).Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSpec, err)
	}
	return nil
}

// Options tunes a single profiling run. Zero thresholds fall back to the
// service defaults.
type Options struct {
	NullThreshold float64
	CorrThreshold float64
	// Check restricts correlation analysis to these columns (default: all).
	Check []string
	// Exclude removes columns from correlation analysis.
	Exclude []string
	// CountNaNAsValue makes the single-value filter treat missing as a value.
	CountNaNAsValue bool
}

// Profile runs all selection filters over the feature matrix, stores the
// report under the dataset name and returns it. The input frame is not
// modified.
func (s *Service) Profile(
	ctx context.Context, dataset string, fm *frame.Frame, opts Options,
) (domprofile.Report, error) {
	start := time.Now()

	nullThreshold := opts.NullThreshold
	if nullThreshold == 0 {
		nullThreshold = s.nullThreshold
	}
	corrThreshold := opts.CorrThreshold
	if corrThreshold == 0 {
		corrThreshold = s.corrThreshold
	}

	rep, err := domprofile.New(dataset, fm.NumRows(), fm.NumCols())
	if err != nil {
		return domprofile.Report{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	rep.NullThreshold = nullThreshold
	rep.CorrThreshold = corrThreshold

	kept, _ := selection.RemoveLowInformation(fm, nil)
	rep.LowInformation = droppedNames(fm, kept)

	rep.HighlyNull, err = selection.HighlyNull(fm, nullThreshold)
	if err != nil {
		return domprofile.Report{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	rep.SingleValue = selection.SingleValue(fm, opts.CountNaNAsValue)

	rep.Correlated, err = selection.HighlyCorrelated(fm, corrThreshold, opts.Check, opts.Exclude)
	if err != nil {
		return domprofile.Report{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	if err := s.repo.Put(ctx, rep); err != nil {
		metrics.ProfileRunsTotal.WithLabelValues("error").Inc()
		return domprofile.Report{}, fmt.Errorf("persist report: %w", err)
	}

	metrics.ProfileRunsTotal.WithLabelValues("ok").Inc()
	metrics.ProfileDuration.Observe(time.Since(start).Seconds())
	metrics.ColumnsFlaggedTotal.WithLabelValues("low_information").Add(float64(len(rep.LowInformation)))
	metrics.ColumnsFlaggedTotal.WithLabelValues("highly_null").Add(float64(len(rep.HighlyNull)))
	metrics.ColumnsFlaggedTotal.WithLabelValues("single_value").Add(float64(len(rep.SingleValue)))
	metrics.ColumnsFlaggedTotal.WithLabelValues("correlated_pair").Add(float64(len(rep.Correlated)))

	s.logger.Info("dataset profiled",
		zap.String("dataset", dataset),
		zap.Int("rows", rep.Rows),
		zap.Int("columns", rep.Columns),
		zap.Int("low_information", len(rep.LowInformation)),
		zap.Int("highly_null", len(rep.HighlyNull)),
		zap.Int("single_value", len(rep.SingleValue)),
		zap.Int("correlated_pairs", len(rep.Correlated)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return rep, nil
}

// Report retrieves the stored report for a dataset.
func (s *Service) Report(ctx context.Context, dataset string) (domprofile.Report, error) {
	rep, err := s.repo.Get(ctx, dataset)
	if err != nil {
		return domprofile.Report{}, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// Datasets lists dataset names with a stored report.
func (s *Service) Datasets(ctx context.Context) ([]string, error) {
	names, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return names, nil
}

// Forget deletes the stored report for a dataset.
func (s *Service) Forget(ctx context.Context, dataset string) error {
	if err := s.repo.Delete(ctx, dataset); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// droppedNames returns the columns of fm that are absent from kept,
// preserving fm order.
func droppedNames(fm, kept *frame.Frame) []string {
	remaining := make(map[string]struct{}, kept.NumCols())
	for _, name := range kept.ColumnNames() {
		remaining[name] = struct{}{}
	}
	var dropped []string
	for _, name := range fm.ColumnNames() {
		if _, ok := remaining[name]; !ok {
			dropped = append(dropped, name)
		}
	}
	return dropped
}
