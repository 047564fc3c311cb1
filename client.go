// Package tabprep is the embedded SDK: it validates column specs and
// profiles feature matrices against a Redis/Valkey-backed report store,
// without going through the HTTP API.
package tabprep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tabprep/internal/db"
	dbRedis "github.com/kailas-cloud/tabprep/internal/db/redis"
	"github.com/kailas-cloud/tabprep/internal/domain/colspec"
	"github.com/kailas-cloud/tabprep/internal/ingest"
	reportrepo "github.com/kailas-cloud/tabprep/internal/repository/report"
	profileuc "github.com/kailas-cloud/tabprep/internal/usecase/profile"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the tabprep SDK entry point.
type Client struct {
	store    db.Store
	profiles *profileuc.Service
}

// New creates a tabprep Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: "tabprep:",
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("tabprep: database address required (use WithValkey or WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("tabprep: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("tabprep: database not ready: %w", err)
	}

	repo := reportrepo.New(store, cfg.keyPrefix, cfg.reportTTL)
	svc := profileuc.New(repo, cfg.logger)
	if cfg.nullThreshold > 0 || cfg.corrThreshold > 0 {
		svc = svc.WithThresholds(cfg.nullThreshold, cfg.corrThreshold)
	}

	return &Client{store: store, profiles: svc}, nil
}

// Close releases the database connection.
func (c *Client) Close() {
	c.store.Close()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("tabprep: %w", err)
	}
	return nil
}

// ValidateColumns checks a column descriptor list against the schema
// invariants: every column named and typed, at most one key, at most one
// label, no overlap.
func (c *Client) ValidateColumns(ctx context.Context, columns []Column) error {
	return c.profiles.ValidateColumns(ctx, toInternalColumns(columns))
}

// ProfileCSV ingests CSV data using the column spec, runs the selection
// filters and stores the report under the dataset name.
func (c *Client) ProfileCSV(
	ctx context.Context, dataset string, r io.Reader, columns []Column, opts ProfileOptions,
) (Report, error) {
	spec := colspec.New(toInternalColumns(columns))
	if err := spec.Validate(); err != nil {
		return Report{}, fmt.Errorf("tabprep: column spec: %w", err)
	}

	fm, err := ingest.ReadCSV(r, spec, ingest.Options{SkipHeader: opts.SkipHeader})
	if err != nil {
		return Report{}, fmt.Errorf("tabprep: read csv: %w", err)
	}

	rep, err := c.profiles.Profile(ctx, dataset, fm, toProfileOptions(opts))
	if err != nil {
		return Report{}, fmt.Errorf("tabprep: %w", err)
	}
	return fromInternalReport(rep), nil
}

// ProfileParquet loads a parquet feature matrix, runs the selection filters
// and stores the report under the dataset name.
func (c *Client) ProfileParquet(
	ctx context.Context, dataset, path string, opts ProfileOptions,
) (Report, error) {
	fm, err := ingest.ReadParquet(path)
	if err != nil {
		return Report{}, fmt.Errorf("tabprep: read parquet: %w", err)
	}

	rep, err := c.profiles.Profile(ctx, dataset, fm, toProfileOptions(opts))
	if err != nil {
		return Report{}, fmt.Errorf("tabprep: %w", err)
	}
	return fromInternalReport(rep), nil
}

// Report retrieves the stored report for a dataset.
func (c *Client) Report(ctx context.Context, dataset string) (Report, error) {
	rep, err := c.profiles.Report(ctx, dataset)
	if err != nil {
		return Report{}, fmt.Errorf("tabprep: %w", err)
	}
	return fromInternalReport(rep), nil
}

// Datasets lists dataset names with a stored report.
func (c *Client) Datasets(ctx context.Context) ([]string, error) {
	names, err := c.profiles.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("tabprep: %w", err)
	}
	return names, nil
}

// Forget deletes the stored report for a dataset.
func (c *Client) Forget(ctx context.Context, dataset string) error {
	if err := c.profiles.Forget(ctx, dataset); err != nil {
		return fmt.Errorf("tabprep: %w", err)
	}
	return nil
}

func toProfileOptions(opts ProfileOptions) profileuc.Options {
	return profileuc.Options{
		NullThreshold:   opts.NullThreshold,
		CorrThreshold:   opts.CorrThreshold,
		Check:           opts.Check,
		Exclude:         opts.Exclude,
		CountNaNAsValue: opts.CountNaNAsValue,
	}
}
