// Package report persists profiling reports as JSON blobs in Redis/Valkey.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/tabprep/internal/db"
	"github.com/kailas-cloud/tabprep/internal/domain"
	"github.com/kailas-cloud/tabprep/internal/domain/profile"
)

// Repo stores reports under <prefix>report:<dataset>.
type Repo struct {
	store  db.Store
	prefix string
	ttl    time.Duration
}

// New creates a report repository. ttl of zero means reports never expire.
func New(store db.Store, keyPrefix string, ttl time.Duration) *Repo {
	return &Repo{store: store, prefix: keyPrefix, ttl: ttl}
}

func (r *Repo) key(dataset string) string {
	return r.prefix + "report:" + dataset
}

// Put stores a report, replacing any previous one for the dataset.
func (r *Repo) Put(ctx context.Context, rep profile.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	key := r.key(rep.Dataset)
	if r.ttl > 0 {
		err = r.store.SetWithTTL(ctx, key, data, r.ttl)
	} else {
		err = r.store.Set(ctx, key, data)
	}
	if err != nil {
		return fmt.Errorf("store report %s: %w", rep.Dataset, err)
	}
	return nil
}

// Get retrieves the report for a dataset.
func (r *Repo) Get(ctx context.Context, dataset string) (profile.Report, error) {
	data, err := r.store.Get(ctx, r.key(dataset))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return profile.Report{}, fmt.Errorf("report %s: %w", dataset, domain.ErrNotFound)
		}
		return profile.Report{}, fmt.Errorf("load report %s: %w", dataset, err)
	}

	var rep profile.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return profile.Report{}, fmt.Errorf("unmarshal report %s: %w", dataset, err)
	}
	return rep, nil
}

// Delete removes the report for a dataset.
func (r *Repo) Delete(ctx context.Context, dataset string) error {
	if err := r.store.Del(ctx, r.key(dataset)); err != nil {
		return fmt.Errorf("delete report %s: %w", dataset, err)
	}
	return nil
}

// List returns the dataset names that have a stored report.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, r.prefix+"report:*")
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	datasets := make([]string, 0, len(keys))
	for _, k := range keys {
		datasets = append(datasets, strings.TrimPrefix(k, r.prefix+"report:"))
	}
	return datasets, nil
}
