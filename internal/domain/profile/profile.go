// Package profile defines the dataset profiling report produced by the
// selection filters.
package profile

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/tabprep/internal/selection"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateDatasetName checks a dataset name: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateDatasetName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("dataset name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("dataset name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// Report is the outcome of profiling one feature matrix.
type Report struct {
	Dataset string `json:"dataset"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`

	// LowInformation lists columns dropped for having fewer than two
	// distinct values or no present values at all.
	LowInformation []string `json:"low_information"`
	// HighlyNull lists columns whose null fraction exceeds NullThreshold.
	HighlyNull []string `json:"highly_null"`
	// SingleValue lists columns with at most one distinct present value.
	SingleValue []string `json:"single_value"`
	// Correlated lists column pairs with |corr| >= CorrThreshold.
	Correlated []selection.Pair `json:"highly_correlated"`

	NullThreshold float64 `json:"null_threshold"`
	CorrThreshold float64 `json:"corr_threshold"`
	CreatedAt     int64   `json:"created_at"`
}

// New validates and creates a Report shell for a dataset.
func New(dataset string, rows, columns int) (Report, error) {
	if err := ValidateDatasetName(dataset); err != nil {
		return Report{}, err
	}
	return Report{
		Dataset:   dataset,
		Rows:      rows,
		Columns:   columns,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}
