// Package selection implements feature-selection filters over a feature
// matrix: low-information removal, highly-null detection, single-value
// detection and highly-correlated pair detection. All filters are pure;
// the input frame is never mutated.
package selection

import (
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/tabprep/internal/domain/frame"
)

// Default thresholds for the null and correlation filters.
const (
	DefaultNullThreshold = 0.95
	DefaultCorrThreshold = 0.95
)

// ErrInvalidThreshold signals a threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1, inclusive")

// Pair is an unordered column pair in canonical (lexicographic) order.
type Pair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

func checkThreshold(name string, threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%s %v: %w", name, threshold, ErrInvalidThreshold)
	}
	return nil
}

// RemoveLowInformation keeps a column iff it has more than one distinct
// value (missing counts as a value) and at least one present value.
// Returns the frame restricted to kept columns; when a companion feature
// identifier list is supplied, it is also filtered to surviving columns.
func RemoveLowInformation(fm *frame.Frame, features []string) (*frame.Frame, []string) {
	kept := make([]string, 0, fm.NumCols())
	for _, c := range fm.Columns() {
		if c.Distinct(true) > 1 && c.NonNullCount() > 0 {
			kept = append(kept, c.Name())
		}
	}
	out, _ := fm.Select(kept) // names come from the frame itself, cannot fail

	if features == nil {
		return out, nil
	}
	keptSet := make(map[string]struct{}, len(kept))
	for _, name := range kept {
		keptSet[name] = struct{}{}
	}
	remaining := make([]string, 0, len(features))
	for _, f := range features {
		if _, ok := keptSet[f]; ok {
			remaining = append(remaining, f)
		}
	}
	return out, remaining
}

// HighlyNull returns the names of columns whose missing-value fraction is
// strictly greater than threshold.
func HighlyNull(fm *frame.Frame, threshold float64) ([]string, error) {
	if err := checkThreshold("pct null threshold", threshold); err != nil {
		return nil, err
	}
	var names []string
	for _, c := range fm.Columns() {
		if c.NullFraction() > threshold {
			names = append(names, c.Name())
		}
	}
	return names, nil
}

// SingleValue returns the names of columns with at most one distinct value.
// When countNaNAsValue is false, missing values are excluded from the
// distinct count, so an all-missing column counts as zero distinct values.
func SingleValue(fm *frame.Frame, countNaNAsValue bool) []string {
	var names []string
	for _, c := range fm.Columns() {
		if c.Distinct(countNaNAsValue) <= 1 {
			names = append(names, c.Name())
		}
	}
	return names
}

// HighlyCorrelated returns the unordered pairs of numeric/bool columns whose
// absolute Pearson correlation is at least threshold. Consideration is
// restricted to check (default: all columns) minus exclude; non-numeric
// columns are silently dropped. Each unordered pair is computed once.
func HighlyCorrelated(fm *frame.Frame, threshold float64, check, exclude []string) ([]Pair, error) {
	if err := checkThreshold("pct corr threshold", threshold); err != nil {
		return nil, err
	}

	if check == nil {
		check = fm.ColumnNames()
	}
	if len(exclude) > 0 {
		excluded := make(map[string]struct{}, len(exclude))
		for _, name := range exclude {
			excluded[name] = struct{}{}
		}
		filtered := make([]string, 0, len(check))
		for _, name := range check {
			if _, ok := excluded[name]; !ok {
				filtered = append(filtered, name)
			}
		}
		check = filtered
	}

	sub, err := fm.Select(check)
	if err != nil {
		return nil, fmt.Errorf("restrict to checked columns: %w", err)
	}

	var numeric []*frame.Column
	for _, c := range sub.Columns() {
		if c.Kind().IsNumeric() {
			numeric = append(numeric, c)
		}
	}

	var pairs []Pair
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			corr := math.Abs(frame.Correlation(numeric[i], numeric[j]))
			if corr >= threshold {
				pairs = append(pairs, canonicalPair(numeric[i].Name(), numeric[j].Name()))
			}
		}
	}
	return pairs, nil
}

func canonicalPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{First: a, Second: b}
}
