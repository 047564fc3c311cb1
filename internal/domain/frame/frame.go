// Package frame provides a small immutable columnar table: named, typed
// columns with a validity mask. It carries exactly the reductions the
// selection filters need (distinct counts, null fractions, pairwise
// correlation) and nothing else.
package frame

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Kind is the storage type of a frame column.
type Kind uint8

// Column storage kinds.
const (
	Float Kind = iota
	Bool
	String
	Time
)

// IsNumeric reports whether the kind participates in correlation math.
func (k Kind) IsNumeric() bool { return k == Float || k == Bool }

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Time:
		return "time"
	}
	return "unknown"
}

// Column is a single named, typed column. Missing values are tracked by a
// validity mask; valid float cells are never NaN (NaN inputs are folded
// into the mask at construction).
type Column struct {
	name   string
	kind   Kind
	floats []float64
	bools  []bool
	strs   []string
	times  []time.Time
	valid  []bool
}

func makeValid(n int, valid []bool) []bool {
	if valid != nil {
		return valid
	}
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// NewFloat creates a float column. A nil valid mask means all values are
// present; NaN values are always treated as missing.
func NewFloat(name string, values []float64, valid []bool) *Column {
	v := makeValid(len(values), valid)
	for i, f := range values {
		if math.IsNaN(f) {
			v[i] = false
		}
	}
	return &Column{name: name, kind: Float, floats: values, valid: v}
}

// NewBool creates a bool column. A nil valid mask means all values are present.
func NewBool(name string, values []bool, valid []bool) *Column {
	return &Column{name: name, kind: Bool, bools: values, valid: makeValid(len(values), valid)}
}

// NewString creates a string column. A nil valid mask means all values are present.
func NewString(name string, values []string, valid []bool) *Column {
	return &Column{name: name, kind: String, strs: values, valid: makeValid(len(values), valid)}
}

// NewTime creates a time column. A nil valid mask means all values are present.
func NewTime(name string, values []time.Time, valid []bool) *Column {
	return &Column{name: name, kind: Time, times: values, valid: makeValid(len(values), valid)}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the storage kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.valid) }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return !c.valid[i] }

// NonNullCount returns the number of present values.
func (c *Column) NonNullCount() int {
	n := 0
	for _, ok := range c.valid {
		if ok {
			n++
		}
	}
	return n
}

// NullFraction returns the fraction of missing values. Empty columns
// have a null fraction of 0.
func (c *Column) NullFraction() float64 {
	if c.Len() == 0 {
		return 0
	}
	return float64(c.Len()-c.NonNullCount()) / float64(c.Len())
}

// Distinct returns the number of distinct present values. When countMissing
// is true and the column has at least one missing value, missing counts as
// one additional distinct value.
func (c *Column) Distinct(countMissing bool) int {
	n := 0
	switch c.kind {
	case Float:
		seen := make(map[float64]struct{})
		for i, ok := range c.valid {
			if ok {
				seen[c.floats[i]] = struct{}{}
			}
		}
		n = len(seen)
	case Bool:
		seen := make(map[bool]struct{})
		for i, ok := range c.valid {
			if ok {
				seen[c.bools[i]] = struct{}{}
			}
		}
		n = len(seen)
	case String:
		seen := make(map[string]struct{})
		for i, ok := range c.valid {
			if ok {
				seen[c.strs[i]] = struct{}{}
			}
		}
		n = len(seen)
	case Time:
		seen := make(map[int64]struct{})
		for i, ok := range c.valid {
			if ok {
				seen[c.times[i].UnixNano()] = struct{}{}
			}
		}
		n = len(seen)
	}
	if countMissing && c.NonNullCount() < c.Len() {
		n++
	}
	return n
}

// numericAt returns row i as float64. Bool maps to 0/1. Row must be present
// and the column numeric.
func (c *Column) numericAt(i int) float64 {
	if c.kind == Bool {
		if c.bools[i] {
			return 1
		}
		return 0
	}
	return c.floats[i]
}

// Correlation returns the Pearson correlation of two numeric columns over
// pairwise-complete observations. Fewer than two complete pairs, or a
// constant column, yields NaN.
func Correlation(a, b *Column) float64 {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a.valid[i] && b.valid[i] {
			xs = append(xs, a.numericAt(i))
			ys = append(ys, b.numericAt(i))
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// Frame is an ordered set of equal-length columns with unique names.
// Frames are read-only after construction; derived frames share column data.
type Frame struct {
	cols  []*Column
	index map[string]int
}

// New validates and creates a Frame. Column names must be unique and
// non-empty, lengths must agree.
func New(cols ...*Column) (*Frame, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name() == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, ok := index[c.Name()]; ok {
			return nil, fmt.Errorf("duplicate column name: %s", c.Name())
		}
		if i > 0 && c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name(), c.Len(), cols[0].Len())
		}
		index[c.Name()] = i
	}
	return &Frame{cols: cols, index: index}, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns the columns in order.
func (f *Frame) Columns() []*Column { return f.cols }

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Select returns a new frame restricted to the named columns, in the given
// order. Column data is shared, not copied.
func (f *Frame) Select(names []string) (*Frame, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("column not found: %s", name)
		}
		cols = append(cols, c)
	}
	return New(cols...)
}
