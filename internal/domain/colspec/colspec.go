// Package colspec validates ordered column descriptor lists and derives
// the parameters a tabular ingestion step needs: column name lists, usable
// subsets, strict dtypes and per-column value converters.
package colspec

import (
	"errors"
	"fmt"
	"strconv"
)

// Schema validation sentinel errors. Validate stops at the first violation.
var (
	// ErrColumnHasNoNameOrType signals a descriptor missing a required field.
	ErrColumnHasNoNameOrType = errors.New("column has no name or type")
	// ErrColumnMultiKey signals more than one key column.
	ErrColumnMultiKey = errors.New("multiple key columns")
	// ErrColumnKeyAndLabel signals key and label on the same column.
	ErrColumnKeyAndLabel = errors.New("column is both key and label")
	// ErrColumnMultiLabel signals more than one label column.
	ErrColumnMultiLabel = errors.New("multiple label columns")
	// ErrKeyNameExhausted signals that every synthetic key name candidate is taken.
	ErrKeyNameExhausted = errors.New("auto key name candidates exhausted")
)

// Column describes one input column: its name, declared type and role flags.
// Descriptor lists typically arrive from a YAML config or API payload.
type Column struct {
	Name   string `yaml:"name" json:"name"`
	Type   Type   `yaml:"type" json:"type"`
	Key    bool   `yaml:"key,omitempty" json:"key,omitempty"`
	Label  bool   `yaml:"label,omitempty" json:"label,omitempty"`
	Train  bool   `yaml:"train,omitempty" json:"train,omitempty"`
	Bypass bool   `yaml:"bypass,omitempty" json:"bypass,omitempty"`
}

// skip reports whether the column is excluded from feature computation input.
func (c Column) skip() bool { return c.Label || c.Train || c.Bypass }

// Spec wraps an ordered column descriptor list. Order is significant: it
// dictates ingestion column order. The descriptor list is fixed at
// construction; all queries are read-only scans.
type Spec struct {
	columns []Column

	// Memoized synthetic key name, set on first KeyColumn call when no
	// descriptor declares key. Idempotent to recompute, so no locking.
	autoKey string
}

// New creates a Spec over the given descriptors.
func New(columns []Column) *Spec {
	return &Spec{columns: columns}
}

// Columns returns the descriptors in input order.
func (s *Spec) Columns() []Column { return s.columns }

// Validate checks the structural invariants of the descriptor list:
// every column has a name and type, at most one key, at most one label,
// and no column is both. Returns the first violation found.
func (s *Spec) Validate() error {
	hasKey := false
	hasLabel := false
	for i, c := range s.columns {
		if c.Name == "" || c.Type == "" {
			return fmt.Errorf("column %d: %w", i, ErrColumnHasNoNameOrType)
		}
		if c.Key {
			if hasKey {
				return fmt.Errorf("column %q: %w", c.Name, ErrColumnMultiKey)
			}
			if c.Label {
				return fmt.Errorf("column %q: %w", c.Name, ErrColumnKeyAndLabel)
			}
			hasKey = true
		}
		if c.Label {
			if hasLabel {
				return fmt.Errorf("column %q: %w", c.Name, ErrColumnMultiLabel)
			}
			hasLabel = true
		}
	}
	return nil
}

// ColumnNames returns all column names in input order.
func (s *Spec) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Filter selects a subset of column names. Active predicates combine with
// AND: a column is included only if it survives every enabled filter.
type Filter struct {
	// NumericOnly keeps only columns whose type can feed numeric feature math.
	NumericOnly bool
	// LabelOnly keeps only the label column.
	LabelOnly bool
	// ExcludeSkip drops label, train and bypass columns.
	ExcludeSkip bool
}

// UseColumns returns the ordered column names surviving the filter.
func (s *Spec) UseColumns(f Filter) []string {
	var names []string
	for _, c := range s.columns {
		if f.NumericOnly && !c.Type.IsNumeric() {
			continue
		}
		if f.LabelOnly && !c.Label {
			continue
		}
		if f.ExcludeSkip && c.skip() {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// DTypes returns the name to strict storage dtype mapping. Only types with
// an exact storage dtype appear; everything else is inferred downstream.
func (s *Spec) DTypes() map[string]DType {
	dtypes := make(map[string]DType)
	for _, c := range s.columns {
		if dt, ok := dtypeByType[c.Type]; ok {
			dtypes[c.Name] = dt
		}
	}
	return dtypes
}

// Converters returns the name to parse-function mapping. Only types with a
// registered converter appear.
func (s *Spec) Converters() map[string]Converter {
	convs := make(map[string]Converter)
	for _, c := range s.columns {
		if conv, ok := converterByType[c.Type]; ok {
			convs[c.Name] = conv
		}
	}
	return convs
}

const maxAutoKeyAttempts = 99999

// KeyColumn returns the name of the declared key column. When no column
// declares key, a synthetic name that does not collide with any existing
// column is generated once and memoized: "id", then "id_1" ... "id_99999".
// Exhausting every candidate returns ErrKeyNameExhausted.
func (s *Spec) KeyColumn() (string, error) {
	for _, c := range s.columns {
		if c.Key {
			return c.Name, nil
		}
	}
	if s.autoKey != "" {
		return s.autoKey, nil
	}

	taken := make(map[string]struct{}, len(s.columns))
	for _, c := range s.columns {
		taken[c.Name] = struct{}{}
	}
	if _, ok := taken["id"]; !ok {
		s.autoKey = "id"
		return s.autoKey, nil
	}
	for i := 1; i <= maxAutoKeyAttempts; i++ {
		name := "id_" + strconv.Itoa(i)
		if _, ok := taken[name]; !ok {
			s.autoKey = name
			return s.autoKey, nil
		}
	}
	return "", ErrKeyNameExhausted
}

// IsAutoKeyName reports whether the key name was synthetically generated.
func (s *Spec) IsAutoKeyName() bool { return s.autoKey != "" }

// LabelColumn returns the label column name, if one is declared.
func (s *Spec) LabelColumn() (string, bool) {
	for _, c := range s.columns {
		if c.Label {
			return c.Name, true
		}
	}
	return "", false
}

// TrainColumn returns the train/test split column name, if one is declared.
func (s *Spec) TrainColumn() (string, bool) {
	for _, c := range s.columns {
		if c.Train {
			return c.Name, true
		}
	}
	return "", false
}

// BypassColumns returns the ordered names of all bypass columns.
func (s *Spec) BypassColumns() []string {
	var names []string
	for _, c := range s.columns {
		if c.Bypass {
			names = append(names, c.Name)
		}
	}
	return names
}

// IsNumerics returns one boolean per descriptor, in input order: false for
// label and bypass columns regardless of declared type (those roles are
// excluded from numeric feature-importance accounting), otherwise true iff
// the declared type is numeric-capable.
func (s *Spec) IsNumerics() []bool {
	out := make([]bool, len(s.columns))
	for i, c := range s.columns {
		if c.Label || c.Bypass {
			out[i] = false
			continue
		}
		out[i] = c.Type.IsNumeric()
	}
	return out
}
