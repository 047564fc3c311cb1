// Package ingest materializes feature matrices from raw tabular files.
// CSV ingestion is driven by a column spec (column order, usable subsets,
// dtype coercion, value converters); parquet ingestion reads an already
// typed feature matrix.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/tabprep/internal/domain/colspec"
	"github.com/kailas-cloud/tabprep/internal/domain/frame"
)

// Options control CSV ingestion.
type Options struct {
	// SkipHeader drops the first record; column names come from the spec.
	SkipHeader bool
	// Filter restricts ingestion to a column subset.
	Filter colspec.Filter
	// SynthesizeKey appends an auto-generated row-number key column when
	// the spec declares no key.
	SynthesizeKey bool
}

// columnBuilder accumulates raw cells of one column before the storage
// kind is known.
type columnBuilder struct {
	name   string
	values []any
	valid  []bool
}

func (b *columnBuilder) append(v any) {
	b.values = append(b.values, v)
	b.valid = append(b.valid, v != nil)
}

// ReadCSV ingests CSV rows using the spec for column order, selection and
// coercion. The spec must already be validated.
func ReadCSV(r io.Reader, spec *colspec.Spec, opts Options) (*frame.Frame, error) {
	names := spec.ColumnNames()
	use := spec.UseColumns(opts.Filter)
	converters := spec.Converters()
	dtypes := spec.DTypes()

	position := make(map[string]int, len(names))
	for i, name := range names {
		position[name] = i
	}

	builders := make([]*columnBuilder, len(use))
	for i, name := range use {
		builders[i] = &columnBuilder{name: name}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(names)

	if opts.SkipHeader {
		if _, err := cr.Read(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("skip header: %w", err)
		}
	}

	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}

		for i, name := range use {
			raw := record[position[name]]
			v, err := convertCell(raw, converters[name], dtypes[name])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", rows+1, name, err)
			}
			builders[i].append(v)
		}
		rows++
	}

	cols := make([]*frame.Column, 0, len(builders)+1)
	for _, b := range builders {
		col, err := materialize(b)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	if opts.SynthesizeKey {
		keyName, err := spec.KeyColumn()
		if err != nil {
			return nil, fmt.Errorf("key column: %w", err)
		}
		if spec.IsAutoKeyName() {
			seq := make([]float64, rows)
			for i := range seq {
				seq[i] = float64(i)
			}
			cols = append(cols, frame.NewFloat(keyName, seq, nil))
		}
	}

	fm, err := frame.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("build frame: %w", err)
	}
	return fm, nil
}

// convertCell coerces one raw cell. Empty cells are missing. A registered
// converter wins; otherwise a strict dtype applies; otherwise the cell
// stays a string.
func convertCell(raw string, conv colspec.Converter, dtype colspec.DType) (any, error) {
	if conv != nil {
		return conv(raw)
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if dtype == colspec.DTypeBool {
		v, err := strconv.ParseBool(strings.ToLower(trimmed))
		if err != nil {
			return nil, fmt.Errorf("parse bool %q: %w", raw, err)
		}
		return v, nil
	}
	return raw, nil
}

// materialize picks the storage kind from the first present value and
// builds the typed column. Mixed value types within a column are an error.
func materialize(b *columnBuilder) (*frame.Column, error) {
	n := len(b.values)
	var first any
	for i, ok := range b.valid {
		if ok {
			first = b.values[i]
			break
		}
	}

	switch first.(type) {
	case float64:
		vals := make([]float64, n)
		for i, ok := range b.valid {
			if !ok {
				continue
			}
			f, ok2 := b.values[i].(float64)
			if !ok2 {
				return nil, mixedTypeErr(b.name, i, b.values[i])
			}
			vals[i] = f
		}
		return frame.NewFloat(b.name, vals, b.valid), nil
	case bool:
		vals := make([]bool, n)
		for i, ok := range b.valid {
			if !ok {
				continue
			}
			v, ok2 := b.values[i].(bool)
			if !ok2 {
				return nil, mixedTypeErr(b.name, i, b.values[i])
			}
			vals[i] = v
		}
		return frame.NewBool(b.name, vals, b.valid), nil
	case time.Time:
		vals := make([]time.Time, n)
		for i, ok := range b.valid {
			if !ok {
				continue
			}
			v, ok2 := b.values[i].(time.Time)
			if !ok2 {
				return nil, mixedTypeErr(b.name, i, b.values[i])
			}
			vals[i] = v
		}
		return frame.NewTime(b.name, vals, b.valid), nil
	default:
		// All-missing columns materialize as strings.
		vals := make([]string, n)
		for i, ok := range b.valid {
			if !ok {
				continue
			}
			v, ok2 := b.values[i].(string)
			if !ok2 {
				return nil, mixedTypeErr(b.name, i, b.values[i])
			}
			vals[i] = v
		}
		return frame.NewString(b.name, vals, b.valid), nil
	}
}

func mixedTypeErr(name string, row int, v any) error {
	return fmt.Errorf("column %q row %d: mixed value type %T", name, row, v)
}
