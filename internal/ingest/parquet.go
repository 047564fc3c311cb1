package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/tabprep/internal/domain/frame"
)

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}

// parquetColumn accumulates one leaf column while streaming row groups.
type parquetColumn struct {
	name   string
	kind   frame.Kind
	floats []float64
	bools  []bool
	strs   []string
	valid  []bool
}

func (c *parquetColumn) appendNull() {
	c.valid = append(c.valid, false)
	switch c.kind {
	case frame.Float:
		c.floats = append(c.floats, 0)
	case frame.Bool:
		c.bools = append(c.bools, false)
	default:
		c.strs = append(c.strs, "")
	}
}

func (c *parquetColumn) appendValue(v parquet.Value) {
	if v.IsNull() {
		c.appendNull()
		return
	}
	c.valid = append(c.valid, true)
	switch c.kind {
	case frame.Float:
		c.floats = append(c.floats, numericValue(v))
	case frame.Bool:
		c.bools = append(c.bools, v.Boolean())
	default:
		c.strs = append(c.strs, v.String())
	}
}

func numericValue(v parquet.Value) float64 {
	switch v.Kind() {
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	default:
		return v.Double()
	}
}

func frameKind(k parquet.Kind) frame.Kind {
	switch k {
	case parquet.Boolean:
		return frame.Bool
	case parquet.Int32, parquet.Int64, parquet.Float, parquet.Double:
		return frame.Float
	default:
		return frame.String
	}
}

// ReadParquet loads a flat parquet file as a feature matrix. Leaf columns
// map to frame columns: boolean stays bool, integer and floating physical
// types become float, everything else becomes string.
func ReadParquet(path string) (*frame.Frame, error) {
	h, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	schema := h.pf.Schema()
	paths := schema.Columns()
	cols := make([]*parquetColumn, len(paths))
	for i, p := range paths {
		leaf, ok := schema.Lookup(p...)
		if !ok {
			return nil, fmt.Errorf("leaf column %q not found in schema", strings.Join(p, "."))
		}
		cols[i] = &parquetColumn{
			name: strings.Join(p, "."),
			kind: frameKind(leaf.Node.Type().Kind()),
		}
	}

	// Per-row scratch: first value seen for each leaf column.
	cells := make([]parquet.Value, len(cols))
	seen := make([]bool, len(cols))

	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				for j := range seen {
					seen[j] = false
				}
				for _, v := range buf[i] {
					idx := v.Column()
					if idx < 0 || idx >= len(cols) || seen[idx] {
						continue
					}
					cells[idx] = v
					seen[idx] = true
				}
				for j, c := range cols {
					if seen[j] {
						c.appendValue(cells[j])
					} else {
						c.appendNull()
					}
				}
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}

	frameCols := make([]*frame.Column, len(cols))
	for i, c := range cols {
		switch c.kind {
		case frame.Float:
			frameCols[i] = frame.NewFloat(c.name, c.floats, c.valid)
		case frame.Bool:
			frameCols[i] = frame.NewBool(c.name, c.bools, c.valid)
		default:
			frameCols[i] = frame.NewString(c.name, c.strs, c.valid)
		}
	}

	fm, err := frame.New(frameCols...)
	if err != nil {
		return nil, fmt.Errorf("build frame: %w", err)
	}
	return fm, nil
}
