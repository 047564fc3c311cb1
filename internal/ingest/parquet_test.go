package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/tabprep/internal/domain/frame"
)

type testRow struct {
	Amount float64  `parquet:"amount"`
	Count  int64    `parquet:"count"`
	Active bool     `parquet:"active"`
	City   string   `parquet:"city"`
	Score  *float64 `parquet:"score,optional"`
}

func writeParquet(t *testing.T, rows []testRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := parquet.NewGenericWriter[testRow](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func fptr(v float64) *float64 { return &v }

func TestReadParquet(t *testing.T) {
	path := writeParquet(t, []testRow{
		{Amount: 1.5, Count: 10, Active: true, City: "austin", Score: fptr(0.9)},
		{Amount: 2.5, Count: 20, Active: false, City: "boston", Score: nil},
		{Amount: 3.5, Count: 30, Active: true, City: "austin", Score: fptr(0.7)},
	})

	fm, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if fm.NumRows() != 3 || fm.NumCols() != 5 {
		t.Fatalf("dims = (%d, %d), want (3, 5)", fm.NumRows(), fm.NumCols())
	}

	kinds := map[string]frame.Kind{
		"amount": frame.Float,
		"count":  frame.Float,
		"active": frame.Bool,
		"city":   frame.String,
		"score":  frame.Float,
	}
	for name, want := range kinds {
		c, ok := fm.Column(name)
		if !ok {
			t.Fatalf("column %q missing: %v", name, fm.ColumnNames())
		}
		if c.Kind() != want {
			t.Errorf("column %q kind = %v, want %v", name, c.Kind(), want)
		}
	}

	score, _ := fm.Column("score")
	if score.NonNullCount() != 2 {
		t.Errorf("score NonNullCount = %d, want 2 (one null row)", score.NonNullCount())
	}
	if !score.IsNull(1) {
		t.Error("score row 1 should be null")
	}

	count, _ := fm.Column("count")
	if count.NonNullCount() != 3 {
		t.Errorf("count NonNullCount = %d, want 3", count.NonNullCount())
	}
}

func TestReadParquet_MissingFile(t *testing.T) {
	if _, err := ReadParquet(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadParquet_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.parquet")
	if err := os.WriteFile(path, []byte("not a parquet file"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadParquet(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}
