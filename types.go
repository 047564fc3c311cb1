package tabprep

// Column describes one input column of a raw dataset.
type Column struct {
	// Name is the column identifier.
	Name string `json:"name" yaml:"name"`
	// Type is the semantic type tag: "number", "date", "bool" or an opaque
	// tag treated as string.
	Type string `json:"type" yaml:"type"`
	// Key marks the row identifier column.
	Key bool `json:"key,omitempty" yaml:"key,omitempty"`
	// Label marks the prediction target column.
	Label bool `json:"label,omitempty" yaml:"label,omitempty"`
	// Train marks the train/test split indicator column.
	Train bool `json:"train,omitempty" yaml:"train,omitempty"`
	// Bypass marks a column passed through unused by feature computation.
	Bypass bool `json:"bypass,omitempty" yaml:"bypass,omitempty"`
}

// Pair is an unordered column pair in canonical (lexicographic) order.
type Pair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Report is the outcome of profiling one dataset's feature matrix.
type Report struct {
	Dataset string `json:"dataset"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`

	LowInformation []string `json:"low_information"`
	HighlyNull     []string `json:"highly_null"`
	SingleValue    []string `json:"single_value"`
	Correlated     []Pair   `json:"highly_correlated"`

	NullThreshold float64 `json:"null_threshold"`
	CorrThreshold float64 `json:"corr_threshold"`
	CreatedAt     int64   `json:"created_at"`
}

// ProfileOptions tunes a single profiling run. Zero thresholds fall back
// to the client defaults.
type ProfileOptions struct {
	NullThreshold float64
	CorrThreshold float64
	// Check restricts correlation analysis to these columns (default: all).
	Check []string
	// Exclude removes columns from correlation analysis.
	Exclude []string
	// CountNaNAsValue makes the single-value filter treat missing as a value.
	CountNaNAsValue bool
	// SkipHeader drops the first CSV record (CSV ingestion only).
	SkipHeader bool
}
