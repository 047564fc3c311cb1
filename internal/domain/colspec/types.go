package colspec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type is the declared semantic type of an input column. Tags outside the
// known set are treated as opaque strings.
type Type string

// Known type tags.
const (
	Number Type = "number"
	Date   Type = "date"
	Bool   Type = "bool"
	String Type = "string"
)

// IsNumeric reports whether values of this type can feed numeric feature math.
func (t Type) IsNumeric() bool { return t == Number || t == Bool }

// DType is a strict storage type used for ingestion coercion.
type DType string

// DTypeBool stores the column as booleans without inference.
const DTypeBool DType = "bool"

// Converter parses a raw cell into a typed value. Empty input means a
// missing value and yields (nil, nil).
type Converter func(raw string) (any, error)

// Closed registries: type tag to storage dtype / converter. Tags absent
// from a registry are simply omitted from the derived mapping.
var (
	dtypeByType = map[Type]DType{
		Bool: DTypeBool,
	}

	converterByType = map[Type]Converter{
		Number: ParseNumber,
		Date:   ParseDate,
	}
)

// ParseNumber converts a raw cell to float64.
func ParseNumber(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("parse number %q: %w", raw, err)
	}
	return v, nil
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// ParseDate converts a raw cell to time.Time.
func ParseDate(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("parse date %q: unrecognized format", raw)
}
