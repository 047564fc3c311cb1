package tabprep

import (
	"github.com/kailas-cloud/tabprep/internal/domain/colspec"
	domprofile "github.com/kailas-cloud/tabprep/internal/domain/profile"
	"github.com/kailas-cloud/tabprep/internal/selection"
)

func toInternalColumns(columns []Column) []colspec.Column {
	out := make([]colspec.Column, len(columns))
	for i, c := range columns {
		out[i] = colspec.Column{
			Name:   c.Name,
			Type:   colspec.Type(c.Type),
			Key:    c.Key,
			Label:  c.Label,
			Train:  c.Train,
			Bypass: c.Bypass,
		}
	}
	return out
}

func fromInternalReport(rep domprofile.Report) Report {
	return Report{
		Dataset:        rep.Dataset,
		Rows:           rep.Rows,
		Columns:        rep.Columns,
		LowInformation: rep.LowInformation,
		HighlyNull:     rep.HighlyNull,
		SingleValue:    rep.SingleValue,
		Correlated:     fromInternalPairs(rep.Correlated),
		NullThreshold:  rep.NullThreshold,
		CorrThreshold:  rep.CorrThreshold,
		CreatedAt:      rep.CreatedAt,
	}
}

func fromInternalPairs(pairs []selection.Pair) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = Pair{First: p.First, Second: p.Second}
	}
	return out
}
