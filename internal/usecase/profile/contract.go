package profile

import (
	"context"

	domprofile "github.com/kailas-cloud/tabprep/internal/domain/profile"
)

// Repository persists profiling reports.
type Repository interface {
	Put(ctx context.Context, rep domprofile.Report) error
	Get(ctx context.Context, dataset string) (domprofile.Report, error)
	Delete(ctx context.Context, dataset string) error
	List(ctx context.Context) ([]string, error)
}
