// Package source fetches the records a report run is built from.
package source

import (
	"context"
	"errors"
	"time"

	"quickclose-report/internal/models"
)

// ErrUnavailable wraps every failure to reach or query a data source.
var ErrUnavailable = errors.New("data source unavailable")

// Source supplies trades and the records needed to enrich them.
// Implementations must bind every parameter; nothing is interpolated into a query.
type Source interface {
	// Trades returns trades whose open or close time falls in [start, end], ordered by id.
	Trades(ctx context.Context, start, end time.Time) ([]models.Trade, error)
	// Accounts returns accounts for logins whose type contains one of types.
	Accounts(ctx context.Context, logins []int64, types []string) ([]models.Account, error)
	Customers(ctx context.Context, ids []int64) ([]models.Customer, error)
	Countries(ctx context.Context, ids []int64) ([]models.Country, error)
}

// Chunk splits ids into slices of at most size elements so bound
// parameter lists stay under driver limits.
func Chunk[T any](ids []T, size int) [][]T {
	if size <= 0 {
		size = len(ids)
	}
	var out [][]T
	for len(ids) > 0 {
		n := size
		if len(ids) < n {
			n = len(ids)
		}
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}
