package db

import (
	"errors"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// wrapQueryError adds a label identifying the failed statistic query.
// SurrealDB query errors keep their type so callers can inspect them
// with errors.As.
func wrapQueryError(name string, err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		return fmt.Errorf("%s: query failed: %w", name, err)
	}
	return fmt.Errorf("%s: %w", name, err)
}
