package arangodb

import (
	"context"
	"fmt"
)

// Meta identifies a stored document revision.
type Meta struct {
	Key string
	Rev string
}

type CollectionSpec struct {
	Name    string
	Indexes []IndexSpec
}

type IndexSpec struct {
	Fields []string
	Unique bool
	Sparse bool
}

type Cursor interface {
	HasMore() bool
	ReadDocument(ctx context.Context, result any) error
	Close() error
}

// QueryAll runs query and decodes every result row into a T.
func QueryAll[T any](ctx context.Context, q Querier, query string, bindVars map[string]any) ([]T, error) {
	cursor, err := q.Query(ctx, query, bindVars)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	results := make([]T, 0)
	for cursor.HasMore() {
		var row T
		if err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}

// QueryOne returns the first row of query, or ErrNotFound when it yields none.
func QueryOne[T any](ctx context.Context, q Querier, query string, bindVars map[string]any) (T, error) {
	var zero T
	rows, err := QueryAll[T](ctx, q, query, bindVars)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("query returned no rows: %w", ErrNotFound)
	}
	return rows[0], nil
}
