package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"needsnet.app/api/common/arangodb"
)

type replaceCall struct {
	collection string
	key        string
	doc        any
	ifMatchRev string
}

type queryCall struct {
	query    string
	bindVars map[string]any
	inTx     bool
}

// fakeClient is an in-memory arangodb.Client. Query results are produced by
// queryFn; document calls go through the fn fields when set.
type fakeClient struct {
	queryFn   func(query string, bindVars map[string]any) ([]any, error)
	readFn    func(collection, key string) (any, string, error)
	createFn  func(collection string, doc any) (arangodb.Meta, error)
	replaceFn func(collection, key string, doc any, ifMatchRev string) (arangodb.Meta, error)
	txErr     error

	queries  []queryCall
	replaces []replaceCall
	inTx     bool
}

func (f *fakeClient) Query(_ context.Context, query string, bindVars map[string]any) (arangodb.Cursor, error) {
	f.queries = append(f.queries, queryCall{query: query, bindVars: bindVars, inTx: f.inTx})
	if f.queryFn == nil {
		return &fakeCursor{}, nil
	}
	rows, err := f.queryFn(query, bindVars)
	if err != nil {
		return nil, err
	}
	return newFakeCursor(rows)
}

func (f *fakeClient) EnsureDatabase(context.Context) error { return nil }

func (f *fakeClient) EnsureCollections(context.Context, []arangodb.CollectionSpec) error { return nil }

func (f *fakeClient) CreateDocument(_ context.Context, collection string, doc any) (arangodb.Meta, error) {
	if f.createFn != nil {
		return f.createFn(collection, doc)
	}
	return arangodb.Meta{Rev: "rev-1"}, nil
}

func (f *fakeClient) ReadDocument(_ context.Context, collection, key string, result any) (arangodb.Meta, error) {
	if f.readFn == nil {
		return arangodb.Meta{}, fmt.Errorf("read %s/%s: %w", collection, key, arangodb.ErrNotFound)
	}
	doc, rev, err := f.readFn(collection, key)
	if err != nil {
		return arangodb.Meta{}, err
	}
	if err := roundTrip(doc, result); err != nil {
		return arangodb.Meta{}, err
	}
	return arangodb.Meta{Key: key, Rev: rev}, nil
}

func (f *fakeClient) ReplaceDocument(_ context.Context, collection, key string, doc any, ifMatchRev string) (arangodb.Meta, error) {
	f.replaces = append(f.replaces, replaceCall{collection: collection, key: key, doc: doc, ifMatchRev: ifMatchRev})
	if f.replaceFn != nil {
		return f.replaceFn(collection, key, doc, ifMatchRev)
	}
	return arangodb.Meta{Key: key, Rev: "rev-next"}, nil
}

func (f *fakeClient) UpdateDocument(context.Context, string, string, any) (arangodb.Meta, error) {
	return arangodb.Meta{}, nil
}

func (f *fakeClient) RemoveDocument(context.Context, string, string) error { return nil }

func (f *fakeClient) WithTransaction(ctx context.Context, _ []string, fn func(ctx context.Context, tx arangodb.Querier) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	f.inTx = true
	defer func() { f.inTx = false }()
	return fn(ctx, f)
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) queriesContaining(fragment string) []queryCall {
	var out []queryCall
	for _, q := range f.queries {
		if strings.Contains(q.query, fragment) {
			out = append(out, q)
		}
	}
	return out
}

type fakeCursor struct {
	rows [][]byte
	pos  int
}

func newFakeCursor(rows []any) (*fakeCursor, error) {
	c := &fakeCursor{}
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		c.rows = append(c.rows, b)
	}
	return c, nil
}

func (c *fakeCursor) HasMore() bool { return c.pos < len(c.rows) }

func (c *fakeCursor) ReadDocument(_ context.Context, result any) error {
	if !c.HasMore() {
		return fmt.Errorf("no more documents")
	}
	b := c.rows[c.pos]
	c.pos++
	return json.Unmarshal(b, result)
}

func (c *fakeCursor) Close() error { return nil }

func roundTrip(in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
