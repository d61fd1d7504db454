package arangodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/arangodb/go-driver/v2/connection"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrRevisionMismatch = errors.New("document revision mismatch")
	ErrConflict         = errors.New("unique constraint violated")
)

// Querier runs AQL. Implemented by the client and by transactions.
type Querier interface {
	Query(ctx context.Context, query string, bindVars map[string]any) (Cursor, error)
}

type Client interface {
	Querier

	// Setup operations
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context, specs []CollectionSpec) error

	// Document operations
	CreateDocument(ctx context.Context, collection string, doc any) (Meta, error)
	ReadDocument(ctx context.Context, collection, key string, result any) (Meta, error)
	ReplaceDocument(ctx context.Context, collection, key string, doc any, ifMatchRev string) (Meta, error)
	UpdateDocument(ctx context.Context, collection, key string, patch any) (Meta, error)
	RemoveDocument(ctx context.Context, collection, key string) error

	// WithTransaction runs fn inside a stream transaction that holds write
	// locks on the given collections. fn's error aborts the transaction.
	WithTransaction(ctx context.Context, write []string, fn func(ctx context.Context, tx Querier) error) error

	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if _, err := c.arangoClient.Version(ctx); err != nil {
		return fmt.Errorf("arangodb version: %w", err)
	}
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		_, err = c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context, specs []CollectionSpec) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, spec := range specs {
		if err := c.ensureCollection(ctx, spec); err != nil {
			return err
		}
	}

	return nil
}

func (c *client) ensureCollection(ctx context.Context, spec CollectionSpec) error {
	exists, err := c.db.CollectionExists(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("check collection %s exists: %w", spec.Name, err)
	}

	if !exists {
		colType := arangodb.CollectionTypeDocument
		props := &arangodb.CreateCollectionPropertiesV2{Type: &colType}

		if _, err := c.db.CreateCollectionV2(ctx, spec.Name, props); err != nil {
			return fmt.Errorf("create collection %s: %w", spec.Name, err)
		}
		slog.InfoContext(ctx, "arangodb collection created", "collection", spec.Name)
	}

	if len(spec.Indexes) == 0 {
		return nil
	}

	col, err := c.db.GetCollection(ctx, spec.Name, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", spec.Name, err)
	}

	for _, idx := range spec.Indexes {
		unique, sparse := idx.Unique, idx.Sparse
		_, created, err := col.EnsurePersistentIndex(ctx, idx.Fields, &arangodb.CreatePersistentIndexOptions{
			Unique: &unique,
			Sparse: &sparse,
		})
		if err != nil {
			return fmt.Errorf("ensure index %v on %s: %w", idx.Fields, spec.Name, err)
		}
		if created {
			slog.InfoContext(ctx, "arangodb index created",
				"collection", spec.Name,
				"fields", idx.Fields,
				"unique", idx.Unique)
		}
	}

	return nil
}

func (c *client) collection(ctx context.Context, name string) (arangodb.Collection, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	col, err := c.db.GetCollection(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", name, err)
	}
	return col, nil
}

func (c *client) CreateDocument(ctx context.Context, collection string, doc any) (Meta, error) {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return Meta{}, err
	}

	resp, err := col.CreateDocument(ctx, doc)
	if err != nil {
		return Meta{}, fmt.Errorf("create document in %s: %w", collection, mapError(err))
	}
	return Meta{Key: resp.Key, Rev: resp.Rev}, nil
}

func (c *client) ReadDocument(ctx context.Context, collection, key string, result any) (Meta, error) {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return Meta{}, err
	}

	meta, err := col.ReadDocument(ctx, key, result)
	if err != nil {
		return Meta{}, fmt.Errorf("read %s/%s: %w", collection, key, mapError(err))
	}
	return Meta{Key: meta.Key, Rev: meta.Rev}, nil
}

// ReplaceDocument overwrites the whole document. When ifMatchRev is set the
// write only succeeds if the stored revision still matches; otherwise
// ErrRevisionMismatch is returned.
func (c *client) ReplaceDocument(ctx context.Context, collection, key string, doc any, ifMatchRev string) (Meta, error) {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return Meta{}, err
	}

	opts := &arangodb.CollectionDocumentReplaceOptions{}
	if ifMatchRev != "" {
		opts.IfMatch = ifMatchRev
	}

	resp, err := col.ReplaceDocumentWithOptions(ctx, key, doc, opts)
	if err != nil {
		return Meta{}, fmt.Errorf("replace %s/%s: %w", collection, key, mapError(err))
	}
	return Meta{Key: resp.Key, Rev: resp.Rev}, nil
}

func (c *client) UpdateDocument(ctx context.Context, collection, key string, patch any) (Meta, error) {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return Meta{}, err
	}

	resp, err := col.UpdateDocument(ctx, key, patch)
	if err != nil {
		return Meta{}, fmt.Errorf("update %s/%s: %w", collection, key, mapError(err))
	}
	return Meta{Key: resp.Key, Rev: resp.Rev}, nil
}

func (c *client) RemoveDocument(ctx context.Context, collection, key string) error {
	col, err := c.collection(ctx, collection)
	if err != nil {
		return err
	}

	if _, err := col.DeleteDocument(ctx, key); err != nil {
		return fmt.Errorf("remove %s/%s: %w", collection, key, mapError(err))
	}
	return nil
}

func (c *client) Query(ctx context.Context, query string, bindVars map[string]any) (Cursor, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return runQuery(ctx, c.db, query, bindVars)
}

func (c *client) WithTransaction(ctx context.Context, write []string, fn func(ctx context.Context, tx Querier) error) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	start := time.Now()
	err := c.db.WithTransaction(ctx, arangodb.TransactionCollections{Write: write}, nil, nil, nil,
		func(ctx context.Context, t arangodb.Transaction) error {
			return fn(ctx, &txQuerier{tx: t})
		})
	if err != nil {
		return fmt.Errorf("transaction on %v: %w", write, mapError(err))
	}

	slog.DebugContext(ctx, "arangodb transaction committed",
		"collections", write,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

type txQuerier struct {
	tx arangodb.Transaction
}

func (q *txQuerier) Query(ctx context.Context, query string, bindVars map[string]any) (Cursor, error) {
	return runQuery(ctx, q.tx, query, bindVars)
}

type queryRunner interface {
	Query(ctx context.Context, query string, opts *arangodb.QueryOptions) (arangodb.Cursor, error)
}

func runQuery(ctx context.Context, r queryRunner, query string, bindVars map[string]any) (Cursor, error) {
	cursor, err := r.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", mapError(err))
	}
	return &driverCursor{cursor: cursor}, nil
}

type driverCursor struct {
	cursor arangodb.Cursor
}

func (c *driverCursor) HasMore() bool {
	return c.cursor.HasMore()
}

func (c *driverCursor) ReadDocument(ctx context.Context, result any) error {
	if _, err := c.cursor.ReadDocument(ctx, result); err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	return nil
}

func (c *driverCursor) Close() error {
	return c.cursor.Close()
}

func mapError(err error) error {
	switch {
	case shared.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case shared.IsPreconditionFailed(err):
		return fmt.Errorf("%w: %v", ErrRevisionMismatch, err)
	case shared.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
