package store

import (
	"context"
	"errors"
	"fmt"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrRevisionMismatch is returned by revision-guarded writes when the stored
// document changed since it was read.
var ErrRevisionMismatch = errors.New("revision mismatch")

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate")

// UserStore keeps participant profiles used to populate message authors
type UserStore interface {
	Upsert(ctx context.Context, user model.User) error
	GetByIDs(ctx context.Context, ids []string) (map[string]model.User, error)
}

// NeedStore defines the contract for need data access
type NeedStore interface {
	Create(ctx context.Context, need *model.Need) error
	GetByID(ctx context.Context, id string) (*model.Need, error)
	ListOpen(ctx context.Context, limit, offset int) ([]model.Need, error)
	UpdateStatus(ctx context.Context, id string, status model.NeedStatus) (*model.Need, error)
}

// PollStore defines the contract for poll data access
type PollStore interface {
	Create(ctx context.Context, poll *model.Poll) error
	GetByID(ctx context.Context, id string) (*model.Poll, error)
	ListByNeed(ctx context.Context, needID string) ([]model.Poll, error)
	// Replace persists the whole poll if the stored revision still equals
	// poll.Rev, and updates poll.Rev on success.
	Replace(ctx context.Context, poll *model.Poll) error
}

// MessageStore defines the contract for supporter message data access
type MessageStore interface {
	Create(ctx context.Context, msg *model.SupporterMessage) error
	GetByID(ctx context.Context, id string) (*model.SupporterMessage, error)
	// ListByNeed returns every message of the need ordered by creation time.
	ListByNeed(ctx context.Context, needID string) ([]model.SupporterMessage, error)
	Replace(ctx context.Context, msg *model.SupporterMessage) error
}

// FeaturedItemStore defines the contract for the featured items list
type FeaturedItemStore interface {
	// List returns all featured items by order with their targets resolved.
	List(ctx context.Context) ([]model.FeaturedItem, error)
	// ReplaceAll atomically swaps the whole list for items.
	ReplaceAll(ctx context.Context, items []model.FeaturedItem) error
	// Resolve looks up the given ids in the collection backing itemType.
	// Missing ids are absent from the result.
	Resolve(ctx context.Context, itemType model.ItemType, ids []string) (map[string]model.FeaturedContent, error)
}

// FaqStore defines the contract for FAQ data access
type FaqStore interface {
	Create(ctx context.Context, faq *model.Faq) error
	GetByID(ctx context.Context, id string) (*model.Faq, error)
	List(ctx context.Context, activeOnly bool) ([]model.Faq, error)
	Update(ctx context.Context, faq *model.Faq) error
	Delete(ctx context.Context, id string) error
}

type ArticleStore interface {
	Create(ctx context.Context, article *model.Article) error
	GetByID(ctx context.Context, id string) (*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	ListPublished(ctx context.Context, category model.ArticleCategory, limit, offset int) ([]model.Article, error)
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id string) error
	SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type VideoStore interface {
	Create(ctx context.Context, video *model.Video) error
	List(ctx context.Context) ([]model.Video, error)
	SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type GalleryStore interface {
	Create(ctx context.Context, gallery *model.Gallery) error
	List(ctx context.Context) ([]model.Gallery, error)
	SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// DashboardStore computes aggregate counts across collections
type DashboardStore interface {
	Stats(ctx context.Context) (model.DashboardStats, error)
}

// WordCloudStore defines the contract for per-need word cloud documents
type WordCloudStore interface {
	Get(ctx context.Context, needID string) (*model.WordCloud, error)
	// Save creates the cloud when cloud.Rev is empty, otherwise replaces it
	// guarded by cloud.Rev.
	Save(ctx context.Context, cloud *model.WordCloud) error
}

// mapErr translates adapter sentinels into store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, arangodb.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, arangodb.ErrRevisionMismatch):
		return fmt.Errorf("%w: %w", ErrRevisionMismatch, err)
	case errors.Is(err, arangodb.ErrConflict):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	default:
		return err
	}
}
