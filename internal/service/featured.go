package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"needsnet.app/api/common/id"
	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
)

type FeaturedItemInput struct {
	Order    int
	ItemID   string
	ItemType model.ItemType
}

type FeaturedItemService interface {
	List(ctx context.Context) ([]model.FeaturedItem, error)
	// Replace swaps the whole featured list for items and returns the
	// populated result.
	Replace(ctx context.Context, items []FeaturedItemInput) ([]model.FeaturedItem, error)
}

const maxFeaturedItems = 20

type featuredItemService struct {
	featured store.FeaturedItemStore
}

func NewFeaturedItemService(featured store.FeaturedItemStore) FeaturedItemService {
	return &featuredItemService{featured: featured}
}

func (s *featuredItemService) List(ctx context.Context) ([]model.FeaturedItem, error) {
	items, err := s.featured.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing featured items: %w", err)
	}
	return items, nil
}

func (s *featuredItemService) Replace(ctx context.Context, inputs []FeaturedItemInput) ([]model.FeaturedItem, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("items must contain at least one item")
	}
	if len(inputs) > maxFeaturedItems {
		return nil, apperr.Validation(fmt.Sprintf("items must contain at most %d items", maxFeaturedItems))
	}

	orders := make(map[int]struct{}, len(inputs))
	idsByType := make(map[model.ItemType][]string)
	for _, in := range inputs {
		if in.Order < 1 {
			return nil, apperr.Validation("order must be at least 1")
		}
		if _, dup := orders[in.Order]; dup {
			return nil, apperr.Validation(fmt.Sprintf("duplicate order %d", in.Order))
		}
		orders[in.Order] = struct{}{}

		if !in.ItemType.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid itemType %q", in.ItemType))
		}
		idsByType[in.ItemType] = append(idsByType[in.ItemType], in.ItemID)
	}

	for itemType, ids := range idsByType {
		found, err := s.featured.Resolve(ctx, itemType, ids)
		if err != nil {
			return nil, fmt.Errorf("checking featured references: %w", err)
		}
		for _, itemID := range ids {
			if _, ok := found[itemID]; !ok {
				return nil, apperr.NotFound(fmt.Sprintf("%s %s not found", itemType, itemID)).
					WithField("item", itemID).
					WithField("itemType", itemType)
			}
		}
	}

	items := make([]model.FeaturedItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, model.FeaturedItem{
			ID:       id.New(),
			Order:    in.Order,
			ItemID:   in.ItemID,
			ItemType: in.ItemType,
		})
	}

	if err := s.featured.ReplaceAll(ctx, items); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("featured items were replaced concurrently, retry")
		}
		return nil, fmt.Errorf("replacing featured items: %w", err)
	}

	slog.InfoContext(ctx, "featured items replaced", "count", len(items))
	return s.List(ctx)
}
