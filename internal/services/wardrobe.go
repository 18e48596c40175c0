package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/outfit"
	"github.com/ootdlab/ootd-backend/internal/repos"
	"github.com/ootdlab/ootd-backend/internal/requestdata"
	"github.com/ootdlab/ootd-backend/internal/types"
)

type WardrobeService interface {
	List(ctx context.Context) ([]*types.WardrobeItem, error)
	Add(ctx context.Context, category string, subcategory *string, imageURL string) (*types.WardrobeItem, error)
	SetAvailability(ctx context.Context, itemID uuid.UUID, available bool) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	IndexItems(ctx context.Context, userID uuid.UUID) ([]outfit.IndexItem, error)
}

type wardrobeService struct {
	db               *gorm.DB
	log              *logger.Logger
	wardrobeItemRepo repos.WardrobeItemRepo
}

func NewWardrobeService(db *gorm.DB, log *logger.Logger, wardrobeItemRepo repos.WardrobeItemRepo) WardrobeService {
	serviceLog := log.With("service", "WardrobeService")
	return &wardrobeService{db: db, log: serviceLog, wardrobeItemRepo: wardrobeItemRepo}
}

func (ws *wardrobeService) List(ctx context.Context) ([]*types.WardrobeItem, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}
	return ws.wardrobeItemRepo.GetByUserID(ctx, nil, rd.UserID)
}

func (ws *wardrobeService) Add(ctx context.Context, category string, subcategory *string, imageURL string) (*types.WardrobeItem, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}
	if category == "" {
		return nil, fmt.Errorf("Category is required")
	}
	item := &types.WardrobeItem{
		ID:          uuid.New(),
		UserID:      rd.UserID,
		Category:    category,
		Subcategory: subcategory,
		ImageURL:    imageURL,
		Available:   true,
	}
	created, err := ws.wardrobeItemRepo.Create(ctx, nil, []*types.WardrobeItem{item})
	if err != nil {
		return nil, fmt.Errorf("Failed to create wardrobe item: %w", err)
	}
	return created[0], nil
}

func (ws *wardrobeService) SetAvailability(ctx context.Context, itemID uuid.UUID, available bool) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("No request data found in context")
	}
	if err := ws.wardrobeItemRepo.SetAvailability(ctx, nil, itemID, rd.UserID, available); err != nil {
		return fmt.Errorf("Failed to update availability: %w", err)
	}
	return nil
}

func (ws *wardrobeService) Delete(ctx context.Context, itemID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("No request data found in context")
	}
	if err := ws.wardrobeItemRepo.Delete(ctx, nil, itemID, rd.UserID); err != nil {
		return fmt.Errorf("Failed to delete wardrobe item: %w", err)
	}
	return nil
}

// IndexItems reads the wardrobe fresh and converts it for the engine's
// index. The engine never sees repository rows, only value copies.
func (ws *wardrobeService) IndexItems(ctx context.Context, userID uuid.UUID) ([]outfit.IndexItem, error) {
	rows, err := ws.wardrobeItemRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to read wardrobe: %w", err)
	}
	items := make([]outfit.IndexItem, 0, len(rows))
	for _, row := range rows {
		item := outfit.IndexItem{
			ID:        row.ID,
			Category:  row.Category,
			ImageURL:  row.ImageURL,
			Available: row.Available,
		}
		if row.Subcategory != nil {
			item.Subcategory = *row.Subcategory
		}
		items = append(items, item)
	}
	return items, nil
}
