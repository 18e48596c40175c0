package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/types"
)

type WardrobeItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.WardrobeItem) ([]*types.WardrobeItem, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.WardrobeItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.WardrobeItem, error)
	SetAvailability(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, userID uuid.UUID, available bool) error
	Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, userID uuid.UUID) error
}

type wardrobeItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWardrobeItemRepo(db *gorm.DB, baseLog *logger.Logger) WardrobeItemRepo {
	repoLog := baseLog.With("repo", "WardrobeItemRepo")
	return &wardrobeItemRepo{db: db, log: repoLog}
}

func (wr *wardrobeItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.WardrobeItem) ([]*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if len(items) == 0 {
		return []*types.WardrobeItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (wr *wardrobeItemRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var results []*types.WardrobeItem
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *wardrobeItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.WardrobeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var results []*types.WardrobeItem
	if len(itemIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *wardrobeItemRepo) SetAvailability(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, userID uuid.UUID, available bool) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.WardrobeItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("available", available).Error
}

func (wr *wardrobeItemRepo) Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&types.WardrobeItem{}).Error
}
