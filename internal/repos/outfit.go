package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/types"
)

type OutfitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, outfits []*types.Outfit) ([]*types.Outfit, error)
	CreateCells(ctx context.Context, tx *gorm.DB, cells []*types.OutfitCell) ([]*types.OutfitCell, error)
	CreateItemLinks(ctx context.Context, tx *gorm.DB, links []*types.OutfitItemLink) ([]*types.OutfitItemLink, error)
	ExistsForUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (bool, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, outfitIDs []uuid.UUID) ([]*types.Outfit, error)
	GetCellsByOutfitID(ctx context.Context, tx *gorm.DB, outfitID uuid.UUID) ([]*types.OutfitCell, error)
	GetItemLinksByOutfitID(ctx context.Context, tx *gorm.DB, outfitID uuid.UUID) ([]*types.OutfitItemLink, error)
}

type outfitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutfitRepo(db *gorm.DB, baseLog *logger.Logger) OutfitRepo {
	repoLog := baseLog.With("repo", "OutfitRepo")
	return &outfitRepo{db: db, log: repoLog}
}

func (or *outfitRepo) Create(ctx context.Context, tx *gorm.DB, outfits []*types.Outfit) ([]*types.Outfit, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if len(outfits) == 0 {
		return []*types.Outfit{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&outfits).Error; err != nil {
		return nil, err
	}
	return outfits, nil
}

func (or *outfitRepo) CreateCells(ctx context.Context, tx *gorm.DB, cells []*types.OutfitCell) ([]*types.OutfitCell, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if len(cells) == 0 {
		return []*types.OutfitCell{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&cells).Error; err != nil {
		return nil, err
	}
	return cells, nil
}

func (or *outfitRepo) CreateItemLinks(ctx context.Context, tx *gorm.DB, links []*types.OutfitItemLink) ([]*types.OutfitItemLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if len(links) == 0 {
		return []*types.OutfitItemLink{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (or *outfitRepo) ExistsForUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Outfit{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (or *outfitRepo) GetByIDs(ctx context.Context, tx *gorm.DB, outfitIDs []uuid.UUID) ([]*types.Outfit, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.Outfit
	if len(outfitIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", outfitIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *outfitRepo) GetCellsByOutfitID(ctx context.Context, tx *gorm.DB, outfitID uuid.UUID) ([]*types.OutfitCell, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.OutfitCell
	if err := transaction.WithContext(ctx).
		Where("outfit_id = ?", outfitID).
		Order("grid_column ASC, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *outfitRepo) GetItemLinksByOutfitID(ctx context.Context, tx *gorm.DB, outfitID uuid.UUID) ([]*types.OutfitItemLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.OutfitItemLink
	if err := transaction.WithContext(ctx).
		Where("outfit_id = ?", outfitID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
