package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/types"
)

type WeatherSnapshotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, snapshots []*types.WeatherSnapshot) ([]*types.WeatherSnapshot, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, snapshotIDs []uuid.UUID) ([]*types.WeatherSnapshot, error)
}

type weatherSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeatherSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) WeatherSnapshotRepo {
	repoLog := baseLog.With("repo", "WeatherSnapshotRepo")
	return &weatherSnapshotRepo{db: db, log: repoLog}
}

func (sr *weatherSnapshotRepo) Create(ctx context.Context, tx *gorm.DB, snapshots []*types.WeatherSnapshot) ([]*types.WeatherSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(snapshots) == 0 {
		return []*types.WeatherSnapshot{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (sr *weatherSnapshotRepo) GetByIDs(ctx context.Context, tx *gorm.DB, snapshotIDs []uuid.UUID) ([]*types.WeatherSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.WeatherSnapshot
	if len(snapshotIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", snapshotIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
