package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/types"
)

type FarmRepo interface {
	Create(ctx context.Context, tx *gorm.DB, farms []*types.Farm) ([]*types.Farm, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, farmIDs []string) ([]*types.Farm, error)
	IDExists(ctx context.Context, tx *gorm.DB, farmID string) (bool, error)
}

type farmRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFarmRepo(db *gorm.DB, baseLog *logger.Logger) FarmRepo {
	return &farmRepo{db: db, log: baseLog.With("repo", "FarmRepo")}
}

func (fr *farmRepo) Create(ctx context.Context, tx *gorm.DB, farms []*types.Farm) ([]*types.Farm, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if len(farms) == 0 {
		return []*types.Farm{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

func (fr *farmRepo) GetByIDs(ctx context.Context, tx *gorm.DB, farmIDs []string) ([]*types.Farm, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.Farm
	if len(farmIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", farmIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *farmRepo) IDExists(ctx context.Context, tx *gorm.DB, farmID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Farm{}).
		Where("id = ?", farmID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
