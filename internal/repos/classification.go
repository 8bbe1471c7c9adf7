package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/types"
)

// ClassificationFilter holds the optional equality predicates for listing.
// Empty fields are ignored; the owning user scope is always applied on top.
type ClassificationFilter struct {
	AnimalType string
	FarmID     string
	Source     string
}

type ClassificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Classification) ([]*types.Classification, error)
	// GetOwned returns the record only when it exists and belongs to userID.
	// A missing or foreign-owned id yields (nil, nil), never the record.
	GetOwned(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (*types.Classification, error)
	// ListOwned returns one page ordered by created_at descending plus the
	// total count matching the filter before pagination.
	ListOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter ClassificationFilter, offset, limit int) ([]*types.Classification, int64, error)
	UpdateOwnedFields(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID, fields map[string]interface{}) (int64, error)
	DeleteOwned(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (int64, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type classificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationRepo {
	return &classificationRepo{db: db, log: baseLog.With("repo", "ClassificationRepo")}
}

func (cr *classificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Classification) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(rows) == 0 {
		return []*types.Classification{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (cr *classificationRepo) GetOwned(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Classification
	if err := transaction.WithContext(ctx).
		Preload("Farm").
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *classificationRepo) ListOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter ClassificationFilter, offset, limit int) ([]*types.Classification, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	scoped := transaction.WithContext(ctx).
		Model(&types.Classification{}).
		Where("user_id = ?", userID)
	if filter.AnimalType != "" {
		scoped = scoped.Where("animal_type = ?", filter.AnimalType)
	}
	if filter.FarmID != "" {
		scoped = scoped.Where("farm_id = ?", filter.FarmID)
	}
	if filter.Source != "" {
		scoped = scoped.Where("source = ?", filter.Source)
	}

	// Session() so the count finisher does not pollute the page query.
	var total int64
	if err := scoped.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Classification
	if err := scoped.Session(&gorm.Session{}).
		Preload("Farm").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (cr *classificationRepo) UpdateOwnedFields(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(fields) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.Classification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (cr *classificationRepo) DeleteOwned(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Classification{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (cr *classificationRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.Classification{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
