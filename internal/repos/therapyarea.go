package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type TherapyAreaRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.TherapyArea, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.TherapyArea, error)
	Save(ctx context.Context, tx *gorm.DB, area *types.TherapyArea) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type therapyAreaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTherapyAreaRepo(db *gorm.DB, baseLog *logger.Logger) TherapyAreaRepo {
	return &therapyAreaRepo{db: db, log: baseLog.With("repo", "TherapyAreaRepo")}
}

func (r *therapyAreaRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.TherapyArea, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TherapyArea
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order, display_name, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *therapyAreaRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.TherapyArea, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TherapyArea
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *therapyAreaRepo) Save(ctx context.Context, tx *gorm.DB, area *types.TherapyArea) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(area).Error
}

func (r *therapyAreaRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.TherapyArea{}, id).Error
}
