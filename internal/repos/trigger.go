package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type TriggerRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Trigger, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Trigger, error)
	Save(ctx context.Context, tx *gorm.DB, trigger *types.Trigger) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	CountByTherapy(ctx context.Context, tx *gorm.DB, therapyID uint) (int64, error)
	CountByCluster(ctx context.Context, tx *gorm.DB, clusterID uint) (int64, error)
}

type triggerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTriggerRepo(db *gorm.DB, baseLog *logger.Logger) TriggerRepo {
	return &triggerRepo{db: db, log: baseLog.With("repo", "TriggerRepo")}
}

func (r *triggerRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Trigger, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Trigger
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("doctor_trigger_label, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *triggerRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Trigger, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Trigger
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

func (r *triggerRepo) Save(ctx context.Context, tx *gorm.DB, trigger *types.Trigger) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(trigger).Error
}

func (r *triggerRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.Trigger{}, id).Error
}

func (r *triggerRepo) CountByTherapy(ctx context.Context, tx *gorm.DB, therapyID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Trigger{}).
		Where("primary_therapy_id = ?", therapyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *triggerRepo) CountByCluster(ctx context.Context, tx *gorm.DB, clusterID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Trigger{}).
		Where("cluster_id = ?", clusterID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
