package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type TriggerClusterRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.TriggerCluster, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.TriggerCluster, error)
	Save(ctx context.Context, tx *gorm.DB, cluster *types.TriggerCluster) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type triggerClusterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTriggerClusterRepo(db *gorm.DB, baseLog *logger.Logger) TriggerClusterRepo {
	return &triggerClusterRepo{db: db, log: baseLog.With("repo", "TriggerClusterRepo")}
}

func (r *triggerClusterRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.TriggerCluster, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TriggerCluster
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order, display_name, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *triggerClusterRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.TriggerCluster, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TriggerCluster
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

func (r *triggerClusterRepo) Save(ctx context.Context, tx *gorm.DB, cluster *types.TriggerCluster) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(cluster).Error
}

func (r *triggerClusterRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.TriggerCluster{}, id).Error
}
