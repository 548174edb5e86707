package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type ShareEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.ShareEvent) error
	ListRecentByDoctor(ctx context.Context, tx *gorm.DB, doctorID uint, limit int) ([]*types.ShareEvent, error)
}

type shareEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShareEventRepo(db *gorm.DB, baseLog *logger.Logger) ShareEventRepo {
	return &shareEventRepo{db: db, log: baseLog.With("repo", "ShareEventRepo")}
}

func (r *shareEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.ShareEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(event).Error
}

func (r *shareEventRepo) ListRecentByDoctor(ctx context.Context, tx *gorm.DB, doctorID uint, limit int) ([]*types.ShareEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if limit <= 0 {
		limit = 50
	}
	var results []*types.ShareEvent
	if err := transaction.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
