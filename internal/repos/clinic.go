package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type ClinicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clinic *types.Clinic) error
}

type clinicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClinicRepo(db *gorm.DB, baseLog *logger.Logger) ClinicRepo {
	return &clinicRepo{db: db, log: baseLog.With("repo", "ClinicRepo")}
}

func (r *clinicRepo) Create(ctx context.Context, tx *gorm.DB, clinic *types.Clinic) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(clinic).Error
}
