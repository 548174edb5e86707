package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type DoctorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doctor *types.Doctor) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Doctor, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Doctor, error)
	SetMasterDoctorID(ctx context.Context, tx *gorm.DB, id uint, masterDoctorID string) error
}

type doctorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDoctorRepo(db *gorm.DB, baseLog *logger.Logger) DoctorRepo {
	return &doctorRepo{db: db, log: baseLog.With("repo", "DoctorRepo")}
}

func (r *doctorRepo) Create(ctx context.Context, tx *gorm.DB, doctor *types.Doctor) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	doctor.Email = strings.ToLower(strings.TrimSpace(doctor.Email))
	return transaction.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Doctor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Doctor
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Preload("Clinic").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *doctorRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Doctor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Doctor
	if err := transaction.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *doctorRepo) SetMasterDoctorID(ctx context.Context, tx *gorm.DB, id uint, masterDoctorID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Doctor{}).
		Where("id = ?", id).
		Update("master_doctor_id", masterDoctorID).Error
}
