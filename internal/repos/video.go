package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type VideoRepo interface {
	// ListPublished returns active+published videos with their language rows
	// preloaded, in stable payload order.
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Video, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Video, error)
	GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Video, error)
	Save(ctx context.Context, tx *gorm.DB, video *types.Video) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ReplaceLanguages(ctx context.Context, tx *gorm.DB, videoID uint, langs []types.VideoLanguage) error
	ClearTherapyRefs(ctx context.Context, tx *gorm.DB, therapyID uint) error
	ClearTriggerRefs(ctx context.Context, tx *gorm.DB, triggerID uint) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{db: db, log: baseLog.With("repo", "VideoRepo")}
}

func (r *videoRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Video
	if err := transaction.WithContext(ctx).
		Where("is_active = ? AND is_published = ?", true, true).
		Preload("Languages", func(db *gorm.DB) *gorm.DB {
			return db.Order("language_code")
		}).
		Order("sort_order, code, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *videoRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Video
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		Preload("Languages").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *videoRepo) GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Video
	if len(codes) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("code IN ?", codes).
		Preload("Languages", func(db *gorm.DB) *gorm.DB {
			return db.Order("language_code")
		}).
		Order("sort_order, code, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *videoRepo) Save(ctx context.Context, tx *gorm.DB, video *types.Video) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Languages").Save(video).Error
}

func (r *videoRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("video_id = ?", id).
		Delete(&types.VideoLanguage{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).Delete(&types.Video{}, id).Error
}

func (r *videoRepo) ReplaceLanguages(ctx context.Context, tx *gorm.DB, videoID uint, langs []types.VideoLanguage) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&types.VideoLanguage{}).Error; err != nil {
		return err
	}
	if len(langs) == 0 {
		return nil
	}
	for i := range langs {
		langs[i].ID = 0
		langs[i].VideoID = videoID
	}
	return transaction.WithContext(ctx).Create(&langs).Error
}

func (r *videoRepo) ClearTherapyRefs(ctx context.Context, tx *gorm.DB, therapyID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("primary_therapy_id = ?", therapyID).
		Update("primary_therapy_id", nil).Error
}

func (r *videoRepo) ClearTriggerRefs(ctx context.Context, tx *gorm.DB, triggerID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("primary_trigger_id = ?", triggerID).
		Update("primary_trigger_id", nil).Error
}
