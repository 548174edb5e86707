package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type VideoTriggerMapRepo interface {
	ListByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uint) ([]*types.VideoTriggerMap, error)
	ReplaceForVideo(ctx context.Context, tx *gorm.DB, videoID uint, rows []types.VideoTriggerMap) error
	DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error
	DeleteByTrigger(ctx context.Context, tx *gorm.DB, triggerID uint) error
}

type videoTriggerMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoTriggerMapRepo(db *gorm.DB, baseLog *logger.Logger) VideoTriggerMapRepo {
	return &videoTriggerMapRepo{db: db, log: baseLog.With("repo", "VideoTriggerMapRepo")}
}

func (r *videoTriggerMapRepo) ListByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uint) ([]*types.VideoTriggerMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VideoTriggerMap
	if len(videoIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("video_id IN ?", videoIDs).
		Order("sort_order, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *videoTriggerMapRepo) ReplaceForVideo(ctx context.Context, tx *gorm.DB, videoID uint, rows []types.VideoTriggerMap) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&types.VideoTriggerMap{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].VideoID = videoID
		rows[i].Trigger = nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *videoTriggerMapRepo) DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&types.VideoTriggerMap{}).Error
}

func (r *videoTriggerMapRepo) DeleteByTrigger(ctx context.Context, tx *gorm.DB, triggerID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("trigger_id = ?", triggerID).
		Delete(&types.VideoTriggerMap{}).Error
}
