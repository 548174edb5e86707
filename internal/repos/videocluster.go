package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type VideoClusterRepo interface {
	// ListPublished returns active+published bundles with localized names and
	// ordered memberships preloaded.
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.VideoCluster, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.VideoCluster, error)
	Save(ctx context.Context, tx *gorm.DB, cluster *types.VideoCluster) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ReplaceLanguages(ctx context.Context, tx *gorm.DB, clusterID uint, langs []types.VideoClusterLanguage) error
	ReplaceMembers(ctx context.Context, tx *gorm.DB, clusterID uint, members []types.VideoClusterVideo) error
	DeleteMembersByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error
	CountByTrigger(ctx context.Context, tx *gorm.DB, triggerID uint) (int64, error)
}

type videoClusterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoClusterRepo(db *gorm.DB, baseLog *logger.Logger) VideoClusterRepo {
	return &videoClusterRepo{db: db, log: baseLog.With("repo", "VideoClusterRepo")}
}

func (r *videoClusterRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.VideoCluster, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VideoCluster
	if err := transaction.WithContext(ctx).
		Where("is_active = ? AND is_published = ?", true, true).
		Preload("Languages", func(db *gorm.DB) *gorm.DB {
			return db.Order("language_code")
		}).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Preload("Members.Video").
		Order("sort_order, code, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *videoClusterRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.VideoCluster, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VideoCluster
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		Preload("Languages").
		Preload("Members").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *videoClusterRepo) Save(ctx context.Context, tx *gorm.DB, cluster *types.VideoCluster) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Languages", "Members").Save(cluster).Error
}

func (r *videoClusterRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("video_cluster_id = ?", id).
		Delete(&types.VideoClusterLanguage{}).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("video_cluster_id = ?", id).
		Delete(&types.VideoClusterVideo{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).Delete(&types.VideoCluster{}, id).Error
}

func (r *videoClusterRepo) ReplaceLanguages(ctx context.Context, tx *gorm.DB, clusterID uint, langs []types.VideoClusterLanguage) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("video_cluster_id = ?", clusterID).
		Delete(&types.VideoClusterLanguage{}).Error; err != nil {
		return err
	}
	if len(langs) == 0 {
		return nil
	}
	for i := range langs {
		langs[i].ID = 0
		langs[i].VideoClusterID = clusterID
	}
	return transaction.WithContext(ctx).Create(&langs).Error
}

func (r *videoClusterRepo) ReplaceMembers(ctx context.Context, tx *gorm.DB, clusterID uint, members []types.VideoClusterVideo) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("video_cluster_id = ?", clusterID).
		Delete(&types.VideoClusterVideo{}).Error; err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}
	for i := range members {
		members[i].ID = 0
		members[i].VideoClusterID = clusterID
		members[i].Video = nil
	}
	return transaction.WithContext(ctx).Create(&members).Error
}

func (r *videoClusterRepo) DeleteMembersByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&types.VideoClusterVideo{}).Error
}

func (r *videoClusterRepo) CountByTrigger(ctx context.Context, tx *gorm.DB, triggerID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.VideoCluster{}).
		Where("trigger_id = ?", triggerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
