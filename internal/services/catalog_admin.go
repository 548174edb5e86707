package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

var (
	ErrCodeRequired        = errors.New("code is required")
	ErrUnknownCode         = errors.New("unknown code")
	ErrTherapyAreaInUse    = errors.New("therapy area is referenced by triggers")
	ErrTriggerClusterInUse = errors.New("trigger cluster is referenced by triggers")
	ErrTriggerInUse        = errors.New("trigger is referenced by video clusters")
	ErrBadLanguageCode     = errors.New("unsupported language code")
)

type TherapyAreaInput struct {
	Code        string
	DisplayName string
	Description string
	SortOrder   int
	IsActive    bool
}

type TriggerClusterInput struct {
	Code         string
	DisplayName  string
	Description  string
	LanguageCode string
	SortOrder    int
	IsActive     bool
}

type TriggerInput struct {
	Code               string
	TherapyCode        string
	ClusterCode        string
	SubtopicTitle      string
	DoctorTriggerLabel string
	NavigationPathways string
	SearchKeywords     string
	IsActive           bool
}

type VideoLanguageInput struct {
	LanguageCode string
	Title        string
	YoutubeURL   string
}

type VideoInput struct {
	Code               string
	Description        string
	PrimaryTriggerCode string
	PrimaryTherapyCode string
	ThumbnailURL       string
	DurationSeconds    *int
	SortOrder          int
	IsPublished        bool
	IsActive           bool
	SearchKeywords     string
	Languages          []VideoLanguageInput
	ExtraTriggerCodes  []string
}

type VideoClusterInput struct {
	Code           string
	TriggerCode    string
	Description    string
	SortOrder      int
	IsPublished    bool
	IsActive       bool
	SearchKeywords string
	Names          map[string]string
	VideoCodes     []string
}

// CatalogAdminService is the only write path into the catalog. Every
// mutating operation ends with an Invalidate call on the catalog cache, so
// no future mutation path can skip invalidation by construction.
type CatalogAdminService interface {
	UpsertTherapyArea(ctx context.Context, in TherapyAreaInput) (*types.TherapyArea, error)
	DeleteTherapyArea(ctx context.Context, code string) error
	UpsertTriggerCluster(ctx context.Context, in TriggerClusterInput) (*types.TriggerCluster, error)
	DeleteTriggerCluster(ctx context.Context, code string) error
	UpsertTrigger(ctx context.Context, in TriggerInput) (*types.Trigger, error)
	DeleteTrigger(ctx context.Context, code string) error
	UpsertVideo(ctx context.Context, in VideoInput) (*types.Video, error)
	DeleteVideo(ctx context.Context, code string) error
	UpsertVideoCluster(ctx context.Context, in VideoClusterInput) (*types.VideoCluster, error)
	DeleteVideoCluster(ctx context.Context, code string) error
}

type catalogAdminService struct {
	db          *gorm.DB
	log         *logger.Logger
	therapyRepo repos.TherapyAreaRepo
	topicRepo   repos.TriggerClusterRepo
	triggerRepo repos.TriggerRepo
	videoRepo   repos.VideoRepo
	bundleRepo  repos.VideoClusterRepo
	mapRepo     repos.VideoTriggerMapRepo
	invalidator CatalogInvalidator
}

func NewCatalogAdminService(
	db *gorm.DB,
	baseLog *logger.Logger,
	therapyRepo repos.TherapyAreaRepo,
	topicRepo repos.TriggerClusterRepo,
	triggerRepo repos.TriggerRepo,
	videoRepo repos.VideoRepo,
	bundleRepo repos.VideoClusterRepo,
	mapRepo repos.VideoTriggerMapRepo,
	invalidator CatalogInvalidator,
) CatalogAdminService {
	return &catalogAdminService{
		db:          db,
		log:         baseLog.With("service", "CatalogAdminService"),
		therapyRepo: therapyRepo,
		topicRepo:   topicRepo,
		triggerRepo: triggerRepo,
		videoRepo:   videoRepo,
		bundleRepo:  bundleRepo,
		mapRepo:     mapRepo,
		invalidator: invalidator,
	}
}

func (s *catalogAdminService) UpsertTherapyArea(ctx context.Context, in TherapyAreaInput) (*types.TherapyArea, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = types.TherapyAreaCodeFromName(in.DisplayName)
	}
	if code == "" {
		return nil, ErrCodeRequired
	}

	area, err := s.therapyRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("load therapy area: %w", err)
	}
	if area == nil {
		area = &types.TherapyArea{Code: code}
	}
	area.DisplayName = strings.TrimSpace(in.DisplayName)
	area.Description = in.Description
	area.SortOrder = in.SortOrder
	area.IsActive = in.IsActive

	if err := s.therapyRepo.Save(ctx, nil, area); err != nil {
		return nil, fmt.Errorf("save therapy area: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return area, nil
}

func (s *catalogAdminService) DeleteTherapyArea(ctx context.Context, code string) error {
	area, err := s.therapyRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return fmt.Errorf("load therapy area: %w", err)
	}
	if area == nil {
		return ErrUnknownCode
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Triggers require a therapy area, so deletion is blocked while any
		// reference it; video references are nulled out instead.
		count, err := s.triggerRepo.CountByTherapy(ctx, tx, area.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrTherapyAreaInUse
		}
		if err := s.videoRepo.ClearTherapyRefs(ctx, tx, area.ID); err != nil {
			return err
		}
		return s.therapyRepo.Delete(ctx, tx, area.ID)
	})
	if err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

func (s *catalogAdminService) UpsertTriggerCluster(ctx context.Context, in TriggerClusterInput) (*types.TriggerCluster, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if in.LanguageCode != "" && !types.IsSupportedLanguage(in.LanguageCode) {
		return nil, ErrBadLanguageCode
	}

	cluster, err := s.topicRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("load trigger cluster: %w", err)
	}
	if cluster == nil {
		cluster = &types.TriggerCluster{Code: code}
	}
	cluster.DisplayName = strings.TrimSpace(in.DisplayName)
	cluster.Description = in.Description
	cluster.LanguageCode = in.LanguageCode
	cluster.SortOrder = in.SortOrder
	cluster.IsActive = in.IsActive

	if err := s.topicRepo.Save(ctx, nil, cluster); err != nil {
		return nil, fmt.Errorf("save trigger cluster: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return cluster, nil
}

func (s *catalogAdminService) DeleteTriggerCluster(ctx context.Context, code string) error {
	cluster, err := s.topicRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return fmt.Errorf("load trigger cluster: %w", err)
	}
	if cluster == nil {
		return ErrUnknownCode
	}

	count, err := s.triggerRepo.CountByCluster(ctx, nil, cluster.ID)
	if err != nil {
		return fmt.Errorf("count cluster triggers: %w", err)
	}
	if count > 0 {
		return ErrTriggerClusterInUse
	}
	if err := s.topicRepo.Delete(ctx, nil, cluster.ID); err != nil {
		return fmt.Errorf("delete trigger cluster: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

func (s *catalogAdminService) UpsertTrigger(ctx context.Context, in TriggerInput) (*types.Trigger, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	area, err := s.therapyRepo.GetByCode(ctx, nil, in.TherapyCode)
	if err != nil {
		return nil, fmt.Errorf("load therapy area: %w", err)
	}
	if area == nil {
		return nil, fmt.Errorf("therapy area %q: %w", in.TherapyCode, ErrUnknownCode)
	}
	cluster, err := s.topicRepo.GetByCode(ctx, nil, in.ClusterCode)
	if err != nil {
		return nil, fmt.Errorf("load trigger cluster: %w", err)
	}
	if cluster == nil {
		return nil, fmt.Errorf("trigger cluster %q: %w", in.ClusterCode, ErrUnknownCode)
	}

	trigger, err := s.triggerRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("load trigger: %w", err)
	}
	if trigger == nil {
		trigger = &types.Trigger{Code: code}
	}
	trigger.PrimaryTherapyID = area.ID
	trigger.ClusterID = cluster.ID
	trigger.SubtopicTitle = strings.TrimSpace(in.SubtopicTitle)
	trigger.DoctorTriggerLabel = strings.TrimSpace(in.DoctorTriggerLabel)
	trigger.NavigationPathways = in.NavigationPathways
	trigger.SearchKeywords = in.SearchKeywords
	trigger.IsActive = in.IsActive

	if err := s.triggerRepo.Save(ctx, nil, trigger); err != nil {
		return nil, fmt.Errorf("save trigger: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return trigger, nil
}

func (s *catalogAdminService) DeleteTrigger(ctx context.Context, code string) error {
	trigger, err := s.triggerRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return fmt.Errorf("load trigger: %w", err)
	}
	if trigger == nil {
		return ErrUnknownCode
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.bundleRepo.CountByTrigger(ctx, tx, trigger.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrTriggerInUse
		}
		if err := s.videoRepo.ClearTriggerRefs(ctx, tx, trigger.ID); err != nil {
			return err
		}
		if err := s.mapRepo.DeleteByTrigger(ctx, tx, trigger.ID); err != nil {
			return err
		}
		return s.triggerRepo.Delete(ctx, tx, trigger.ID)
	})
	if err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

func (s *catalogAdminService) UpsertVideo(ctx context.Context, in VideoInput) (*types.Video, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	seenLangs := make(map[string]bool, len(in.Languages))
	langs := make([]types.VideoLanguage, 0, len(in.Languages))
	for _, l := range in.Languages {
		if !types.IsSupportedLanguage(l.LanguageCode) {
			return nil, fmt.Errorf("language %q: %w", l.LanguageCode, ErrBadLanguageCode)
		}
		if seenLangs[l.LanguageCode] {
			return nil, fmt.Errorf("language %q given twice", l.LanguageCode)
		}
		seenLangs[l.LanguageCode] = true
		langs = append(langs, types.VideoLanguage{
			LanguageCode: l.LanguageCode,
			Title:        strings.TrimSpace(l.Title),
			YoutubeURL:   strings.TrimSpace(l.YoutubeURL),
		})
	}

	video, err := s.videoRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}
	if video == nil {
		video = &types.Video{Code: code}
	}
	video.Description = in.Description
	video.ThumbnailURL = in.ThumbnailURL
	video.DurationSeconds = in.DurationSeconds
	video.SortOrder = in.SortOrder
	video.IsPublished = in.IsPublished
	video.IsActive = in.IsActive
	video.SearchKeywords = in.SearchKeywords
	video.Languages = nil

	video.PrimaryTriggerID = nil
	if in.PrimaryTriggerCode != "" {
		trigger, err := s.triggerRepo.GetByCode(ctx, nil, in.PrimaryTriggerCode)
		if err != nil {
			return nil, fmt.Errorf("load trigger: %w", err)
		}
		if trigger == nil {
			return nil, fmt.Errorf("trigger %q: %w", in.PrimaryTriggerCode, ErrUnknownCode)
		}
		video.PrimaryTriggerID = &trigger.ID
	}
	video.PrimaryTherapyID = nil
	if in.PrimaryTherapyCode != "" {
		area, err := s.therapyRepo.GetByCode(ctx, nil, in.PrimaryTherapyCode)
		if err != nil {
			return nil, fmt.Errorf("load therapy area: %w", err)
		}
		if area == nil {
			return nil, fmt.Errorf("therapy area %q: %w", in.PrimaryTherapyCode, ErrUnknownCode)
		}
		video.PrimaryTherapyID = &area.ID
	}

	extraRows := make([]types.VideoTriggerMap, 0, len(in.ExtraTriggerCodes))
	for i, tc := range in.ExtraTriggerCodes {
		trigger, err := s.triggerRepo.GetByCode(ctx, nil, tc)
		if err != nil {
			return nil, fmt.Errorf("load trigger: %w", err)
		}
		if trigger == nil {
			return nil, fmt.Errorf("trigger %q: %w", tc, ErrUnknownCode)
		}
		if video.PrimaryTriggerID != nil && trigger.ID == *video.PrimaryTriggerID {
			continue
		}
		extraRows = append(extraRows, types.VideoTriggerMap{
			TriggerID: trigger.ID,
			SortOrder: i,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.videoRepo.Save(ctx, tx, video); err != nil {
			return err
		}
		if err := s.videoRepo.ReplaceLanguages(ctx, tx, video.ID, langs); err != nil {
			return err
		}
		return s.mapRepo.ReplaceForVideo(ctx, tx, video.ID, extraRows)
	})
	if err != nil {
		return nil, fmt.Errorf("save video: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return video, nil
}

func (s *catalogAdminService) DeleteVideo(ctx context.Context, code string) error {
	video, err := s.videoRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return fmt.Errorf("load video: %w", err)
	}
	if video == nil {
		return ErrUnknownCode
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bundleRepo.DeleteMembersByVideo(ctx, tx, video.ID); err != nil {
			return err
		}
		if err := s.mapRepo.DeleteByVideo(ctx, tx, video.ID); err != nil {
			return err
		}
		return s.videoRepo.Delete(ctx, tx, video.ID)
	})
	if err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

func (s *catalogAdminService) UpsertVideoCluster(ctx context.Context, in VideoClusterInput) (*types.VideoCluster, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	trigger, err := s.triggerRepo.GetByCode(ctx, nil, in.TriggerCode)
	if err != nil {
		return nil, fmt.Errorf("load trigger: %w", err)
	}
	if trigger == nil {
		return nil, fmt.Errorf("trigger %q: %w", in.TriggerCode, ErrUnknownCode)
	}

	langs := make([]types.VideoClusterLanguage, 0, len(in.Names))
	for _, lc := range listLanguageKeys(in.Names) {
		if !types.IsSupportedLanguage(lc) {
			return nil, fmt.Errorf("language %q: %w", lc, ErrBadLanguageCode)
		}
		langs = append(langs, types.VideoClusterLanguage{
			LanguageCode: lc,
			Name:         strings.TrimSpace(in.Names[lc]),
		})
	}

	members := make([]types.VideoClusterVideo, 0, len(in.VideoCodes))
	for i, vc := range in.VideoCodes {
		video, err := s.videoRepo.GetByCode(ctx, nil, vc)
		if err != nil {
			return nil, fmt.Errorf("load video: %w", err)
		}
		if video == nil {
			return nil, fmt.Errorf("video %q: %w", vc, ErrUnknownCode)
		}
		members = append(members, types.VideoClusterVideo{
			VideoID:   video.ID,
			SortOrder: i,
		})
	}

	cluster, err := s.bundleRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("load video cluster: %w", err)
	}
	if cluster == nil {
		cluster = &types.VideoCluster{Code: code}
	}
	cluster.TriggerID = trigger.ID
	cluster.Description = in.Description
	cluster.SortOrder = in.SortOrder
	cluster.IsPublished = in.IsPublished
	cluster.IsActive = in.IsActive
	cluster.SearchKeywords = in.SearchKeywords
	cluster.Languages = nil
	cluster.Members = nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bundleRepo.Save(ctx, tx, cluster); err != nil {
			return err
		}
		if err := s.bundleRepo.ReplaceLanguages(ctx, tx, cluster.ID, langs); err != nil {
			return err
		}
		return s.bundleRepo.ReplaceMembers(ctx, tx, cluster.ID, members)
	})
	if err != nil {
		return nil, fmt.Errorf("save video cluster: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return cluster, nil
}

func (s *catalogAdminService) DeleteVideoCluster(ctx context.Context, code string) error {
	cluster, err := s.bundleRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return fmt.Errorf("load video cluster: %w", err)
	}
	if cluster == nil {
		return ErrUnknownCode
	}
	if err := s.bundleRepo.Delete(ctx, nil, cluster.ID); err != nil {
		return fmt.Errorf("delete video cluster: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

// listLanguageKeys returns the map's keys in the fixed language order so
// inserts happen deterministically.
func listLanguageKeys(names map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, code := range types.LanguageCodes {
		if _, ok := names[code]; ok {
			out = append(out, code)
		}
	}
	for k := range names {
		if !types.IsSupportedLanguage(k) {
			out = append(out, k)
		}
	}
	return out
}
