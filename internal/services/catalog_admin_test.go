package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) Invalidate(ctx context.Context) { s.calls++ }

type adminFixture struct {
	db    *gorm.DB
	admin CatalogAdminService
	spy   *spyInvalidator

	videoRepo  repos.VideoRepo
	bundleRepo repos.VideoClusterRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	spy := &spyInvalidator{}

	therapyRepo := repos.NewTherapyAreaRepo(db, log)
	topicRepo := repos.NewTriggerClusterRepo(db, log)
	triggerRepo := repos.NewTriggerRepo(db, log)
	videoRepo := repos.NewVideoRepo(db, log)
	bundleRepo := repos.NewVideoClusterRepo(db, log)
	mapRepo := repos.NewVideoTriggerMapRepo(db, log)

	return &adminFixture{
		db:         db,
		spy:        spy,
		videoRepo:  videoRepo,
		bundleRepo: bundleRepo,
		admin: NewCatalogAdminService(db, log,
			therapyRepo, topicRepo, triggerRepo, videoRepo, bundleRepo, mapRepo, spy),
	}
}

func (f *adminFixture) seedTrigger(t *testing.T) *types.Trigger {
	t.Helper()
	ctx := context.Background()
	if _, err := f.admin.UpsertTherapyArea(ctx, TherapyAreaInput{Code: "resp", DisplayName: "Respiratory", IsActive: true}); err != nil {
		t.Fatalf("seed therapy area: %v", err)
	}
	if _, err := f.admin.UpsertTriggerCluster(ctx, TriggerClusterInput{Code: "cough-topics", DisplayName: "Cough", IsActive: true}); err != nil {
		t.Fatalf("seed trigger cluster: %v", err)
	}
	trigger, err := f.admin.UpsertTrigger(ctx, TriggerInput{
		Code:          "dry-cough",
		TherapyCode:   "resp",
		ClusterCode:   "cough-topics",
		SubtopicTitle: "Dry Cough",
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("seed trigger: %v", err)
	}
	return trigger
}

func TestEveryMutationInvalidatesCache(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.seedTrigger(t)
	if f.spy.calls != 3 {
		t.Fatalf("3 upserts should invalidate 3 times, got %d", f.spy.calls)
	}

	if _, err := f.admin.UpsertVideo(ctx, VideoInput{
		Code:               "vid-1",
		PrimaryTriggerCode: "dry-cough",
		IsPublished:        true,
		IsActive:           true,
		Languages:          []VideoLanguageInput{{LanguageCode: "en", Title: "T", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ"}},
	}); err != nil {
		t.Fatalf("upsert video: %v", err)
	}
	if _, err := f.admin.UpsertVideoCluster(ctx, VideoClusterInput{
		Code:        "cough-care",
		TriggerCode: "dry-cough",
		IsPublished: true,
		IsActive:    true,
		Names:       map[string]string{"en": "Cough Care"},
		VideoCodes:  []string{"vid-1"},
	}); err != nil {
		t.Fatalf("upsert bundle: %v", err)
	}
	if err := f.admin.DeleteVideoCluster(ctx, "cough-care"); err != nil {
		t.Fatalf("delete bundle: %v", err)
	}
	if err := f.admin.DeleteVideo(ctx, "vid-1"); err != nil {
		t.Fatalf("delete video: %v", err)
	}

	if f.spy.calls != 7 {
		t.Fatalf("every mutation must invalidate, got %d calls", f.spy.calls)
	}
}

func TestUpsertTherapyAreaDerivesCodeFromName(t *testing.T) {
	f := newAdminFixture(t)

	area, err := f.admin.UpsertTherapyArea(context.Background(), TherapyAreaInput{
		DisplayName: "Pediatric Cardiology",
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if area.Code != "PEDIATRIC_CARDIOLOGY" {
		t.Fatalf("derived code = %q", area.Code)
	}
}

func TestUpsertTriggerInactiveOnCreate(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	f.seedTrigger(t)

	// The inactive flag must survive the insert of a brand-new row, not
	// just updates of existing ones.
	if _, err := f.admin.UpsertTrigger(ctx, TriggerInput{
		Code:          "retired-on-arrival",
		TherapyCode:   "resp",
		ClusterCode:   "cough-topics",
		SubtopicTitle: "Retired",
		IsActive:      false,
	}); err != nil {
		t.Fatalf("upsert trigger: %v", err)
	}

	var stored types.Trigger
	if err := f.db.Where("code = ?", "retired-on-arrival").First(&stored).Error; err != nil {
		t.Fatalf("load trigger: %v", err)
	}
	if stored.IsActive {
		t.Fatal("trigger created inactive was stored as active")
	}

	if _, err := f.admin.UpsertVideo(ctx, VideoInput{
		Code:        "vid-dormant",
		IsPublished: false,
		IsActive:    false,
	}); err != nil {
		t.Fatalf("upsert video: %v", err)
	}
	var video types.Video
	if err := f.db.Where("code = ?", "vid-dormant").First(&video).Error; err != nil {
		t.Fatalf("load video: %v", err)
	}
	if video.IsActive || video.IsPublished {
		t.Fatalf("video flags not persisted: active=%v published=%v", video.IsActive, video.IsPublished)
	}
}

func TestFailedMutationDoesNotInvalidate(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.admin.UpsertTrigger(context.Background(), TriggerInput{
		Code:          "dangling",
		TherapyCode:   "missing",
		ClusterCode:   "missing",
		SubtopicTitle: "X",
	})
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("want ErrUnknownCode, got %v", err)
	}
	if f.spy.calls != 0 {
		t.Fatalf("failed mutation invalidated the cache %d times", f.spy.calls)
	}
}

func TestDeleteTriggerProtectedByBundles(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	f.seedTrigger(t)

	if _, err := f.admin.UpsertVideoCluster(ctx, VideoClusterInput{
		Code:        "cough-care",
		TriggerCode: "dry-cough",
		IsPublished: true,
		IsActive:    true,
	}); err != nil {
		t.Fatalf("upsert bundle: %v", err)
	}

	err := f.admin.DeleteTrigger(ctx, "dry-cough")
	if !errors.Is(err, ErrTriggerInUse) {
		t.Fatalf("want ErrTriggerInUse, got %v", err)
	}

	if err := f.admin.DeleteVideoCluster(ctx, "cough-care"); err != nil {
		t.Fatalf("delete bundle: %v", err)
	}
	if err := f.admin.DeleteTrigger(ctx, "dry-cough"); err != nil {
		t.Fatalf("delete trigger after bundle removed: %v", err)
	}
}

func TestDeleteTherapyAreaProtectedByTriggers(t *testing.T) {
	f := newAdminFixture(t)
	f.seedTrigger(t)

	err := f.admin.DeleteTherapyArea(context.Background(), "resp")
	if !errors.Is(err, ErrTherapyAreaInUse) {
		t.Fatalf("want ErrTherapyAreaInUse, got %v", err)
	}
}

func TestUpsertVideoReplacesLanguages(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	f.seedTrigger(t)

	base := VideoInput{
		Code:               "vid-1",
		PrimaryTriggerCode: "dry-cough",
		IsPublished:        true,
		IsActive:           true,
		Languages: []VideoLanguageInput{
			{LanguageCode: "en", Title: "First", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ"},
			{LanguageCode: "hi", Title: "पहला", YoutubeURL: "https://youtu.be/aaaaaaaaaaa"},
		},
	}
	if _, err := f.admin.UpsertVideo(ctx, base); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	base.Languages = []VideoLanguageInput{
		{LanguageCode: "en", Title: "Second", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ"},
	}
	if _, err := f.admin.UpsertVideo(ctx, base); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	video, err := f.videoRepo.GetByCode(ctx, nil, "vid-1")
	if err != nil || video == nil {
		t.Fatalf("load video: %v", err)
	}
	var langs []types.VideoLanguage
	if err := f.db.Where("video_id = ?", video.ID).Find(&langs).Error; err != nil {
		t.Fatalf("load languages: %v", err)
	}
	if len(langs) != 1 || langs[0].Title != "Second" {
		t.Fatalf("languages not replaced: %+v", langs)
	}
}

func TestUpsertVideoRejectsUnknownLanguage(t *testing.T) {
	f := newAdminFixture(t)
	f.seedTrigger(t)

	_, err := f.admin.UpsertVideo(context.Background(), VideoInput{
		Code:      "vid-1",
		IsActive:  true,
		Languages: []VideoLanguageInput{{LanguageCode: "fr", Title: "Non"}},
	})
	if !errors.Is(err, ErrBadLanguageCode) {
		t.Fatalf("want ErrBadLanguageCode, got %v", err)
	}
}

func TestDeleteVideoRemovesBundleMembership(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	f.seedTrigger(t)

	if _, err := f.admin.UpsertVideo(ctx, VideoInput{
		Code:               "vid-1",
		PrimaryTriggerCode: "dry-cough",
		IsPublished:        true,
		IsActive:           true,
	}); err != nil {
		t.Fatalf("upsert video: %v", err)
	}
	if _, err := f.admin.UpsertVideoCluster(ctx, VideoClusterInput{
		Code:        "cough-care",
		TriggerCode: "dry-cough",
		IsPublished: true,
		IsActive:    true,
		VideoCodes:  []string{"vid-1"},
	}); err != nil {
		t.Fatalf("upsert bundle: %v", err)
	}

	if err := f.admin.DeleteVideo(ctx, "vid-1"); err != nil {
		t.Fatalf("delete video: %v", err)
	}

	var members []types.VideoClusterVideo
	if err := f.db.Find(&members).Error; err != nil {
		t.Fatalf("load members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("bundle membership survived video deletion: %+v", members)
	}
}
