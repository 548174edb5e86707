package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.TherapyArea{},
		&types.TriggerCluster{},
		&types.Trigger{},
		&types.Video{},
		&types.VideoLanguage{},
		&types.VideoTriggerMap{},
		&types.VideoCluster{},
		&types.VideoClusterLanguage{},
		&types.VideoClusterVideo{},
		&types.Clinic{},
		&types.Doctor{},
		&types.ShareEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
