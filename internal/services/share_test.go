package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

func newShareFixture(t *testing.T) (ShareService, uint) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	doctor := &types.Doctor{
		FirstName:      "Asha",
		LastName:       "Rao",
		Email:          "asha@example.com",
		WhatsappNumber: "+919876543210",
		IsActive:       true,
	}
	mustCreate(t, db, doctor)
	video := &types.Video{
		Code:        "vid-1",
		IsPublished: true,
		IsActive:    true,
		Languages: []types.VideoLanguage{
			{LanguageCode: "en", Title: "One", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ"},
			{LanguageCode: "hi", Title: "एक", YoutubeURL: "https://youtu.be/aaaaaaaaaaa"},
		},
	}
	mustCreate(t, db, video)

	svc := NewShareService(log,
		repos.NewShareEventRepo(db, log),
		repos.NewDoctorRepo(db, log),
		repos.NewVideoRepo(db, log))
	return svc, doctor.ID
}

func TestRecordShare(t *testing.T) {
	svc, doctorID := newShareFixture(t)

	result, err := svc.RecordShare(context.Background(), RecordShareInput{
		DoctorID:     doctorID,
		Channel:      types.ShareChannelWhatsapp,
		LanguageCode: "hi",
		VideoCodes:   []string{"vid-1"},
	})
	if err != nil {
		t.Fatalf("record share: %v", err)
	}
	if !strings.Contains(result.Message, "Asha Rao") {
		t.Fatalf("doctor name missing from message: %q", result.Message)
	}
	if !strings.Contains(result.Message, "https://www.youtube.com/embed/aaaaaaaaaaa") {
		t.Fatalf("localized video url missing: %q", result.Message)
	}
	if !strings.HasPrefix(result.ShareURL, "https://wa.me/?text=") {
		t.Fatalf("share url = %q", result.ShareURL)
	}

	var payload sharePayload
	if err := json.Unmarshal(result.Event.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.VideoCodes) != 1 || payload.VideoCodes[0] != "vid-1" {
		t.Fatalf("payload codes: %v", payload.VideoCodes)
	}
	if payload.Message != result.Message {
		t.Fatal("audit payload message differs from sent message")
	}

	events, err := svc.RecentShares(context.Background(), doctorID, 10)
	if err != nil {
		t.Fatalf("recent shares: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}

func TestRecordShareFallsBackToEnglishURL(t *testing.T) {
	svc, doctorID := newShareFixture(t)

	// Tamil has no dedicated row for this video, so the English URL is used.
	result, err := svc.RecordShare(context.Background(), RecordShareInput{
		DoctorID:     doctorID,
		Channel:      types.ShareChannelWhatsapp,
		LanguageCode: "ta",
		VideoCodes:   []string{"vid-1"},
	})
	if err != nil {
		t.Fatalf("record share: %v", err)
	}
	if !strings.Contains(result.Message, "https://www.youtube.com/embed/dQw4w9WgXcQ") {
		t.Fatalf("english fallback url missing: %q", result.Message)
	}
}

func TestRecordShareValidation(t *testing.T) {
	svc, doctorID := newShareFixture(t)
	ctx := context.Background()

	_, err := svc.RecordShare(ctx, RecordShareInput{DoctorID: doctorID, Channel: "sms", LanguageCode: "en", VideoCodes: []string{"vid-1"}})
	if !errors.Is(err, ErrBadShareChannel) {
		t.Fatalf("want ErrBadShareChannel, got %v", err)
	}
	_, err = svc.RecordShare(ctx, RecordShareInput{DoctorID: doctorID, Channel: types.ShareChannelWhatsapp, LanguageCode: "fr", VideoCodes: []string{"vid-1"}})
	if !errors.Is(err, ErrBadLanguageCode) {
		t.Fatalf("want ErrBadLanguageCode, got %v", err)
	}
	_, err = svc.RecordShare(ctx, RecordShareInput{DoctorID: doctorID, Channel: types.ShareChannelWhatsapp, LanguageCode: "en"})
	if !errors.Is(err, ErrNothingToShare) {
		t.Fatalf("want ErrNothingToShare, got %v", err)
	}
	_, err = svc.RecordShare(ctx, RecordShareInput{DoctorID: 9999, Channel: types.ShareChannelWhatsapp, LanguageCode: "en", VideoCodes: []string{"vid-1"}})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("want ErrDoctorNotFound, got %v", err)
	}
}
