package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

var (
	ErrBadShareChannel = errors.New("unsupported share channel")
	ErrNothingToShare  = errors.New("no video codes given")
)

type RecordShareInput struct {
	DoctorID     uint
	Channel      string
	LanguageCode string
	VideoCodes   []string
}

// ShareResult is the rendered share: the message the doctor sends and the
// persisted audit event.
type ShareResult struct {
	Event    *types.ShareEvent
	Message  string
	ShareURL string
}

type sharePayload struct {
	VideoCodes []string `json:"video_codes"`
	VideoURLs  []string `json:"video_urls"`
	Message    string   `json:"message"`
}

type ShareService interface {
	RecordShare(ctx context.Context, in RecordShareInput) (*ShareResult, error)
	RecentShares(ctx context.Context, doctorID uint, limit int) ([]*types.ShareEvent, error)
}

type shareService struct {
	log        *logger.Logger
	shareRepo  repos.ShareEventRepo
	doctorRepo repos.DoctorRepo
	videoRepo  repos.VideoRepo
}

func NewShareService(baseLog *logger.Logger, shareRepo repos.ShareEventRepo, doctorRepo repos.DoctorRepo, videoRepo repos.VideoRepo) ShareService {
	return &shareService{
		log:        baseLog.With("service", "ShareService"),
		shareRepo:  shareRepo,
		doctorRepo: doctorRepo,
		videoRepo:  videoRepo,
	}
}

// RecordShare renders the localized message for the given videos and writes
// the audit event. The rendered message is stored alongside the codes so the
// audit trail reflects exactly what the patient received.
func (s *shareService) RecordShare(ctx context.Context, in RecordShareInput) (*ShareResult, error) {
	if in.Channel != types.ShareChannelWhatsapp && in.Channel != types.ShareChannelEmail {
		return nil, ErrBadShareChannel
	}
	if !types.IsSupportedLanguage(in.LanguageCode) {
		return nil, ErrBadLanguageCode
	}
	if len(in.VideoCodes) == 0 {
		return nil, ErrNothingToShare
	}

	doctor, err := s.doctorRepo.GetByID(ctx, nil, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	videos, err := s.videoRepo.GetByCodes(ctx, nil, in.VideoCodes)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}
	if len(videos) == 0 {
		return nil, ErrNothingToShare
	}

	codes := make([]string, 0, len(videos))
	urls := make([]string, 0, len(videos))
	for _, v := range videos {
		codes = append(codes, v.Code)
		if u := videoURLForLanguage(v, in.LanguageCode); u != "" {
			urls = append(urls, u)
		}
	}

	prefix := BuildWhatsAppMessagePrefixes(doctor.DisplayName())[in.LanguageCode]
	message := strings.TrimSpace(prefix + " " + strings.Join(urls, " "))

	raw, err := json.Marshal(sharePayload{
		VideoCodes: codes,
		VideoURLs:  urls,
		Message:    message,
	})
	if err != nil {
		return nil, fmt.Errorf("encode share payload: %w", err)
	}

	event := &types.ShareEvent{
		ID:           uuid.New(),
		DoctorID:     &doctor.ID,
		Channel:      in.Channel,
		LanguageCode: in.LanguageCode,
		Payload:      datatypes.JSON(raw),
	}
	if err := s.shareRepo.Create(ctx, nil, event); err != nil {
		return nil, fmt.Errorf("record share: %w", err)
	}

	result := &ShareResult{Event: event, Message: message}
	if in.Channel == types.ShareChannelWhatsapp {
		result.ShareURL = WhatsAppShareLink(message)
	}
	s.log.Info("share recorded",
		"doctor_id", doctor.ID,
		"channel", in.Channel,
		"language", in.LanguageCode,
		"videos", len(codes))
	return result, nil
}

func (s *shareService) RecentShares(ctx context.Context, doctorID uint, limit int) ([]*types.ShareEvent, error) {
	return s.shareRepo.ListRecentByDoctor(ctx, nil, doctorID, limit)
}

// videoURLForLanguage picks the requested language's embed URL, falling back
// to English and then to any language the video has.
func videoURLForLanguage(v *types.Video, languageCode string) string {
	var fallback string
	for _, l := range v.Languages {
		if l.YoutubeURL == "" {
			continue
		}
		if l.LanguageCode == languageCode {
			return EmbedURL(l.YoutubeURL)
		}
		if l.LanguageCode == "en" || fallback == "" {
			fallback = l.YoutubeURL
		}
	}
	if fallback == "" {
		return ""
	}
	return EmbedURL(fallback)
}
