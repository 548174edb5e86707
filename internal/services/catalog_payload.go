package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

// CatalogPayload is the denormalized catalog served to the share page. It is
// fully self-contained and JSON-serializable: the client does faceted search
// over it with no further round-trips.
type CatalogPayload struct {
	TherapyAreas    []TherapyAreaEntry `json:"therapy_areas"`
	Triggers        []TriggerEntry     `json:"triggers"`
	Topics          []TopicEntry       `json:"topics"`
	Bundles         []BundleEntry      `json:"bundles"`
	Videos          []VideoEntry       `json:"videos"`
	MessagePrefixes map[string]string  `json:"message_prefixes"`
}

type TherapyAreaEntry struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type TriggerEntry struct {
	Code               string `json:"code"`
	DisplayName        string `json:"display_name"`
	TherapyCode        string `json:"therapy_code"`
	ClusterCode        string `json:"cluster_code"`
	DoctorTriggerLabel string `json:"doctor_trigger_label"`
}

type TopicEntry struct {
	Code         string `json:"code"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	LanguageCode string `json:"language_code"`
}

type BundleEntry struct {
	Code        string            `json:"code"`
	DisplayName string            `json:"display_name"`
	Names       map[string]string `json:"names"`
	TriggerCode string            `json:"trigger_code"`
	TherapyCode string            `json:"therapy_code"`
	VideoCodes  []string          `json:"video_codes"`
	SearchText  string            `json:"search_text"`
}

type VideoEntry struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	Titles       map[string]string `json:"titles"`
	URLs         map[string]string `json:"urls"`
	TriggerCodes []string          `json:"trigger_codes"`
	TherapyCodes []string          `json:"therapy_codes"`
	BundleCodes  []string          `json:"bundle_codes"`
	SearchText   string            `json:"search_text"`
}

// CatalogPayloadBuilder assembles the payload from current database state.
// Build is a pure read: it never mutates catalog rows and two builds from
// unchanged data produce identical output.
type CatalogPayloadBuilder interface {
	Build(ctx context.Context) (*CatalogPayload, error)
}

type catalogPayloadBuilder struct {
	db          *gorm.DB
	log         *logger.Logger
	therapyRepo repos.TherapyAreaRepo
	topicRepo   repos.TriggerClusterRepo
	triggerRepo repos.TriggerRepo
	videoRepo   repos.VideoRepo
	bundleRepo  repos.VideoClusterRepo
	mapRepo     repos.VideoTriggerMapRepo
}

func NewCatalogPayloadBuilder(
	db *gorm.DB,
	baseLog *logger.Logger,
	therapyRepo repos.TherapyAreaRepo,
	topicRepo repos.TriggerClusterRepo,
	triggerRepo repos.TriggerRepo,
	videoRepo repos.VideoRepo,
	bundleRepo repos.VideoClusterRepo,
	mapRepo repos.VideoTriggerMapRepo,
) CatalogPayloadBuilder {
	return &catalogPayloadBuilder{
		db:          db,
		log:         baseLog.With("service", "CatalogPayloadBuilder"),
		therapyRepo: therapyRepo,
		topicRepo:   topicRepo,
		triggerRepo: triggerRepo,
		videoRepo:   videoRepo,
		bundleRepo:  bundleRepo,
		mapRepo:     mapRepo,
	}
}

func (b *catalogPayloadBuilder) Build(ctx context.Context) (*CatalogPayload, error) {
	areas, err := b.therapyRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load therapy areas: %w", err)
	}
	topics, err := b.topicRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load trigger clusters: %w", err)
	}
	triggers, err := b.triggerRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load triggers: %w", err)
	}
	bundles, err := b.bundleRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load video clusters: %w", err)
	}
	videos, err := b.videoRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	videoIDs := make([]uint, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
	}
	triggerMaps, err := b.mapRepo.ListByVideoIDs(ctx, nil, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("load video trigger maps: %w", err)
	}

	areaByID := make(map[uint]*types.TherapyArea, len(areas))
	for _, ta := range areas {
		areaByID[ta.ID] = ta
	}
	topicByID := make(map[uint]*types.TriggerCluster, len(topics))
	for _, tc := range topics {
		topicByID[tc.ID] = tc
	}
	triggerByID := make(map[uint]*types.Trigger, len(triggers))
	for _, tr := range triggers {
		triggerByID[tr.ID] = tr
	}
	videoByID := make(map[uint]*types.Video, len(videos))
	for _, v := range videos {
		videoByID[v.ID] = v
	}

	// Bundle membership, in bundle order then member sort order.
	bundleCodesByVideo := make(map[uint][]string)
	bundlesByVideo := make(map[uint][]*types.VideoCluster)
	for _, bl := range bundles {
		for _, m := range bl.Members {
			if _, ok := videoByID[m.VideoID]; !ok {
				continue
			}
			bundleCodesByVideo[m.VideoID] = append(bundleCodesByVideo[m.VideoID], bl.Code)
			bundlesByVideo[m.VideoID] = append(bundlesByVideo[m.VideoID], bl)
		}
	}

	// Extra trigger associations, primary first.
	mapTriggersByVideo := make(map[uint][]uint)
	for _, row := range triggerMaps {
		mapTriggersByVideo[row.VideoID] = append(mapTriggersByVideo[row.VideoID], row.TriggerID)
	}

	payload := &CatalogPayload{
		TherapyAreas:    make([]TherapyAreaEntry, 0, len(areas)),
		Triggers:        make([]TriggerEntry, 0, len(triggers)),
		Topics:          make([]TopicEntry, 0, len(topics)),
		Bundles:         make([]BundleEntry, 0, len(bundles)),
		Videos:          make([]VideoEntry, 0, len(videos)),
		MessagePrefixes: BuildWhatsAppMessagePrefixes(""),
	}

	for _, ta := range areas {
		payload.TherapyAreas = append(payload.TherapyAreas, TherapyAreaEntry{
			Code:        ta.Code,
			DisplayName: ta.DisplayName,
			Description: ta.Description,
		})
	}

	for _, tc := range topics {
		payload.Topics = append(payload.Topics, TopicEntry{
			Code:         tc.Code,
			DisplayName:  tc.DisplayName,
			Description:  tc.Description,
			LanguageCode: tc.LanguageCode,
		})
	}

	for _, tr := range triggers {
		entry := TriggerEntry{
			Code:               tr.Code,
			DisplayName:        tr.SubtopicTitle,
			DoctorTriggerLabel: tr.DoctorTriggerLabel,
		}
		if ta, ok := areaByID[tr.PrimaryTherapyID]; ok {
			entry.TherapyCode = ta.Code
		}
		if tc, ok := topicByID[tr.ClusterID]; ok {
			entry.ClusterCode = tc.Code
		}
		payload.Triggers = append(payload.Triggers, entry)
	}

	for _, bl := range bundles {
		payload.Bundles = append(payload.Bundles, b.buildBundleEntry(bl, triggerByID, areaByID, videoByID))
	}

	for _, v := range videos {
		payload.Videos = append(payload.Videos, b.buildVideoEntry(
			v,
			triggerByID,
			areaByID,
			mapTriggersByVideo[v.ID],
			bundleCodesByVideo[v.ID],
			bundlesByVideo[v.ID],
		))
	}

	return payload, nil
}

func (b *catalogPayloadBuilder) buildBundleEntry(
	bl *types.VideoCluster,
	triggerByID map[uint]*types.Trigger,
	areaByID map[uint]*types.TherapyArea,
	videoByID map[uint]*types.Video,
) BundleEntry {
	names := make(map[string]string, len(bl.Languages))
	for _, bln := range bl.Languages {
		names[bln.LanguageCode] = bln.Name
	}

	videoCodes := make([]string, 0, len(bl.Members))
	for _, m := range bl.Members {
		if v, ok := videoByID[m.VideoID]; ok {
			videoCodes = append(videoCodes, v.Code)
		}
	}

	entry := BundleEntry{
		Code:        bl.Code,
		DisplayName: bl.Code,
		Names:       names,
		VideoCodes:  videoCodes,
	}
	if en := names["en"]; en != "" {
		entry.DisplayName = en
	}

	// An inactive trigger stays out of the payload entirely, so the bundle
	// degrades to empty trigger/therapy codes rather than referencing it.
	trigger := triggerByID[bl.TriggerID]
	var therapy *types.TherapyArea
	if trigger != nil {
		entry.TriggerCode = trigger.Code
		if ta, ok := areaByID[trigger.PrimaryTherapyID]; ok {
			therapy = ta
			entry.TherapyCode = ta.Code
		}
	}

	parts := []string{bl.Code, bl.Description, bl.SearchKeywords}
	parts = appendLanguageValues(parts, names)
	parts = appendTriggerSearchFields(parts, trigger)
	parts = appendTherapySearchFields(parts, therapy)
	entry.SearchText = buildSearchText(parts)

	return entry
}

func (b *catalogPayloadBuilder) buildVideoEntry(
	v *types.Video,
	triggerByID map[uint]*types.Trigger,
	areaByID map[uint]*types.TherapyArea,
	mapTriggerIDs []uint,
	bundleCodes []string,
	memberBundles []*types.VideoCluster,
) VideoEntry {
	titles := make(map[string]string, len(v.Languages))
	urls := make(map[string]string, len(v.Languages))
	for _, lang := range v.Languages {
		lc := lang.LanguageCode
		if lc == "" {
			lc = "en"
		}
		titles[lc] = lang.Title
		urls[lc] = EmbedURL(lang.YoutubeURL)
	}

	// Associated triggers: primary first, then map overlays; inactive
	// triggers are skipped so they never leak into the payload.
	triggerIDs := make([]uint, 0, 1+len(mapTriggerIDs))
	if v.PrimaryTriggerID != nil {
		triggerIDs = append(triggerIDs, *v.PrimaryTriggerID)
	}
	triggerIDs = append(triggerIDs, mapTriggerIDs...)

	seenTriggers := make(map[uint]bool, len(triggerIDs))
	videoTriggers := make([]*types.Trigger, 0, len(triggerIDs))
	triggerCodes := make([]string, 0, len(triggerIDs))
	for _, id := range triggerIDs {
		if seenTriggers[id] {
			continue
		}
		seenTriggers[id] = true
		if tr, ok := triggerByID[id]; ok {
			videoTriggers = append(videoTriggers, tr)
			triggerCodes = append(triggerCodes, tr.Code)
		}
	}

	// Therapy areas reachable through the associated triggers, then the
	// video's own primary therapy.
	seenTherapies := make(map[uint]bool)
	therapies := make([]*types.TherapyArea, 0, len(videoTriggers))
	therapyCodes := make([]string, 0, len(videoTriggers))
	appendTherapy := func(id uint) {
		if seenTherapies[id] {
			return
		}
		seenTherapies[id] = true
		if ta, ok := areaByID[id]; ok {
			therapies = append(therapies, ta)
			therapyCodes = append(therapyCodes, ta.Code)
		}
	}
	for _, tr := range videoTriggers {
		appendTherapy(tr.PrimaryTherapyID)
	}
	if v.PrimaryTherapyID != nil {
		appendTherapy(*v.PrimaryTherapyID)
	}

	entry := VideoEntry{
		ID:           v.Code,
		DisplayName:  v.Code,
		Titles:       titles,
		URLs:         urls,
		TriggerCodes: triggerCodes,
		TherapyCodes: therapyCodes,
		BundleCodes:  bundleCodes,
	}
	if en := titles["en"]; en != "" {
		entry.DisplayName = en
	}

	parts := []string{v.Code}
	parts = appendLanguageValues(parts, titles)
	parts = append(parts, v.Description, v.SearchKeywords)
	for _, tr := range videoTriggers {
		parts = appendTriggerSearchFields(parts, tr)
	}
	for _, ta := range therapies {
		parts = appendTherapySearchFields(parts, ta)
	}
	for _, bl := range memberBundles {
		parts = append(parts, bl.Code)
		bundleNames := make(map[string]string, len(bl.Languages))
		for _, bln := range bl.Languages {
			bundleNames[bln.LanguageCode] = bln.Name
		}
		parts = appendLanguageValues(parts, bundleNames)
		if tr, ok := triggerByID[bl.TriggerID]; ok {
			parts = appendTriggerSearchFields(parts, tr)
			if ta, ok := areaByID[tr.PrimaryTherapyID]; ok {
				parts = appendTherapySearchFields(parts, ta)
			}
		}
	}
	entry.SearchText = buildSearchText(parts)

	return entry
}

func appendTriggerSearchFields(parts []string, tr *types.Trigger) []string {
	if tr == nil {
		return parts
	}
	return append(parts, tr.Code, tr.DoctorTriggerLabel, tr.SubtopicTitle, tr.SearchKeywords)
}

func appendTherapySearchFields(parts []string, ta *types.TherapyArea) []string {
	if ta == nil {
		return parts
	}
	return append(parts, ta.Code, ta.DisplayName)
}

// appendLanguageValues walks a language-keyed map in the fixed language
// order so search text stays deterministic across builds.
func appendLanguageValues(parts []string, byLang map[string]string) []string {
	for _, code := range types.LanguageCodes {
		if v, ok := byLang[code]; ok {
			parts = append(parts, v)
		}
	}
	return parts
}

// buildSearchText lowercases, deduplicates and joins the collected parts.
func buildSearchText(parts []string) string {
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return strings.Join(out, " ")
}
