package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/services"
)

// AdminHandler exposes the catalog write API. Every mutation goes through
// CatalogAdminService, which owns cache invalidation.
type AdminHandler struct {
	log   *logger.Logger
	admin services.CatalogAdminService
}

func NewAdminHandler(log *logger.Logger, admin services.CatalogAdminService) *AdminHandler {
	return &AdminHandler{
		log:   log.With("handler", "AdminHandler"),
		admin: admin,
	}
}

type therapyAreaRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

type triggerClusterRequest struct {
	Code         string `json:"code" binding:"required"`
	DisplayName  string `json:"display_name" binding:"required"`
	Description  string `json:"description"`
	LanguageCode string `json:"language_code"`
	SortOrder    int    `json:"sort_order"`
	IsActive     *bool  `json:"is_active"`
}

type triggerRequest struct {
	Code               string `json:"code" binding:"required"`
	TherapyCode        string `json:"therapy_code" binding:"required"`
	ClusterCode        string `json:"cluster_code" binding:"required"`
	SubtopicTitle      string `json:"subtopic_title" binding:"required"`
	DoctorTriggerLabel string `json:"doctor_trigger_label"`
	NavigationPathways string `json:"navigation_pathways"`
	SearchKeywords     string `json:"search_keywords"`
	IsActive           *bool  `json:"is_active"`
}

type videoLanguageRequest struct {
	LanguageCode string `json:"language_code" binding:"required"`
	Title        string `json:"title"`
	YoutubeURL   string `json:"youtube_url"`
}

type videoRequest struct {
	Code               string                 `json:"code" binding:"required"`
	Description        string                 `json:"description"`
	PrimaryTriggerCode string                 `json:"primary_trigger_code"`
	PrimaryTherapyCode string                 `json:"primary_therapy_code"`
	ThumbnailURL       string                 `json:"thumbnail_url"`
	DurationSeconds    *int                   `json:"duration_seconds"`
	SortOrder          int                    `json:"sort_order"`
	IsPublished        *bool                  `json:"is_published"`
	IsActive           *bool                  `json:"is_active"`
	SearchKeywords     string                 `json:"search_keywords"`
	Languages          []videoLanguageRequest `json:"languages"`
	ExtraTriggerCodes  []string               `json:"extra_trigger_codes"`
}

type videoClusterRequest struct {
	Code           string            `json:"code" binding:"required"`
	TriggerCode    string            `json:"trigger_code" binding:"required"`
	Description    string            `json:"description"`
	SortOrder      int               `json:"sort_order"`
	IsPublished    *bool             `json:"is_published"`
	IsActive       *bool             `json:"is_active"`
	SearchKeywords string            `json:"search_keywords"`
	Names          map[string]string `json:"names"`
	VideoCodes     []string          `json:"video_codes"`
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (h *AdminHandler) UpsertTherapyArea(c *gin.Context) {
	var req therapyAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	area, err := h.admin.UpsertTherapyArea(c.Request.Context(), services.TherapyAreaInput{
		Code:        req.Code,
		DisplayName: req.DisplayName,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    boolOrDefault(req.IsActive, true),
	})
	if err != nil {
		h.respondAdminError(c, "UpsertTherapyArea", err)
		return
	}
	RespondOK(c, gin.H{"therapy_area": area})
}

func (h *AdminHandler) DeleteTherapyArea(c *gin.Context) {
	if err := h.admin.DeleteTherapyArea(c.Request.Context(), c.Param("code")); err != nil {
		h.respondAdminError(c, "DeleteTherapyArea", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) UpsertTriggerCluster(c *gin.Context) {
	var req triggerClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cluster, err := h.admin.UpsertTriggerCluster(c.Request.Context(), services.TriggerClusterInput{
		Code:         req.Code,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		LanguageCode: req.LanguageCode,
		SortOrder:    req.SortOrder,
		IsActive:     boolOrDefault(req.IsActive, true),
	})
	if err != nil {
		h.respondAdminError(c, "UpsertTriggerCluster", err)
		return
	}
	RespondOK(c, gin.H{"trigger_cluster": cluster})
}

func (h *AdminHandler) DeleteTriggerCluster(c *gin.Context) {
	if err := h.admin.DeleteTriggerCluster(c.Request.Context(), c.Param("code")); err != nil {
		h.respondAdminError(c, "DeleteTriggerCluster", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) UpsertTrigger(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	trigger, err := h.admin.UpsertTrigger(c.Request.Context(), services.TriggerInput{
		Code:               req.Code,
		TherapyCode:        req.TherapyCode,
		ClusterCode:        req.ClusterCode,
		SubtopicTitle:      req.SubtopicTitle,
		DoctorTriggerLabel: req.DoctorTriggerLabel,
		NavigationPathways: req.NavigationPathways,
		SearchKeywords:     req.SearchKeywords,
		IsActive:           boolOrDefault(req.IsActive, true),
	})
	if err != nil {
		h.respondAdminError(c, "UpsertTrigger", err)
		return
	}
	RespondOK(c, gin.H{"trigger": trigger})
}

func (h *AdminHandler) DeleteTrigger(c *gin.Context) {
	if err := h.admin.DeleteTrigger(c.Request.Context(), c.Param("code")); err != nil {
		h.respondAdminError(c, "DeleteTrigger", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) UpsertVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in := services.VideoInput{
		Code:               req.Code,
		Description:        req.Description,
		PrimaryTriggerCode: req.PrimaryTriggerCode,
		PrimaryTherapyCode: req.PrimaryTherapyCode,
		ThumbnailURL:       req.ThumbnailURL,
		DurationSeconds:    req.DurationSeconds,
		SortOrder:          req.SortOrder,
		IsPublished:        boolOrDefault(req.IsPublished, false),
		IsActive:           boolOrDefault(req.IsActive, true),
		SearchKeywords:     req.SearchKeywords,
		ExtraTriggerCodes:  req.ExtraTriggerCodes,
	}
	for _, l := range req.Languages {
		in.Languages = append(in.Languages, services.VideoLanguageInput{
			LanguageCode: l.LanguageCode,
			Title:        l.Title,
			YoutubeURL:   l.YoutubeURL,
		})
	}
	video, err := h.admin.UpsertVideo(c.Request.Context(), in)
	if err != nil {
		h.respondAdminError(c, "UpsertVideo", err)
		return
	}
	RespondOK(c, gin.H{"video": video})
}

func (h *AdminHandler) DeleteVideo(c *gin.Context) {
	if err := h.admin.DeleteVideo(c.Request.Context(), c.Param("code")); err != nil {
		h.respondAdminError(c, "DeleteVideo", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) UpsertVideoCluster(c *gin.Context) {
	var req videoClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cluster, err := h.admin.UpsertVideoCluster(c.Request.Context(), services.VideoClusterInput{
		Code:           req.Code,
		TriggerCode:    req.TriggerCode,
		Description:    req.Description,
		SortOrder:      req.SortOrder,
		IsPublished:    boolOrDefault(req.IsPublished, false),
		IsActive:       boolOrDefault(req.IsActive, true),
		SearchKeywords: req.SearchKeywords,
		Names:          req.Names,
		VideoCodes:     req.VideoCodes,
	})
	if err != nil {
		h.respondAdminError(c, "UpsertVideoCluster", err)
		return
	}
	RespondOK(c, gin.H{"video_cluster": cluster})
}

func (h *AdminHandler) DeleteVideoCluster(c *gin.Context) {
	if err := h.admin.DeleteVideoCluster(c.Request.Context(), c.Param("code")); err != nil {
		h.respondAdminError(c, "DeleteVideoCluster", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) respondAdminError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrCodeRequired) || errors.Is(err, services.ErrBadLanguageCode):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, services.ErrUnknownCode):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrTherapyAreaInUse),
		errors.Is(err, services.ErrTriggerClusterInUse),
		errors.Is(err, services.ErrTriggerInUse):
		RespondError(c, http.StatusConflict, "in_use", err)
	default:
		h.log.Error(op+" failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
