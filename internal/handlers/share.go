package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/services"
)

type ShareHandler struct {
	log          *logger.Logger
	shareService services.ShareService
}

func NewShareHandler(log *logger.Logger, shareService services.ShareService) *ShareHandler {
	return &ShareHandler{
		log:          log.With("handler", "ShareHandler"),
		shareService: shareService,
	}
}

type recordShareRequest struct {
	DoctorID     uint     `json:"doctor_id" binding:"required"`
	Channel      string   `json:"channel" binding:"required"`
	LanguageCode string   `json:"language_code" binding:"required"`
	VideoCodes   []string `json:"video_codes" binding:"required"`
}

func (h *ShareHandler) RecordShare(c *gin.Context) {
	var req recordShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.shareService.RecordShare(c.Request.Context(), services.RecordShareInput{
		DoctorID:     req.DoctorID,
		Channel:      req.Channel,
		LanguageCode: req.LanguageCode,
		VideoCodes:   req.VideoCodes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadShareChannel),
			errors.Is(err, services.ErrBadLanguageCode),
			errors.Is(err, services.ErrNothingToShare):
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, services.ErrDoctorNotFound):
			RespondError(c, http.StatusNotFound, "not_found", err)
		default:
			h.log.Error("RecordShare failed", "error", err, "doctor_id", req.DoctorID)
			RespondError(c, http.StatusInternalServerError, "record_share_failed", err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"share_id":  result.Event.ID,
		"message":   result.Message,
		"share_url": result.ShareURL,
	})
}

func (h *ShareHandler) ListRecentShares(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.shareService.RecentShares(c.Request.Context(), uint(doctorID), limit)
	if err != nil {
		h.log.Error("ListRecentShares failed", "error", err, "doctor_id", doctorID)
		RespondError(c, http.StatusInternalServerError, "load_shares_failed", err)
		return
	}
	RespondOK(c, gin.H{"shares": events})
}
