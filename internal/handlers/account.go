package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/services"
)

type AccountHandler struct {
	log            *logger.Logger
	accountService services.AccountService
}

func NewAccountHandler(log *logger.Logger, accountService services.AccountService) *AccountHandler {
	return &AccountHandler{
		log:            log.With("handler", "AccountHandler"),
		accountService: accountService,
	}
}

type registerDoctorRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name"`
	Email          string `json:"email" binding:"required,email"`
	WhatsappNumber string `json:"whatsapp_number" binding:"required"`
	IMCNumber      string `json:"imc_number"`
	RegisteredBy   string `json:"registered_by"`

	ClinicName              string `json:"clinic_name"`
	ClinicPhone             string `json:"clinic_phone"`
	ClinicAppointmentNumber string `json:"clinic_appointment_number"`
	ClinicAddress           string `json:"clinic_address"`
	ClinicPostalCode        string `json:"clinic_postal_code"`
	ClinicState             string `json:"clinic_state"`
	ClinicDistrict          string `json:"clinic_district"`
}

func (h *AccountHandler) RegisterDoctor(c *gin.Context) {
	var req registerDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.accountService.RegisterDoctor(c.Request.Context(), services.RegisterDoctorInput{
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Email:                   req.Email,
		WhatsappNumber:          req.WhatsappNumber,
		IMCNumber:               req.IMCNumber,
		RegisteredBy:            req.RegisteredBy,
		ClinicName:              req.ClinicName,
		ClinicPhone:             req.ClinicPhone,
		ClinicAppointmentNumber: req.ClinicAppointmentNumber,
		ClinicAddress:           req.ClinicAddress,
		ClinicPostalCode:        req.ClinicPostalCode,
		ClinicState:             req.ClinicState,
		ClinicDistrict:          req.ClinicDistrict,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			RespondError(c, http.StatusConflict, "email_taken", err)
		case errors.Is(err, services.ErrMissingContact):
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
		default:
			h.log.Error("RegisterDoctor failed", "error", err, "email", req.Email)
			RespondError(c, http.StatusInternalServerError, "registration_failed", err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"doctor":             result.Doctor,
		"temporary_password": result.TemporaryPassword,
		"master_linked":      result.MasterLinked,
	})
}

func (h *AccountHandler) GetDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doctor, err := h.accountService.GetDoctor(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrDoctorNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		h.log.Error("GetDoctor failed", "error", err, "doctor_id", id)
		RespondError(c, http.StatusInternalServerError, "load_doctor_failed", err)
		return
	}
	RespondOK(c, gin.H{"doctor": doctor})
}
