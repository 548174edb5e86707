package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/clinicshare-backend/internal/masterdb"
	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/repos"
	"github.com/yungbote/clinicshare-backend/internal/types"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrMissingContact = errors.New("email and whatsapp number are required")
	ErrDoctorNotFound = errors.New("doctor not found")
)

// MasterBridge is the slice of the master database bridge that registration
// needs. Kept as an interface so tests can stub the external system.
type MasterBridge interface {
	FindDoctorByContact(ctx context.Context, email, phone string) (*masterdb.DoctorRecord, error)
	EnsureEnrollment(ctx context.Context, in masterdb.EnrollmentInput) error
	CreateDoctorWithEnrollment(ctx context.Context, in masterdb.NewDoctorInput) (string, error)
}

type RegisterDoctorInput struct {
	FirstName      string
	LastName       string
	Email          string
	WhatsappNumber string
	IMCNumber      string
	RegisteredBy   string

	ClinicName              string
	ClinicPhone             string
	ClinicAppointmentNumber string
	ClinicAddress           string
	ClinicPostalCode        string
	ClinicState             string
	ClinicDistrict          string
}

// RegisterDoctorResult reports the registration outcome. TemporaryPassword
// is set only when a new credential was generated for the doctor; it is
// returned exactly once and never stored in plain text.
type RegisterDoctorResult struct {
	Doctor            *types.Doctor
	TemporaryPassword string
	MasterLinked      bool
}

type AccountService interface {
	RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (*RegisterDoctorResult, error)
	GetDoctor(ctx context.Context, id uint) (*types.Doctor, error)
}

type accountService struct {
	db         *gorm.DB
	log        *logger.Logger
	doctorRepo repos.DoctorRepo
	clinicRepo repos.ClinicRepo
	bridge     MasterBridge
}

// NewAccountService wires the registration flow. bridge may be nil when no
// master database is configured; registration then stays purely local.
func NewAccountService(db *gorm.DB, baseLog *logger.Logger, doctorRepo repos.DoctorRepo, clinicRepo repos.ClinicRepo, bridge MasterBridge) AccountService {
	return &accountService{
		db:         db,
		log:        baseLog.With("service", "AccountService"),
		doctorRepo: doctorRepo,
		clinicRepo: clinicRepo,
		bridge:     bridge,
	}
}

// RegisterDoctor creates the local clinic and doctor rows in one
// transaction, then links the doctor to the master database best-effort.
// Master failures are logged and never fail the registration; the local row
// simply stays unlinked until a later retry.
func (s *accountService) RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (*RegisterDoctorResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.WhatsappNumber)
	if email == "" || phone == "" {
		return nil, ErrMissingContact
	}

	existing, err := s.doctorRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check existing doctor: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	tempPassword, err := masterdb.GenerateTemporaryPassword(10)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doctor := &types.Doctor{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          email,
		WhatsappNumber: phone,
		IMCNumber:      strings.TrimSpace(in.IMCNumber),
		PasswordHash:   string(hash),
		IsActive:       true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ClinicName != "" {
			clinic := &types.Clinic{
				Name:              strings.TrimSpace(in.ClinicName),
				Phone:             in.ClinicPhone,
				AppointmentNumber: in.ClinicAppointmentNumber,
				Address:           in.ClinicAddress,
				PostalCode:        in.ClinicPostalCode,
				State:             in.ClinicState,
				District:          in.ClinicDistrict,
			}
			if err := s.clinicRepo.Create(ctx, tx, clinic); err != nil {
				return err
			}
			doctor.ClinicID = &clinic.ID
			doctor.Clinic = clinic
		}
		return s.doctorRepo.Create(ctx, tx, doctor)
	})
	if err != nil {
		return nil, fmt.Errorf("register doctor: %w", err)
	}

	result := &RegisterDoctorResult{
		Doctor:            doctor,
		TemporaryPassword: tempPassword,
	}
	if s.bridge != nil {
		result.MasterLinked = s.linkToMaster(ctx, doctor, tempPassword, in.RegisteredBy)
	}
	return result, nil
}

func (s *accountService) linkToMaster(ctx context.Context, doctor *types.Doctor, tempPassword, registeredBy string) bool {
	log := s.log.With("doctor_id", doctor.ID)

	var masterID string
	rec, err := s.bridge.FindDoctorByContact(ctx, doctor.Email, doctor.WhatsappNumber)
	switch {
	case err == nil:
		masterID = rec.ID
		enroll := masterdb.EnrollmentInput{
			DoctorID:     masterID,
			RegisteredBy: registeredBy,
			FullName:     doctor.DisplayName(),
			Email:        doctor.Email,
			Phone:        doctor.WhatsappNumber,
		}
		if err := s.bridge.EnsureEnrollment(ctx, enroll); err != nil {
			log.Warn("master enrollment failed", "error", err)
			return false
		}
	case errors.Is(err, masterdb.ErrDoctorNotFound):
		masterID, err = s.bridge.CreateDoctorWithEnrollment(ctx, masterdb.NewDoctorInput{
			FirstName: doctor.FirstName,
			LastName:  doctor.LastName,
			Email:     doctor.Email,
			Phone:     doctor.WhatsappNumber,
			Password:  tempPassword,
		})
		if err != nil {
			log.Warn("master doctor creation failed", "error", err)
			return false
		}
	default:
		log.Warn("master doctor lookup failed", "error", err)
		return false
	}

	if masterID == "" {
		return false
	}
	if err := s.doctorRepo.SetMasterDoctorID(ctx, nil, doctor.ID, masterID); err != nil {
		log.Warn("failed to store master doctor id", "error", err)
		return false
	}
	doctor.MasterDoctorID = masterID
	return true
}

func (s *accountService) GetDoctor(ctx context.Context, id uint) (*types.Doctor, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
