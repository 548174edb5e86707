package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/clinicshare-backend/internal/masterdb"
	"github.com/yungbote/clinicshare-backend/internal/repos"
)

type fakeBridge struct {
	findRec   *masterdb.DoctorRecord
	findErr   error
	createID  string
	createErr error
	ensureErr error

	ensured []string
	created []masterdb.NewDoctorInput
}

func (f *fakeBridge) FindDoctorByContact(ctx context.Context, email, phone string) (*masterdb.DoctorRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findRec, nil
}

func (f *fakeBridge) EnsureEnrollment(ctx context.Context, in masterdb.EnrollmentInput) error {
	f.ensured = append(f.ensured, in.DoctorID)
	return f.ensureErr
}

func (f *fakeBridge) CreateDoctorWithEnrollment(ctx context.Context, in masterdb.NewDoctorInput) (string, error) {
	f.created = append(f.created, in)
	return f.createID, f.createErr
}

func newAccountService(t *testing.T, bridge MasterBridge) (AccountService, repos.DoctorRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	doctorRepo := repos.NewDoctorRepo(db, log)
	clinicRepo := repos.NewClinicRepo(db, log)
	return NewAccountService(db, log, doctorRepo, clinicRepo, bridge), doctorRepo
}

func baseRegistration() RegisterDoctorInput {
	return RegisterDoctorInput{
		FirstName:      "Asha",
		LastName:       "Rao",
		Email:          "Dr.Rao@Example.com",
		WhatsappNumber: "+919876543210",
		ClinicName:     "Rao Clinic",
		ClinicState:    "Telangana",
	}
}

func TestRegisterDoctorLinksExistingMasterDoctor(t *testing.T) {
	bridge := &fakeBridge{findRec: &masterdb.DoctorRecord{ID: "master-1", Name: "Asha Rao"}}
	svc, doctorRepo := newAccountService(t, bridge)

	result, err := svc.RegisterDoctor(context.Background(), baseRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.MasterLinked {
		t.Fatal("expected master link")
	}
	if len(bridge.ensured) != 1 || bridge.ensured[0] != "master-1" {
		t.Fatalf("enrollment calls: %v", bridge.ensured)
	}
	if len(bridge.created) != 0 {
		t.Fatal("existing doctor must not be re-created in master")
	}

	stored, err := doctorRepo.GetByEmail(context.Background(), nil, "dr.rao@example.com")
	if err != nil || stored == nil {
		t.Fatalf("load stored doctor: %v", err)
	}
	if stored.MasterDoctorID != "master-1" {
		t.Fatalf("master id not stored: %q", stored.MasterDoctorID)
	}
	if stored.ClinicID == nil {
		t.Fatal("clinic not linked")
	}
	if result.TemporaryPassword == "" {
		t.Fatal("no temporary password returned")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(result.TemporaryPassword)); err != nil {
		t.Fatalf("stored hash does not match returned password: %v", err)
	}
}

func TestRegisterDoctorCreatesMasterDoctorWhenMissing(t *testing.T) {
	bridge := &fakeBridge{findErr: masterdb.ErrDoctorNotFound, createID: "master-new"}
	svc, doctorRepo := newAccountService(t, bridge)

	result, err := svc.RegisterDoctor(context.Background(), baseRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.MasterLinked {
		t.Fatal("expected master link")
	}
	if len(bridge.created) != 1 {
		t.Fatalf("create calls: %d", len(bridge.created))
	}
	if bridge.created[0].Password != result.TemporaryPassword {
		t.Fatal("master creation must use the generated temporary password")
	}

	stored, _ := doctorRepo.GetByEmail(context.Background(), nil, "dr.rao@example.com")
	if stored.MasterDoctorID != "master-new" {
		t.Fatalf("master id not stored: %q", stored.MasterDoctorID)
	}
}

func TestRegisterDoctorSurvivesMasterOutage(t *testing.T) {
	bridge := &fakeBridge{findErr: errors.New("master db unreachable")}
	svc, doctorRepo := newAccountService(t, bridge)

	result, err := svc.RegisterDoctor(context.Background(), baseRegistration())
	if err != nil {
		t.Fatalf("local registration must survive master outage: %v", err)
	}
	if result.MasterLinked {
		t.Fatal("link should be reported as failed")
	}
	stored, _ := doctorRepo.GetByEmail(context.Background(), nil, "dr.rao@example.com")
	if stored == nil {
		t.Fatal("local doctor row missing")
	}
	if stored.MasterDoctorID != "" {
		t.Fatalf("unexpected master id %q", stored.MasterDoctorID)
	}
}

func TestRegisterDoctorWithoutBridge(t *testing.T) {
	svc, _ := newAccountService(t, nil)
	result, err := svc.RegisterDoctor(context.Background(), baseRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.MasterLinked {
		t.Fatal("no bridge configured, nothing to link")
	}
}

func TestRegisterDoctorDuplicateEmail(t *testing.T) {
	svc, _ := newAccountService(t, nil)
	ctx := context.Background()

	if _, err := svc.RegisterDoctor(ctx, baseRegistration()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in := baseRegistration()
	in.Email = "DR.RAO@example.com"
	if _, err := svc.RegisterDoctor(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegisterDoctorRequiresContact(t *testing.T) {
	svc, _ := newAccountService(t, nil)
	in := baseRegistration()
	in.WhatsappNumber = "  "
	if _, err := svc.RegisterDoctor(context.Background(), in); !errors.Is(err, ErrMissingContact) {
		t.Fatalf("want ErrMissingContact, got %v", err)
	}
}
