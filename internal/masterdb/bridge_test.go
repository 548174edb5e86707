package masterdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func newMasterDB(t *testing.T, schema ...string) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// cache=shared keeps the in-memory db alive across pooled connections,
	// but only while at least one stays open.
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v\n%s", err, stmt)
		}
	}
	return db
}

func newTestBridge(t *testing.T, db *sql.DB, campaignID string) *Bridge {
	t.Helper()
	cfg := Config{
		Driver:     "sqlite3",
		CampaignID: campaignID,
		Discovery:  defaultDiscovery(),
	}
	return NewBridge(db, sqliteResolver{}, cfg, newTestLogger(t))
}

const uuidSchemaDoctor = `
CREATE TABLE sharing_campaigndoctor (
	id TEXT PRIMARY KEY,
	email TEXT,
	phone TEXT,
	first_name TEXT,
	last_name TEXT,
	password TEXT,
	is_active INTEGER
)`

const uuidSchemaEnrollment = `
CREATE TABLE sharing_doctorcampaignenrollment (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	campaign_id TEXT NOT NULL,
	doctor_id TEXT NOT NULL,
	registered_by_id INTEGER,
	whitelabel_enabled INTEGER NOT NULL,
	whitelabel_subdomain TEXT NOT NULL,
	registered_at TIMESTAMP,
	UNIQUE (campaign_id, doctor_id)
)`

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestFindDoctorByContact(t *testing.T) {
	db := newMasterDB(t, uuidSchemaDoctor, uuidSchemaEnrollment)
	if _, err := db.Exec(
		`INSERT INTO sharing_campaigndoctor (id, email, phone, first_name, last_name) VALUES (?, ?, ?, ?, ?)`,
		"doc1", "Dr.Rao@Example.com", "+919876543210", "Asha", "Rao"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	b := newTestBridge(t, db, "camp1")
	ctx := context.Background()

	// Email match is case-insensitive.
	rec, err := b.FindDoctorByContact(ctx, "dr.rao@example.com", "")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if rec.ID != "doc1" || rec.Name != "Asha Rao" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Phone match ignores country code, comparing the last ten digits.
	rec, err = b.FindDoctorByContact(ctx, "", "098765 43210")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if rec.ID != "doc1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := b.FindDoctorByContact(ctx, "nobody@example.com", ""); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("want ErrDoctorNotFound, got %v", err)
	}
}

func TestEnsureEnrollmentIsIdempotent(t *testing.T) {
	db := newMasterDB(t, uuidSchemaDoctor, uuidSchemaEnrollment)
	b := newTestBridge(t, db, "camp1")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := b.EnsureEnrollment(ctx, EnrollmentInput{DoctorID: "doc1", RegisteredBy: "12345"}); err != nil {
			t.Fatalf("ensure enrollment #%d: %v", i+1, err)
		}
	}
	if n := countRows(t, db, "sharing_doctorcampaignenrollment"); n != 1 {
		t.Fatalf("enrollment rows = %d, want 1", n)
	}

	var registeredBy sql.NullInt64
	var whitelabel int
	err := db.QueryRow(
		`SELECT registered_by_id, whitelabel_enabled FROM sharing_doctorcampaignenrollment`).
		Scan(&registeredBy, &whitelabel)
	if err != nil {
		t.Fatalf("read row: %v", err)
	}
	if !registeredBy.Valid || registeredBy.Int64 != 12345 {
		t.Fatalf("registered_by_id = %+v", registeredBy)
	}
	if whitelabel != 0 {
		t.Fatalf("whitelabel_enabled = %d, want 0", whitelabel)
	}
}

func TestEnsureEnrollmentSkipsNonNumericRegisteredBy(t *testing.T) {
	db := newMasterDB(t, uuidSchemaDoctor, uuidSchemaEnrollment)
	b := newTestBridge(t, db, "camp1")

	if err := b.EnsureEnrollment(context.Background(), EnrollmentInput{DoctorID: "doc1", RegisteredBy: "rep-7"}); err != nil {
		t.Fatalf("ensure enrollment: %v", err)
	}
	var registeredBy sql.NullInt64
	if err := db.QueryRow(`SELECT registered_by_id FROM sharing_doctorcampaignenrollment`).Scan(&registeredBy); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if registeredBy.Valid {
		t.Fatalf("non-numeric registered_by must be skipped, got %d", registeredBy.Int64)
	}
}

func TestEnsureEnrollmentWithoutCampaign(t *testing.T) {
	db := newMasterDB(t, uuidSchemaDoctor, uuidSchemaEnrollment)
	b := newTestBridge(t, db, "")

	if err := b.EnsureEnrollment(context.Background(), EnrollmentInput{DoctorID: "doc1"}); !errors.Is(err, ErrNoCampaign) {
		t.Fatalf("want ErrNoCampaign, got %v", err)
	}
}

func TestEnsureEnrollmentTableMissing(t *testing.T) {
	db := newMasterDB(t, uuidSchemaDoctor)
	b := newTestBridge(t, db, "camp1")

	if err := b.EnsureEnrollment(context.Background(), EnrollmentInput{DoctorID: "doc1"}); !errors.Is(err, ErrEnrollmentTableNotFound) {
		t.Fatalf("want ErrEnrollmentTableNotFound, got %v", err)
	}
}

func TestEnsureEnrollmentAdaptsNumericDoctorFK(t *testing.T) {
	db := newMasterDB(t,
		`CREATE TABLE campaign_doctor (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT,
			email TEXT,
			phone TEXT
		)`,
		`CREATE TABLE doctor_campaign_enrollment (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign TEXT NOT NULL,
			doctor INTEGER NOT NULL,
			UNIQUE (campaign, doctor)
		)`,
	)
	masterUUID := "123e4567-e89b-12d3-a456-426614174000"
	if _, err := db.Exec(
		`INSERT INTO campaign_doctor (uuid, email) VALUES (?, ?)`,
		NormalizeUUID(masterUUID), "x@example.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	b := newTestBridge(t, db, "camp1")

	// Identity is a uuid but the fk column is numeric; the bridge must
	// resolve the numeric pk through the doctor table.
	if err := b.EnsureEnrollment(context.Background(), EnrollmentInput{DoctorID: masterUUID}); err != nil {
		t.Fatalf("ensure enrollment: %v", err)
	}
	var doctor int64
	if err := db.QueryRow(`SELECT doctor FROM doctor_campaign_enrollment`).Scan(&doctor); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if doctor != 1 {
		t.Fatalf("doctor fk = %d, want 1", doctor)
	}
}

func TestEnsureEnrollmentCreatesCampaignDoctor(t *testing.T) {
	db := newMasterDB(t,
		`CREATE TABLE campaign_doctor (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT,
			full_name TEXT,
			email TEXT,
			phone TEXT
		)`,
		`CREATE TABLE doctor_campaign_enrollment (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign TEXT NOT NULL,
			doctor INTEGER NOT NULL,
			UNIQUE (campaign, doctor)
		)`,
	)
	b := newTestBridge(t, db, "camp1")
	ctx := context.Background()

	in := EnrollmentInput{
		DoctorID: "123e4567-e89b-12d3-a456-426614174000",
		FullName: "Asha Rao",
		Email:    "Dr.Rao@Example.com",
		Phone:    "+919876543210",
	}
	// Nothing matches the identity or the contacts yet, so the doctor row
	// has to be created before the enrollment can reference it.
	for i := 0; i < 2; i++ {
		if err := b.EnsureEnrollment(ctx, in); err != nil {
			t.Fatalf("ensure enrollment #%d: %v", i+1, err)
		}
	}
	if n := countRows(t, db, "campaign_doctor"); n != 1 {
		t.Fatalf("doctor rows = %d, want 1", n)
	}
	if n := countRows(t, db, "doctor_campaign_enrollment"); n != 1 {
		t.Fatalf("enrollment rows = %d, want 1", n)
	}

	var doctor int64
	if err := db.QueryRow(`SELECT doctor FROM doctor_campaign_enrollment`).Scan(&doctor); err != nil {
		t.Fatalf("read enrollment: %v", err)
	}
	if doctor != 1 {
		t.Fatalf("doctor fk = %d, want 1", doctor)
	}
	var email, phone string
	if err := db.QueryRow(`SELECT email, phone FROM campaign_doctor`).Scan(&email, &phone); err != nil {
		t.Fatalf("read doctor: %v", err)
	}
	if email != "dr.rao@example.com" {
		t.Fatalf("email not normalized: %q", email)
	}
	if phone != "9876543210" {
		t.Fatalf("phone not stored as last-ten suffix: %q", phone)
	}
}

func TestEnsureEnrollmentFallsBackToRawIdentity(t *testing.T) {
	db := newMasterDB(t,
		`CREATE TABLE campaign_doctor (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT,
			email TEXT
		)`,
		`CREATE TABLE doctor_campaign_enrollment (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign TEXT NOT NULL,
			doctor INTEGER NOT NULL,
			UNIQUE (campaign, doctor)
		)`,
	)
	b := newTestBridge(t, db, "camp1")

	masterUUID := "123e4567-e89b-12d3-a456-426614174000"
	// No contacts to key the doctor row on; the enrollment still has to be
	// written, carrying the identity as given.
	if err := b.EnsureEnrollment(context.Background(), EnrollmentInput{DoctorID: masterUUID}); err != nil {
		t.Fatalf("ensure enrollment: %v", err)
	}
	if n := countRows(t, db, "doctor_campaign_enrollment"); n != 1 {
		t.Fatalf("enrollment rows = %d, want 1", n)
	}
	var doctor string
	if err := db.QueryRow(`SELECT doctor FROM doctor_campaign_enrollment`).Scan(&doctor); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if doctor != masterUUID {
		t.Fatalf("doctor value = %q, want the original identity", doctor)
	}
}

func TestDoctorTableColumnsAreConfigurable(t *testing.T) {
	db := newMasterDB(t,
		`CREATE TABLE campaign_doctor (
			pk INTEGER PRIMARY KEY AUTOINCREMENT,
			mail TEXT,
			contact_no TEXT,
			full_name TEXT
		)`,
	)
	cfg := Config{
		Driver:     "sqlite3",
		CampaignID: "camp1",
		Discovery:  defaultDiscovery(),
	}
	cfg.Discovery.DoctorIDColumns = []string{"pk"}
	cfg.Discovery.DoctorEmailColumns = []string{"mail"}
	cfg.Discovery.DoctorPhoneColumns = []string{"contact_no"}
	b := NewBridge(db, sqliteResolver{}, cfg, newTestLogger(t))

	if _, err := db.Exec(
		`INSERT INTO campaign_doctor (mail, contact_no, full_name) VALUES (?, ?, ?)`,
		"dr.rao@example.com", "9876543210", "Asha Rao"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := b.FindDoctorByContact(context.Background(), "DR.RAO@example.com", "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.ID != "1" || rec.Name != "Asha Rao" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestCreateDoctorWithEnrollment(t *testing.T) {
	db := newMasterDB(t, uuidSchemaDoctor, uuidSchemaEnrollment)
	b := newTestBridge(t, db, "camp1")

	id, err := b.CreateDoctorWithEnrollment(context.Background(), NewDoctorInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "Dr.Rao@Example.com",
		Phone:     "+919876543210",
		Password:  "secret42",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("empty master id")
	}
	if n := countRows(t, db, "sharing_campaigndoctor"); n != 1 {
		t.Fatalf("doctor rows = %d, want 1", n)
	}
	if n := countRows(t, db, "sharing_doctorcampaignenrollment"); n != 1 {
		t.Fatalf("enrollment rows = %d, want 1", n)
	}

	var email string
	if err := db.QueryRow(`SELECT email FROM sharing_campaigndoctor`).Scan(&email); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if email != "dr.rao@example.com" {
		t.Fatalf("email not normalized: %q", email)
	}
}

func TestResolverFor(t *testing.T) {
	for _, driver := range []string{"mysql", "pgx", "postgres", "sqlite3"} {
		if _, err := ResolverFor(driver); err != nil {
			t.Fatalf("ResolverFor(%q): %v", driver, err)
		}
	}
	if _, err := ResolverFor("oracle"); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
