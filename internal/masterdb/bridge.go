package masterdb

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
)

var (
	ErrEnrollmentTableNotFound = errors.New("master db: enrollment table not found")
	ErrDoctorTableNotFound     = errors.New("master db: campaign doctor table not found")
	ErrDoctorNotFound          = errors.New("master db: doctor not found")
	ErrNoCampaign              = errors.New("master db: no campaign id configured")
)

// DoctorRecord is a doctor row as seen in the master database. ID is kept as
// a string regardless of the underlying column type; callers never interpret
// it beyond passing it back.
type DoctorRecord struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// NewDoctorInput carries the fields offered to the master doctor table.
// Only the columns that actually exist over there are written.
type NewDoctorInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// EnrollmentInput identifies the doctor to enroll. The contact fields come
// into play when the enrollment foreign key is numeric and the doctor row
// has to be found or created by lower-cased email or last-ten-digit phone.
type EnrollmentInput struct {
	DoctorID     string
	RegisteredBy string
	FullName     string
	Email        string
	Phone        string
}

// Bridge talks to the externally-owned master database. The master schema is
// not under this codebase's control, so every table and column it touches is
// discovered at runtime and the results are cached for the process lifetime.
type Bridge struct {
	db  *sql.DB
	res SchemaResolver
	cfg Config
	log *logger.Logger

	mu         sync.Mutex
	enrollMeta *enrollmentMeta
	doctorMeta *doctorTableMeta
}

type enrollmentMeta struct {
	table         string
	campaignCol   Column
	doctorCol     Column
	registeredBy  *Column
	columnsByName map[string]Column
}

type doctorTableMeta struct {
	table         string
	idCol         Column
	emailCol      string
	phoneCol      string
	nameCols      []string
	columnsByName map[string]Column
}

// Open connects to the master database described by cfg and verifies the
// connection with a short ping.
func Open(cfg Config, baseLog *logger.Logger) (*Bridge, error) {
	if cfg.DSN == "" {
		return nil, errors.New("master db: empty dsn")
	}
	res, err := ResolverFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("master db: open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("master db: ping: %w", err)
	}
	return NewBridge(db, res, cfg, baseLog), nil
}

// NewBridge wraps an already-open connection. Tests use this with an
// in-memory sqlite database.
func NewBridge(db *sql.DB, res SchemaResolver, cfg Config, baseLog *logger.Logger) *Bridge {
	return &Bridge{
		db:  db,
		res: res,
		cfg: cfg,
		log: baseLog.With("component", "MasterBridge"),
	}
}

func (b *Bridge) Close() error { return b.db.Close() }

// FindDoctorByContact looks up a master doctor by email or phone. Matching
// is case-insensitive on email and uses the last ten digits of the phone so
// country-code differences do not break it. Returns ErrDoctorNotFound when
// no row matches.
func (b *Bridge) FindDoctorByContact(ctx context.Context, email, phone string) (*DoctorRecord, error) {
	meta, err := b.doctorTable(ctx)
	if err != nil {
		return nil, err
	}

	conds, args := b.contactConds(meta, email, phone)
	if len(conds) == 0 {
		return nil, ErrDoctorNotFound
	}

	selectCols := []string{b.res.QuoteIdent(meta.idCol.Name)}
	if meta.emailCol != "" {
		selectCols = append(selectCols, b.res.QuoteIdent(meta.emailCol))
	} else {
		selectCols = append(selectCols, "''")
	}
	if meta.phoneCol != "" {
		selectCols = append(selectCols, b.res.QuoteIdent(meta.phoneCol))
	} else {
		selectCols = append(selectCols, "''")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(selectCols, ", "),
		b.res.QuoteIdent(meta.table),
		strings.Join(conds, " OR "))

	var rec DoctorRecord
	var rawEmail, rawPhone sql.NullString
	err = b.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rawEmail, &rawPhone)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("master db: find doctor: %w", err)
	}
	rec.Email = rawEmail.String
	rec.Phone = rawPhone.String
	rec.Name = b.doctorName(ctx, meta, rec.ID)
	b.log.Info("master doctor matched",
		"email", rec.Email,
		"phone", rec.Phone)
	return &rec, nil
}

func (b *Bridge) doctorName(ctx context.Context, meta *doctorTableMeta, id string) string {
	if len(meta.nameCols) == 0 {
		return ""
	}
	cols := make([]string, len(meta.nameCols))
	for i, c := range meta.nameCols {
		cols[i] = b.res.QuoteIdent(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(cols, ", "),
		b.res.QuoteIdent(meta.table),
		b.res.QuoteIdent(meta.idCol.Name),
		b.res.Placeholder(1))

	vals := make([]sql.NullString, len(meta.nameCols))
	dest := make([]interface{}, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := b.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		return ""
	}
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if s := strings.TrimSpace(v.String); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// EnsureEnrollment records the doctor as enrolled in the configured campaign.
// The insert ignores duplicates, so calling it any number of times for the
// same doctor leaves exactly one enrollment row.
func (b *Bridge) EnsureEnrollment(ctx context.Context, in EnrollmentInput) error {
	if b.cfg.CampaignID == "" {
		return ErrNoCampaign
	}
	meta, err := b.enrollmentTable(ctx)
	if err != nil {
		return err
	}

	doctorValue := b.adaptDoctorValue(ctx, meta.doctorCol, in)
	campaignValue := b.cfg.CampaignID
	if !meta.campaignCol.IsNumeric() {
		campaignValue = NormalizeUUID(campaignValue)
	}

	cols := []string{meta.campaignCol.Name, meta.doctorCol.Name}
	vals := []interface{}{campaignValue, doctorValue}

	if meta.registeredBy != nil && isDigits(in.RegisteredBy) {
		cols = append(cols, meta.registeredBy.Name)
		vals = append(vals, in.RegisteredBy)
	}
	// Columns the schema may or may not carry; filled with safe defaults
	// when present so NOT NULL constraints cannot reject the insert.
	for name, val := range map[string]interface{}{
		"whitelabel_enabled":   0,
		"whitelabel_subdomain": "",
		"registered_at":        time.Now().UTC(),
		"active":               1,
	} {
		if _, ok := meta.columnsByName[name]; ok {
			cols = append(cols, name)
			vals = append(vals, val)
		}
	}

	quoted := make([]string, len(cols))
	markers := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = b.res.QuoteIdent(c)
		markers[i] = b.res.Placeholder(i + 1)
	}
	verb, suffix := b.res.InsertIgnore()
	query := fmt.Sprintf("%s %s (%s) VALUES (%s)%s",
		verb,
		b.res.QuoteIdent(meta.table),
		strings.Join(quoted, ", "),
		strings.Join(markers, ", "),
		suffix)

	if _, err := b.db.ExecContext(ctx, query, vals...); err != nil {
		return fmt.Errorf("master db: ensure enrollment: %w", err)
	}
	return nil
}

// adaptDoctorValue converts the doctor identity into whatever the enrollment
// foreign key column expects. A numeric column with a non-numeric identity
// means the identity is a uuid; the numeric key is resolved through the
// doctor table, creating the row by contact when the lookup misses. When
// neither works the original identifier goes through unchanged so the
// enrollment insert is still attempted.
func (b *Bridge) adaptDoctorValue(ctx context.Context, col Column, in EnrollmentInput) interface{} {
	if !col.IsNumeric() {
		return NormalizeUUID(in.DoctorID)
	}
	if isDigits(in.DoctorID) {
		return in.DoctorID
	}

	pk, err := b.doctorPKByIdentity(ctx, in.DoctorID)
	if err == nil {
		return pk
	}
	pk, err = b.ensureCampaignDoctor(ctx, in)
	if err == nil {
		return pk
	}
	b.log.Warn("doctor fk adaptation fell back to raw identity",
		"doctor_id", in.DoctorID,
		"error", err)
	return in.DoctorID
}

// doctorPKByIdentity resolves a uuid identity to the doctor table's numeric
// primary key through whichever uuid-bearing column the table has.
func (b *Bridge) doctorPKByIdentity(ctx context.Context, doctorID string) (int64, error) {
	meta, err := b.doctorTable(ctx)
	if err != nil {
		return 0, err
	}
	uuidCol, ok := firstColumn(meta.columnsByName, b.cfg.Discovery.DoctorUUIDColumns)
	if !ok {
		return 0, fmt.Errorf("master db: %s has no uuid column", meta.table)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		b.res.QuoteIdent(meta.idCol.Name),
		b.res.QuoteIdent(meta.table),
		b.res.QuoteIdent(uuidCol.Name),
		b.res.Placeholder(1))
	var pk int64
	err = b.db.QueryRowContext(ctx, query, NormalizeUUID(doctorID)).Scan(&pk)
	if err == sql.ErrNoRows {
		return 0, ErrDoctorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("master db: resolve doctor pk: %w", err)
	}
	return pk, nil
}

// ensureCampaignDoctor finds the doctor row by contact, inserting it first
// when nothing matches, and returns its numeric primary key.
func (b *Bridge) ensureCampaignDoctor(ctx context.Context, in EnrollmentInput) (int64, error) {
	meta, err := b.doctorTable(ctx)
	if err != nil {
		return 0, err
	}
	conds, args := b.contactConds(meta, in.Email, in.Phone)
	if len(conds) == 0 {
		return 0, fmt.Errorf("master db: no contact keys for doctor %q", in.DoctorID)
	}

	pk, err := b.selectDoctorPK(ctx, meta, conds, args)
	if err == nil {
		return pk, nil
	}
	if !errors.Is(err, ErrDoctorNotFound) {
		return 0, err
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = NormalizeEmail(in.Email)
	}
	candidates := map[string]interface{}{
		"full_name":  fullName,
		"name":       fullName,
		"created_at": time.Now().UTC(),
	}
	if meta.emailCol != "" {
		candidates[meta.emailCol] = NormalizeEmail(in.Email)
	}
	if meta.phoneCol != "" {
		candidates[meta.phoneCol] = PhoneSuffix(in.Phone)
	}
	// Storing the uuid identity lets later enrollments resolve the primary
	// key directly instead of going through the contact keys again.
	if uuidCol, ok := firstColumn(meta.columnsByName, b.cfg.Discovery.DoctorUUIDColumns); ok {
		candidates[uuidCol.Name] = NormalizeUUID(in.DoctorID)
	}

	var cols []string
	var vals []interface{}
	for name, val := range candidates {
		if _, ok := meta.columnsByName[name]; ok {
			cols = append(cols, name)
			vals = append(vals, val)
		}
	}
	quoted := make([]string, len(cols))
	markers := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = b.res.QuoteIdent(c)
		markers[i] = b.res.Placeholder(i + 1)
	}
	verb, suffix := b.res.InsertIgnore()
	query := fmt.Sprintf("%s %s (%s) VALUES (%s)%s",
		verb,
		b.res.QuoteIdent(meta.table),
		strings.Join(quoted, ", "),
		strings.Join(markers, ", "),
		suffix)
	if _, err := b.db.ExecContext(ctx, query, vals...); err != nil {
		return 0, fmt.Errorf("master db: create campaign doctor: %w", err)
	}
	return b.selectDoctorPK(ctx, meta, conds, args)
}

func (b *Bridge) contactConds(meta *doctorTableMeta, email, phone string) ([]string, []interface{}) {
	var (
		conds []string
		args  []interface{}
		n     int
	)
	if e := NormalizeEmail(email); e != "" && meta.emailCol != "" {
		n++
		conds = append(conds, fmt.Sprintf("LOWER(%s) = %s", b.res.QuoteIdent(meta.emailCol), b.res.Placeholder(n)))
		args = append(args, e)
	}
	if p := PhoneSuffix(phone); p != "" && meta.phoneCol != "" {
		n++
		conds = append(conds, fmt.Sprintf("%s = %s", b.res.PhoneSuffixExpr(b.res.QuoteIdent(meta.phoneCol), 10), b.res.Placeholder(n)))
		args = append(args, p)
	}
	return conds, args
}

func (b *Bridge) selectDoctorPK(ctx context.Context, meta *doctorTableMeta, conds []string, args []interface{}) (int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s DESC LIMIT 1",
		b.res.QuoteIdent(meta.idCol.Name),
		b.res.QuoteIdent(meta.table),
		strings.Join(conds, " OR "),
		b.res.QuoteIdent(meta.idCol.Name))
	var pk int64
	err := b.db.QueryRowContext(ctx, query, args...).Scan(&pk)
	if err == sql.ErrNoRows {
		return 0, ErrDoctorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("master db: select doctor pk: %w", err)
	}
	return pk, nil
}

// CreateDoctorWithEnrollment inserts a doctor into the master table and
// enrolls them in the campaign. Only the columns the master table actually
// has receive values. Returns the new doctor's master identity.
func (b *Bridge) CreateDoctorWithEnrollment(ctx context.Context, in NewDoctorInput) (string, error) {
	meta, err := b.doctorTable(ctx)
	if err != nil {
		return "", err
	}

	candidates := map[string]interface{}{
		"email":           NormalizeEmail(in.Email),
		"phone":           in.Phone,
		"mobile":          in.Phone,
		"phone_number":    in.Phone,
		"whatsapp_number": in.Phone,
		"first_name":      in.FirstName,
		"last_name":       in.LastName,
		"name":            strings.TrimSpace(in.FirstName + " " + in.LastName),
		"password":        in.Password,
		"is_active":       1,
		"active":          1,
		"created_at":      time.Now().UTC(),
	}

	var id string
	if !meta.idCol.IsNumeric() {
		id = NormalizeUUID(uuid.NewString())
		candidates[meta.idCol.Name] = id
	}

	var cols []string
	var vals []interface{}
	for name, val := range candidates {
		if _, ok := meta.columnsByName[name]; ok {
			cols = append(cols, name)
			vals = append(vals, val)
		}
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("master db: doctor table %s shares no known columns", meta.table)
	}

	quoted := make([]string, len(cols))
	markers := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = b.res.QuoteIdent(c)
		markers[i] = b.res.Placeholder(i + 1)
	}
	verb, suffix := b.res.InsertIgnore()
	query := fmt.Sprintf("%s %s (%s) VALUES (%s)%s",
		verb,
		b.res.QuoteIdent(meta.table),
		strings.Join(quoted, ", "),
		strings.Join(markers, ", "),
		suffix)
	if _, err := b.db.ExecContext(ctx, query, vals...); err != nil {
		return "", fmt.Errorf("master db: create doctor: %w", err)
	}

	if id == "" {
		// Autoincrement primary key: read the row back by contact. This also
		// resolves the case where the insert was ignored as a duplicate.
		rec, err := b.FindDoctorByContact(ctx, in.Email, in.Phone)
		if err != nil {
			return "", err
		}
		id = rec.ID
	}

	err = b.EnsureEnrollment(ctx, EnrollmentInput{
		DoctorID: id,
		FullName: strings.TrimSpace(in.FirstName + " " + in.LastName),
		Email:    in.Email,
		Phone:    in.Phone,
	})
	if err != nil && !errors.Is(err, ErrNoCampaign) {
		return id, err
	}
	return id, nil
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTemporaryPassword returns a random alphanumeric password of at
// least six characters. Ambiguous characters are excluded.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < 6 {
		length = 6
	}
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

func (b *Bridge) enrollmentTable(ctx context.Context) (*enrollmentMeta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.enrollMeta != nil {
		return b.enrollMeta, nil
	}

	table, err := b.res.FindTableByPatterns(ctx, b.db, b.cfg.Discovery.EnrollmentTablePatterns)
	if err != nil {
		return nil, fmt.Errorf("master db: discover enrollment table: %w", err)
	}
	if table == "" {
		return nil, ErrEnrollmentTableNotFound
	}
	cols, err := b.res.TableColumns(ctx, b.db, table)
	if err != nil {
		return nil, fmt.Errorf("master db: columns of %s: %w", table, err)
	}
	byName := columnIndex(cols)

	campaign, ok := firstColumn(byName, b.cfg.Discovery.CampaignColumns)
	if !ok {
		return nil, fmt.Errorf("master db: %s has no campaign column", table)
	}
	doctor, ok := firstColumn(byName, b.cfg.Discovery.DoctorColumns)
	if !ok {
		return nil, fmt.Errorf("master db: %s has no doctor column", table)
	}
	meta := &enrollmentMeta{
		table:         table,
		campaignCol:   campaign,
		doctorCol:     doctor,
		columnsByName: byName,
	}
	if rb, ok := firstColumn(byName, b.cfg.Discovery.RegisteredByColumns); ok {
		meta.registeredBy = &rb
	}
	b.log.Info("enrollment table discovered",
		"table", table,
		"campaign_column", campaign.Name,
		"doctor_column", doctor.Name)
	b.enrollMeta = meta
	return meta, nil
}

func (b *Bridge) doctorTable(ctx context.Context) (*doctorTableMeta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.doctorMeta != nil {
		return b.doctorMeta, nil
	}

	table, err := b.res.FindTableByPatterns(ctx, b.db, b.cfg.Discovery.CampaignDoctorTablePattern)
	if err != nil {
		return nil, fmt.Errorf("master db: discover doctor table: %w", err)
	}
	if table == "" {
		return nil, ErrDoctorTableNotFound
	}
	cols, err := b.res.TableColumns(ctx, b.db, table)
	if err != nil {
		return nil, fmt.Errorf("master db: columns of %s: %w", table, err)
	}
	byName := columnIndex(cols)

	idCol, ok := firstColumn(byName, b.cfg.Discovery.DoctorIDColumns)
	if !ok {
		return nil, fmt.Errorf("master db: %s has no id column", table)
	}
	meta := &doctorTableMeta{
		table:         table,
		idCol:         idCol,
		columnsByName: byName,
	}
	if c, ok := firstColumn(byName, b.cfg.Discovery.DoctorEmailColumns); ok {
		meta.emailCol = c.Name
	}
	if c, ok := firstColumn(byName, b.cfg.Discovery.DoctorPhoneColumns); ok {
		meta.phoneCol = c.Name
	}
	for _, cand := range b.cfg.Discovery.DoctorNameColumns {
		if _, ok := byName[cand]; ok {
			meta.nameCols = append(meta.nameCols, cand)
		}
	}
	b.log.Info("doctor table discovered", "table", table, "id_column", idCol.Name)
	b.doctorMeta = meta
	return meta, nil
}

func columnIndex(cols []Column) map[string]Column {
	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[strings.ToLower(c.Name)] = c
	}
	return byName
}

func firstColumn(byName map[string]Column, candidates []string) (Column, bool) {
	for _, cand := range candidates {
		if c, ok := byName[cand]; ok {
			return c, true
		}
	}
	return Column{}, false
}
