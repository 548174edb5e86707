package masterdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Column is one introspected column of a master table.
type Column struct {
	Name     string
	DataType string
}

// IsNumeric reports whether the column stores numbers, which decides how
// doctor identities must be written into it.
func (c Column) IsNumeric() bool {
	t := strings.ToLower(c.DataType)
	for _, kw := range []string{"int", "decimal", "numeric", "float", "double", "real", "serial"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// SchemaResolver abstracts the engine-specific parts of talking to a master
// database: introspection queries, identifier quoting, placeholder style,
// and the conflict-ignoring insert form. The rest of the bridge is written
// once against this interface.
type SchemaResolver interface {
	// FindTableByPatterns returns the first table whose lowercased name
	// matches one of the LIKE patterns, in pattern order. Empty string when
	// nothing matches.
	FindTableByPatterns(ctx context.Context, db *sql.DB, patterns []string) (string, error)
	TableColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error)
	QuoteIdent(name string) string
	// Placeholder returns the 1-based parameter marker.
	Placeholder(n int) string
	// InsertIgnore returns the insert verb and trailing clause that make an
	// insert a no-op on a duplicate key.
	InsertIgnore() (verb string, suffix string)
	// PhoneSuffixExpr returns SQL yielding the last n characters of a column.
	PhoneSuffixExpr(column string, n int) string
}

// ResolverFor maps a database/sql driver name onto its resolver.
func ResolverFor(driver string) (SchemaResolver, error) {
	switch driver {
	case "mysql":
		return mysqlResolver{}, nil
	case "pgx", "postgres":
		return postgresResolver{}, nil
	case "sqlite3", "sqlite":
		return sqliteResolver{}, nil
	default:
		return nil, fmt.Errorf("unsupported master db driver %q", driver)
	}
}

type mysqlResolver struct{}

func (mysqlResolver) FindTableByPatterns(ctx context.Context, db *sql.DB, patterns []string) (string, error) {
	const q = `SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND LOWER(table_name) LIKE ? LIMIT 1`
	return findByPatterns(ctx, db, q, patterns)
}

func (mysqlResolver) TableColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	const q = `SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?`
	return scanColumns(ctx, db, q, table)
}

func (mysqlResolver) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlResolver) Placeholder(int) string { return "?" }

func (mysqlResolver) InsertIgnore() (string, string) { return "INSERT IGNORE INTO", "" }

func (mysqlResolver) PhoneSuffixExpr(column string, n int) string {
	return fmt.Sprintf("RIGHT(%s, %d)", column, n)
}

type postgresResolver struct{}

func (postgresResolver) FindTableByPatterns(ctx context.Context, db *sql.DB, patterns []string) (string, error) {
	const q = `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND LOWER(table_name) LIKE $1 LIMIT 1`
	return findByPatterns(ctx, db, q, patterns)
}

func (postgresResolver) TableColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	const q = `SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1`
	return scanColumns(ctx, db, q, table)
}

func (postgresResolver) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgresResolver) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgresResolver) InsertIgnore() (string, string) {
	return "INSERT INTO", " ON CONFLICT DO NOTHING"
}

func (postgresResolver) PhoneSuffixExpr(column string, n int) string {
	return fmt.Sprintf("RIGHT(%s, %d)", column, n)
}

type sqliteResolver struct{}

func (sqliteResolver) FindTableByPatterns(ctx context.Context, db *sql.DB, patterns []string) (string, error) {
	const q = `SELECT name FROM sqlite_master WHERE type = 'table' AND lower(name) LIKE ? LIMIT 1`
	return findByPatterns(ctx, db, q, patterns)
}

func (sqliteResolver) TableColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", sqliteResolver{}.QuoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, Column{Name: name, DataType: ctype})
	}
	return cols, rows.Err()
}

func (sqliteResolver) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteResolver) Placeholder(int) string { return "?" }

func (sqliteResolver) InsertIgnore() (string, string) { return "INSERT OR IGNORE INTO", "" }

func (sqliteResolver) PhoneSuffixExpr(column string, n int) string {
	return fmt.Sprintf("substr(%s, -%d, %d)", column, n, n)
}

func findByPatterns(ctx context.Context, db *sql.DB, query string, patterns []string) (string, error) {
	for _, pattern := range patterns {
		var name string
		err := db.QueryRowContext(ctx, query, strings.ToLower(pattern)).Scan(&name)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
	}
	return "", nil
}

func scanColumns(ctx context.Context, db *sql.DB, query, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.DataType); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
