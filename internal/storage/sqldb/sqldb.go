// Package sqldb implements storage.Store on top of Go's database/sql. The
// SQL is shared by every backend; the differences (placeholder syntax and
// a handful of column types) are captured by a Dialect.
//
// The sqlite and postgres packages open a *sql.DB with their driver and
// hand it to New together with their dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

var _ storage.Store = (*DB)(nil)

// Storage layouts of temporal columns. Temporal values are kept as TEXT so
// both backends compare them the same way.
const (
	dateColumnLayout     = "2006-01-02"
	dateTimeColumnLayout = "2006-01-02 15:04:05"
)

// Dialect captures what differs between SQL backends.
type Dialect struct {
	Name string

	// Numbered placeholders ($1, $2, ...) instead of "?".
	NumberedPlaceholders bool

	// Column types substituted into the schema.
	IDColumn    string
	FloatColumn string
	BoolColumn  string
}

var SQLite = Dialect{
	Name:        "sqlite",
	IDColumn:    "INTEGER PRIMARY KEY AUTOINCREMENT",
	FloatColumn: "REAL",
	BoolColumn:  "BOOLEAN",
}

var Postgres = Dialect{
	Name:                 "postgres",
	NumberedPlaceholders: true,
	IDColumn:             "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
	FloatColumn:          "DOUBLE PRECISION",
	BoolColumn:           "BOOLEAN",
}

// schema is applied in order; children reference their parent with
// ON DELETE CASCADE.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id            {{id}},
		roll_no       INTEGER NOT NULL,
		first_name    TEXT    NOT NULL,
		last_name     TEXT    NOT NULL,
		date_of_birth TEXT,
		marks         {{float}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_roll_no ON students (roll_no)`,
	`CREATE TABLE IF NOT EXISTS super_heroes (
		id         {{id}},
		name       TEXT    NOT NULL,
		super_name TEXT    NOT NULL,
		profession TEXT    NOT NULL,
		power      TEXT    NOT NULL,
		age        INTEGER NOT NULL,
		can_fly    {{bool}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id         {{id}},
		first_name TEXT    NOT NULL,
		last_name  TEXT    NOT NULL,
		age        INTEGER NOT NULL,
		experience INTEGER NOT NULL,
		permanent  {{bool}} NOT NULL,
		joined_at  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id          {{id}},
		employee_id BIGINT NOT NULL UNIQUE REFERENCES employees (id) ON DELETE CASCADE,
		street      TEXT   NOT NULL,
		city        TEXT   NOT NULL,
		state       TEXT   NOT NULL,
		country     TEXT   NOT NULL,
		zip_code    TEXT   NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS phone_numbers (
		id          {{id}},
		employee_id BIGINT NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		type        TEXT   NOT NULL,
		number      TEXT   NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_phone_numbers_employee ON phone_numbers (employee_id)`,
	`CREATE TABLE IF NOT EXISTS employee_skills (
		employee_id BIGINT  NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		skill       TEXT    NOT NULL,
		PRIMARY KEY (employee_id, position)
	)`,
}

// DB is the database/sql implementation of storage.Store.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type DB struct {
	Db      *sql.DB
	dialect Dialect

	students    *studentRepo
	superHeroes *flatRepo[types.SuperHero]
	employees   *employeeRepo
}

// New wraps db, applies the schema and returns a ready-to-use store.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*DB, error) {
	d := &DB{Db: db, dialect: dialect}
	if err := d.Migrate(ctx); err != nil {
		return nil, err
	}
	d.students = &studentRepo{flatRepo: &flatRepo[types.Student]{db: d, t: studentTable}}
	d.superHeroes = &flatRepo[types.SuperHero]{db: d, t: superHeroTable}
	d.employees = &employeeRepo{db: d}
	return d, nil
}

// Migrate creates every table and index that does not exist yet. It is
// idempotent, safe to run on every startup.
func (d *DB) Migrate(ctx context.Context) error {
	r := strings.NewReplacer(
		"{{id}}", d.dialect.IDColumn,
		"{{float}}", d.dialect.FloatColumn,
		"{{bool}}", d.dialect.BoolColumn,
	)
	for _, stmt := range schema {
		if _, err := d.Db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return fmt.Errorf("sqldb.Migrate: %w", err)
		}
	}
	return nil
}

func (d *DB) Students() storage.StudentRepository              { return d.students }
func (d *DB) SuperHeroes() storage.Repository[types.SuperHero] { return d.superHeroes }
func (d *DB) Employees() storage.Repository[types.Employee]    { return d.employees }

func (d *DB) Close() error { return d.Db.Close() }

// Dialect returns the dialect the store was opened with.
func (d *DB) Dialect() Dialect { return d.dialect }

// rebind rewrites "?" placeholders for dialects that number them.
func (d *DB) rebind(query string) string {
	if !d.dialect.NumberedPlaceholders {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction, committing only if fn succeeds.
func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (retErr error) {
	tx, err := d.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func encodeTime(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

func decodeTime(s sql.NullString, layout string) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil, fmt.Errorf("decode time %q: %w", s.String, err)
	}
	return &t, nil
}

// whereClause renders criteria against the logical-field-to-column map.
// Contains becomes a lower-cased LIKE with the probe's wildcards escaped.
func whereClause[T any](criteria []storage.Criterion[T], columns map[string]string) (string, []any, error) {
	if len(criteria) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(criteria))
	args := make([]any, 0, len(criteria))
	for _, c := range criteria {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("no column for field %q", c.Field)
		}
		switch {
		case c.Match == storage.Contains:
			clauses = append(clauses, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(strings.ToLower(c.Value.(string)))+"%")
		case c.Temporal == storage.Date:
			t := c.Value.(time.Time)
			clauses = append(clauses, col+" = ?")
			args = append(args, encodeTime(&t, dateColumnLayout))
		case c.Temporal == storage.DateTime:
			t := c.Value.(time.Time)
			clauses = append(clauses, col+" = ?")
			args = append(args, encodeTime(&t, dateTimeColumnLayout))
		default:
			clauses = append(clauses, col+" = ?")
			args = append(args, c.Value)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
