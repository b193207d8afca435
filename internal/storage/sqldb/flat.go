package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

// flatTable describes a single-table resource. columns excludes id;
// values must return one value per column, in the same order.
type flatTable[T types.Entity] struct {
	name    string
	columns []string
	fields  map[string]string
	values  func(T) []any
	scan    func(scanner) (T, error)
	withID  func(T, int64) T
	example func(T) []storage.Criterion[T]
}

func (t flatTable[T]) selectSQL() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

// flatRepo implements storage.Repository for a flatTable.
type flatRepo[T types.Entity] struct {
	db *DB
	t  flatTable[T]
}

func (r *flatRepo[T]) list(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := r.db.Db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: query: %w", r.t.name, op, err)
	}
	defer rows.Close()

	// Empty (non-nil) slice so callers encode [] rather than null.
	out := make([]T, 0)
	for rows.Next() {
		e, err := r.t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: scan row: %w", r.t.name, op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s.%s: rows iteration: %w", r.t.name, op, err)
	}
	return out, nil
}

func (r *flatRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.list(ctx, "FindAll", r.t.selectSQL()+" ORDER BY id")
}

func (r *flatRepo[T]) FindByID(ctx context.Context, id int64) (T, error) {
	row := r.db.Db.QueryRowContext(ctx, r.db.rebind(r.t.selectSQL()+" WHERE id = ?"), id)
	e, err := r.t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, storage.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s.FindByID: scan: %w", r.t.name, err)
	}
	return e, nil
}

func (r *flatRepo[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, r.db.Db, r.t.name, id)
}

func exists(ctx context.Context, db *DB, q queryer, table string, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, db.rebind("SELECT 1 FROM "+table+" WHERE id = ?"), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s.ExistsByID: %w", table, err)
	}
	return true, nil
}

func (r *flatRepo[T]) FindByExample(ctx context.Context, probe T) ([]T, error) {
	where, args, err := whereClause(r.t.example(probe), r.t.fields)
	if err != nil {
		return nil, fmt.Errorf("%s.FindByExample: %w", r.t.name, err)
	}
	return r.list(ctx, "FindByExample", r.t.selectSQL()+where+" ORDER BY id", args...)
}

func (r *flatRepo[T]) Save(ctx context.Context, entity T) (T, error) {
	var saved T
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = r.save(ctx, tx, entity)
		return err
	})
	return saved, err
}

func (r *flatRepo[T]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	out := make([]T, 0, len(entities))
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entities {
			saved, err := r.save(ctx, tx, e)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// save updates the row with the entity's id when there is one and inserts
// a fresh row otherwise.
func (r *flatRepo[T]) save(ctx context.Context, tx *sql.Tx, entity T) (T, error) {
	id, err := upsertRow(ctx, r.db, tx, r.t.name, r.t.columns, r.t.values(entity), entity.Identifier())
	if err != nil {
		var zero T
		return zero, err
	}
	return r.t.withID(entity, id), nil
}

// upsertRow is shared with the employee repository.
func upsertRow(ctx context.Context, db *DB, tx *sql.Tx, table string, columns []string, values []any, id int64) (int64, error) {
	if id != 0 {
		sets := make([]string, len(columns))
		for i, c := range columns {
			sets[i] = c + " = ?"
		}
		args := append(append(make([]any, 0, len(values)+1), values...), id)
		res, err := tx.ExecContext(ctx,
			db.rebind("UPDATE "+table+" SET "+strings.Join(sets, ", ")+" WHERE id = ?"),
			args...)
		if err != nil {
			return 0, fmt.Errorf("%s.Save: update: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s.Save: rows affected: %w", table, err)
		}
		if n > 0 {
			return id, nil
		}
	}

	var newID int64
	err := tx.QueryRowContext(ctx,
		db.rebind("INSERT INTO "+table+" ("+strings.Join(columns, ", ")+") VALUES ("+placeholders(len(columns))+") RETURNING id"),
		values...).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s.Save: insert: %w", table, err)
	}
	return newID, nil
}

func (r *flatRepo[T]) DeleteByID(ctx context.Context, id int64) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.rebind("DELETE FROM "+r.t.name+" WHERE id = ?"), id); err != nil {
			return fmt.Errorf("%s.DeleteByID: exec: %w", r.t.name, err)
		}
		return nil
	})
}

func (r *flatRepo[T]) Delete(ctx context.Context, entity T) error {
	return r.DeleteByID(ctx, entity.Identifier())
}

func (r *flatRepo[T]) DeleteAll(ctx context.Context) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+r.t.name); err != nil {
			return fmt.Errorf("%s.DeleteAll: exec: %w", r.t.name, err)
		}
		return nil
	})
}

// studentRepo adds the roll-number lookup to the flat repository.
type studentRepo struct {
	*flatRepo[types.Student]
}

func (r *studentRepo) FindByRollNo(ctx context.Context, rollNo int) (types.Student, error) {
	row := r.db.Db.QueryRowContext(ctx,
		r.db.rebind(r.t.selectSQL()+" WHERE roll_no = ? ORDER BY id LIMIT 1"), rollNo)
	s, err := r.t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("students.FindByRollNo: scan: %w", err)
	}
	return s, nil
}

var studentTable = flatTable[types.Student]{
	name:    "students",
	columns: []string{"roll_no", "first_name", "last_name", "date_of_birth", "marks"},
	fields: map[string]string{
		"id":          "id",
		"rollNo":      "roll_no",
		"firstName":   "first_name",
		"lastName":    "last_name",
		"dateOfBirth": "date_of_birth",
		"marks":       "marks",
	},
	values: func(s types.Student) []any {
		return []any{s.RollNo, s.FirstName, s.LastName, encodeTime(s.DateOfBirth, dateColumnLayout), s.Marks}
	},
	scan: func(sc scanner) (types.Student, error) {
		var s types.Student
		var dob sql.NullString
		if err := sc.Scan(&s.ID, &s.RollNo, &s.FirstName, &s.LastName, &dob, &s.Marks); err != nil {
			return types.Student{}, err
		}
		t, err := decodeTime(dob, dateColumnLayout)
		if err != nil {
			return types.Student{}, err
		}
		s.DateOfBirth = t
		return s, nil
	},
	withID:  func(s types.Student, id int64) types.Student { s.ID = id; return s },
	example: storage.StudentExample,
}

var superHeroTable = flatTable[types.SuperHero]{
	name:    "super_heroes",
	columns: []string{"name", "super_name", "profession", "power", "age", "can_fly"},
	fields: map[string]string{
		"id":         "id",
		"name":       "name",
		"superName":  "super_name",
		"profession": "profession",
		"power":      "power",
		"age":        "age",
		"canFly":     "can_fly",
	},
	values: func(h types.SuperHero) []any {
		return []any{h.Name, h.SuperName, h.Profession, h.Power, h.Age, h.CanFly}
	},
	scan: func(sc scanner) (types.SuperHero, error) {
		var h types.SuperHero
		err := sc.Scan(&h.ID, &h.Name, &h.SuperName, &h.Profession, &h.Power, &h.Age, &h.CanFly)
		return h, err
	},
	withID:  func(h types.SuperHero, id int64) types.SuperHero { h.ID = id; return h },
	example: storage.SuperHeroExample,
}
