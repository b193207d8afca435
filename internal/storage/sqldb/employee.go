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

var employeeColumns = []string{"first_name", "last_name", "age", "experience", "permanent", "joined_at"}

// employeeFields maps example fields to columns of
// "employees e LEFT JOIN addresses a".
var employeeFields = map[string]string{
	"id":              "e.id",
	"firstName":       "e.first_name",
	"lastName":        "e.last_name",
	"age":             "e.age",
	"experience":      "e.experience",
	"permanent":       "e.permanent",
	"joinedAt":        "e.joined_at",
	"address.street":  "a.street",
	"address.city":    "a.city",
	"address.state":   "a.state",
	"address.country": "a.country",
	"address.zipCode": "a.zip_code",
}

const selectEmployees = `SELECT e.id, e.first_name, e.last_name, e.age, e.experience, e.permanent, e.joined_at
	FROM employees e LEFT JOIN addresses a ON a.employee_id = e.id`

// employeeRepo persists the Employee aggregate across four tables. Every
// write covers the whole aggregate in one transaction.
type employeeRepo struct {
	db *DB
}

func scanEmployee(sc scanner) (types.Employee, error) {
	var e types.Employee
	var joined sql.NullString
	if err := sc.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Age, &e.Experience, &e.Permanent, &joined); err != nil {
		return types.Employee{}, err
	}
	t, err := decodeTime(joined, dateTimeColumnLayout)
	if err != nil {
		return types.Employee{}, err
	}
	e.JoinedAt = t
	return e, nil
}

func (r *employeeRepo) list(ctx context.Context, op, query string, args ...any) ([]types.Employee, error) {
	rows, err := r.db.Db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("employees.%s: query: %w", op, err)
	}
	out := make([]types.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("employees.%s: scan row: %w", op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("employees.%s: rows iteration: %w", op, err)
	}
	// Release the cursor before loading children.
	rows.Close()

	for i := range out {
		if err := r.loadChildren(ctx, r.db.Db, &out[i]); err != nil {
			return nil, fmt.Errorf("employees.%s: %w", op, err)
		}
	}
	return out, nil
}

func (r *employeeRepo) FindAll(ctx context.Context) ([]types.Employee, error) {
	return r.list(ctx, "FindAll", selectEmployees+" ORDER BY e.id")
}

func (r *employeeRepo) FindByID(ctx context.Context, id int64) (types.Employee, error) {
	e, err := scanEmployee(r.db.Db.QueryRowContext(ctx, r.db.rebind(selectEmployees+" WHERE e.id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Employee{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Employee{}, fmt.Errorf("employees.FindByID: scan: %w", err)
	}
	if err := r.loadChildren(ctx, r.db.Db, &e); err != nil {
		return types.Employee{}, fmt.Errorf("employees.FindByID: %w", err)
	}
	return e, nil
}

func (r *employeeRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, r.db.Db, "employees", id)
}

func (r *employeeRepo) FindByExample(ctx context.Context, probe types.Employee) ([]types.Employee, error) {
	where, args, err := whereClause(storage.EmployeeExample(probe), employeeFields)
	if err != nil {
		return nil, fmt.Errorf("employees.FindByExample: %w", err)
	}
	return r.list(ctx, "FindByExample", selectEmployees+where+" ORDER BY e.id", args...)
}

// loadChildren fills in the address, phone numbers and skills of e.
func (r *employeeRepo) loadChildren(ctx context.Context, q queryer, e *types.Employee) error {
	var a types.Address
	err := q.QueryRowContext(ctx,
		r.db.rebind("SELECT id, employee_id, street, city, state, country, zip_code FROM addresses WHERE employee_id = ?"),
		e.ID).Scan(&a.ID, &a.EmployeeID, &a.Street, &a.City, &a.State, &a.Country, &a.ZipCode)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		e.Address = nil
	case err != nil:
		return fmt.Errorf("load address: %w", err)
	default:
		e.Address = &a
	}

	rows, err := q.QueryContext(ctx,
		r.db.rebind("SELECT id, employee_id, type, number FROM phone_numbers WHERE employee_id = ? ORDER BY id"), e.ID)
	if err != nil {
		return fmt.Errorf("load phone numbers: %w", err)
	}
	e.PhoneNumbers = nil
	for rows.Next() {
		var p types.PhoneNumber
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Type, &p.Number); err != nil {
			rows.Close()
			return fmt.Errorf("scan phone number: %w", err)
		}
		e.PhoneNumbers = append(e.PhoneNumbers, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load phone numbers: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		r.db.rebind("SELECT skill FROM employee_skills WHERE employee_id = ? ORDER BY position"), e.ID)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	e.Skills = nil
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return fmt.Errorf("scan skill: %w", err)
		}
		e.Skills = append(e.Skills, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	return nil
}

func (r *employeeRepo) Save(ctx context.Context, e types.Employee) (types.Employee, error) {
	var saved types.Employee
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = r.save(ctx, tx, e)
		return err
	})
	return saved, err
}

func (r *employeeRepo) SaveAll(ctx context.Context, es []types.Employee) ([]types.Employee, error) {
	out := make([]types.Employee, 0, len(es))
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range es {
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

// save writes the parent row and then reconciles the children with it:
// the address is upserted (or removed), phone numbers missing from e are
// deleted, and skills are rewritten in order.
func (r *employeeRepo) save(ctx context.Context, tx *sql.Tx, e types.Employee) (types.Employee, error) {
	values := []any{e.FirstName, e.LastName, e.Age, e.Experience, e.Permanent, encodeTime(e.JoinedAt, dateTimeColumnLayout)}
	id, err := upsertRow(ctx, r.db, tx, "employees", employeeColumns, values, e.ID)
	if err != nil {
		return types.Employee{}, err
	}
	e.ID = id

	if e.Address, err = r.saveAddress(ctx, tx, id, e.Address); err != nil {
		return types.Employee{}, err
	}
	if e.PhoneNumbers, err = r.savePhoneNumbers(ctx, tx, id, e.PhoneNumbers); err != nil {
		return types.Employee{}, err
	}
	if err := r.saveSkills(ctx, tx, id, e.Skills); err != nil {
		return types.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepo) saveAddress(ctx context.Context, tx *sql.Tx, employeeID int64, a *types.Address) (*types.Address, error) {
	if a == nil {
		if _, err := tx.ExecContext(ctx, r.db.rebind("DELETE FROM addresses WHERE employee_id = ?"), employeeID); err != nil {
			return nil, fmt.Errorf("employees.Save: delete address: %w", err)
		}
		return nil, nil
	}

	saved := *a
	saved.EmployeeID = employeeID
	err := tx.QueryRowContext(ctx,
		r.db.rebind("UPDATE addresses SET street = ?, city = ?, state = ?, country = ?, zip_code = ? WHERE employee_id = ? RETURNING id"),
		saved.Street, saved.City, saved.State, saved.Country, saved.ZipCode, employeeID).Scan(&saved.ID)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx,
			r.db.rebind("INSERT INTO addresses (employee_id, street, city, state, country, zip_code) VALUES (?, ?, ?, ?, ?, ?) RETURNING id"),
			employeeID, saved.Street, saved.City, saved.State, saved.Country, saved.ZipCode).Scan(&saved.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("employees.Save: address: %w", err)
	}
	return &saved, nil
}

func (r *employeeRepo) savePhoneNumbers(ctx context.Context, tx *sql.Tx, employeeID int64, phones []types.PhoneNumber) ([]types.PhoneNumber, error) {
	var saved []types.PhoneNumber
	if phones != nil {
		saved = make([]types.PhoneNumber, 0, len(phones))
	}
	keep := make([]any, 0, len(phones))
	for _, p := range phones {
		p.EmployeeID = employeeID
		err := sql.ErrNoRows
		if p.ID != 0 {
			err = tx.QueryRowContext(ctx,
				r.db.rebind("UPDATE phone_numbers SET type = ?, number = ? WHERE id = ? AND employee_id = ? RETURNING id"),
				p.Type, p.Number, p.ID, employeeID).Scan(&p.ID)
		}
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowContext(ctx,
				r.db.rebind("INSERT INTO phone_numbers (employee_id, type, number) VALUES (?, ?, ?) RETURNING id"),
				employeeID, p.Type, p.Number).Scan(&p.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("employees.Save: phone number: %w", err)
		}
		keep = append(keep, p.ID)
		saved = append(saved, p)
	}

	// Orphan removal.
	query := "DELETE FROM phone_numbers WHERE employee_id = ?"
	args := append([]any{employeeID}, keep...)
	if len(keep) > 0 {
		query += " AND id NOT IN (" + placeholders(len(keep)) + ")"
	}
	if _, err := tx.ExecContext(ctx, r.db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("employees.Save: remove orphaned phone numbers: %w", err)
	}
	return saved, nil
}

func (r *employeeRepo) saveSkills(ctx context.Context, tx *sql.Tx, employeeID int64, skills []string) error {
	if _, err := tx.ExecContext(ctx, r.db.rebind("DELETE FROM employee_skills WHERE employee_id = ?"), employeeID); err != nil {
		return fmt.Errorf("employees.Save: clear skills: %w", err)
	}
	if len(skills) == 0 {
		return nil
	}
	rows := make([]string, len(skills))
	args := make([]any, 0, 3*len(skills))
	for i, s := range skills {
		rows[i] = "(?, ?, ?)"
		args = append(args, employeeID, i, s)
	}
	query := "INSERT INTO employee_skills (employee_id, position, skill) VALUES " + strings.Join(rows, ", ")
	if _, err := tx.ExecContext(ctx, r.db.rebind(query), args...); err != nil {
		return fmt.Errorf("employees.Save: insert skills: %w", err)
	}
	return nil
}

// deleteTx removes the employee and, explicitly, all of its children.
func (r *employeeRepo) deleteTx(ctx context.Context, tx *sql.Tx, where string, args ...any) error {
	for _, child := range []string{"employee_skills", "phone_numbers", "addresses"} {
		query := "DELETE FROM " + child
		if where != "" {
			query += " WHERE employee_id " + where
		}
		if _, err := tx.ExecContext(ctx, r.db.rebind(query), args...); err != nil {
			return fmt.Errorf("delete %s: %w", child, err)
		}
	}
	query := "DELETE FROM employees"
	if where != "" {
		query += " WHERE id " + where
	}
	if _, err := tx.ExecContext(ctx, r.db.rebind(query), args...); err != nil {
		return fmt.Errorf("delete employees: %w", err)
	}
	return nil
}

func (r *employeeRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.deleteTx(ctx, tx, "= ?", id); err != nil {
			return fmt.Errorf("employees.DeleteByID: %w", err)
		}
		return nil
	})
}

func (r *employeeRepo) Delete(ctx context.Context, e types.Employee) error {
	return r.DeleteByID(ctx, e.ID)
}

func (r *employeeRepo) DeleteAll(ctx context.Context) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.deleteTx(ctx, tx, ""); err != nil {
			return fmt.Errorf("employees.DeleteAll: %w", err)
		}
		return nil
	})
}
