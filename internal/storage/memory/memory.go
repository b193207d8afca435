// Package memory provides an in-process implementation of storage.Store.
// Records live in maps guarded by a mutex and are copied on the way in and
// out, so callers never share memory with the store.
//
// It backs the "memory" storage driver and the service/handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

var _ storage.Store = (*Store)(nil)

// Store holds one table per resource.
type Store struct {
	students    *studentTable
	superHeroes *table[types.SuperHero]
	employees   *table[types.Employee]
}

func New() *Store {
	return &Store{
		students: &studentTable{table: newTable(storage.StudentExample, cloneStudent,
			func(s, _ types.Student, id int64) types.Student { s.ID = id; return s })},
		superHeroes: newTable(storage.SuperHeroExample, func(h types.SuperHero) types.SuperHero { return h },
			func(h, _ types.SuperHero, id int64) types.SuperHero { h.ID = id; return h }),
		employees: newTable(storage.EmployeeExample, cloneEmployee, (&childSeq{}).assignEmployee),
	}
}

func (s *Store) Students() storage.StudentRepository              { return s.students }
func (s *Store) SuperHeroes() storage.Repository[types.SuperHero] { return s.superHeroes }
func (s *Store) Employees() storage.Repository[types.Employee]    { return s.employees }
func (s *Store) Close() error                                     { return nil }

// table is a generic repository over a map keyed by id.
type table[T types.Entity] struct {
	mu      sync.RWMutex
	rows    map[int64]T
	nextID  int64
	example func(T) []storage.Criterion[T]
	clone   func(T) T
	// assign stamps id on entity; stored is the row being replaced, zero
	// for an insert.
	assign func(entity, stored T, id int64) T
}

func newTable[T types.Entity](
	example func(T) []storage.Criterion[T],
	clone func(T) T,
	assign func(entity, stored T, id int64) T,
) *table[T] {
	return &table[T]{
		rows:    make(map[int64]T),
		example: example,
		clone:   clone,
		assign:  assign,
	}
}

// sorted returns the rows in id order, which is insertion order.
func (t *table[T]) sorted(keep func(T) bool) []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if keep(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

func (t *table[T]) FindAll(ctx context.Context) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sorted(func(T) bool { return true }), nil
}

func (t *table[T]) FindByID(ctx context.Context, id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, storage.ErrNotFound
	}
	return t.clone(row), nil
}

func (t *table[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rows[id]
	return ok, nil
}

func (t *table[T]) FindByExample(ctx context.Context, probe T) ([]T, error) {
	criteria := t.example(probe)
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sorted(func(row T) bool { return storage.MatchesAll(criteria, row) }), nil
}

func (t *table[T]) Save(ctx context.Context, entity T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.save(entity), nil
}

func (t *table[T]) save(entity T) T {
	id := entity.Identifier()
	stored, ok := t.rows[id]
	if id == 0 || !ok {
		t.nextID++
		id = t.nextID
	}
	row := t.assign(t.clone(entity), stored, id)
	t.rows[id] = row
	return t.clone(row)
}

// SaveAll holds the lock for the whole batch.
func (t *table[T]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		out = append(out, t.save(e))
	}
	return out, nil
}

func (t *table[T]) DeleteByID(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *table[T]) Delete(ctx context.Context, entity T) error {
	return t.DeleteByID(ctx, entity.Identifier())
}

func (t *table[T]) DeleteAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[int64]T)
	return nil
}

type studentTable struct {
	*table[types.Student]
}

func (t *studentTable) FindByRollNo(ctx context.Context, rollNo int) (types.Student, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	matches := t.sorted(func(s types.Student) bool { return s.RollNo == rollNo })
	if len(matches) == 0 {
		return types.Student{}, storage.ErrNotFound
	}
	return matches[0], nil
}

func cloneStudent(s types.Student) types.Student {
	if s.DateOfBirth != nil {
		dob := *s.DateOfBirth
		s.DateOfBirth = &dob
	}
	return s
}

func cloneEmployee(e types.Employee) types.Employee {
	if e.JoinedAt != nil {
		joined := *e.JoinedAt
		e.JoinedAt = &joined
	}
	if e.Skills != nil {
		e.Skills = append([]string{}, e.Skills...)
	}
	if e.Address != nil {
		a := *e.Address
		e.Address = &a
	}
	if e.PhoneNumbers != nil {
		e.PhoneNumbers = append([]types.PhoneNumber{}, e.PhoneNumbers...)
	}
	return e
}

// childSeq numbers employee children. The memory store has no separate
// child tables, so the sequence is shared by addresses and phone numbers.
type childSeq struct {
	mu   sync.Mutex
	next int64
}

func (c *childSeq) nextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return c.next
}

// assignEmployee gives the employee its id and points every child at the
// parent. A child keeps its id only if that id belongs to the stored
// employee being replaced; every other child gets a fresh one. The stored
// address id survives a replace, as in the SQL backends.
func (c *childSeq) assignEmployee(e, stored types.Employee, id int64) types.Employee {
	e.ID = id
	if e.Address != nil {
		if stored.Address != nil {
			e.Address.ID = stored.Address.ID
		} else {
			e.Address.ID = c.nextID()
		}
	}

	owned := make(map[int64]bool, len(stored.PhoneNumbers))
	for _, p := range stored.PhoneNumbers {
		owned[p.ID] = true
	}
	for i := range e.PhoneNumbers {
		pid := e.PhoneNumbers[i].ID
		if pid != 0 && owned[pid] {
			// Claimed once; a repeated id in the same payload is a new row.
			delete(owned, pid)
			continue
		}
		e.PhoneNumbers[i].ID = c.nextID()
	}
	if e.Address != nil {
		e.Address.EmployeeID = id
	}
	for i := range e.PhoneNumbers {
		e.PhoneNumbers[i].EmployeeID = id
	}
	return e
}
