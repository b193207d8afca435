package storage

import (
	"strings"
	"time"

	"github.com/aanand-mishra/records-api/internal/types"
)

// Match says how a criterion compares a stored value with the probe value.
type Match int

const (
	// Contains is a case-insensitive substring test; strings only.
	Contains Match = iota
	// Equal is plain equality.
	Equal
)

// Temporal tells backends how a time.Time value is stored.
type Temporal int

const (
	NotTemporal Temporal = iota
	Date
	DateTime
)

// Criterion is one predicate of an example query. Field is the logical
// field name (e.g. "lastName", "address.city"); backends translate it to
// their own column naming. Get extracts the same field from a candidate so
// in-process backends can evaluate the predicate directly.
type Criterion[T any] struct {
	Field    string
	Match    Match
	Temporal Temporal
	Value    any
	Get      func(T) any
}

// Matches evaluates the criterion against candidate.
func (c Criterion[T]) Matches(candidate T) bool {
	got := c.Get(candidate)
	if got == nil {
		return false
	}
	switch c.Match {
	case Contains:
		s, ok := got.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(c.Value.(string)))
	default:
		if want, ok := c.Value.(time.Time); ok {
			have, ok := got.(time.Time)
			return ok && truncate(have, c.Temporal).Equal(truncate(want, c.Temporal))
		}
		return got == c.Value
	}
}

// MatchesAll reports whether candidate satisfies every criterion. An empty
// list matches everything.
func MatchesAll[T any](criteria []Criterion[T], candidate T) bool {
	for _, c := range criteria {
		if !c.Matches(candidate) {
			return false
		}
	}
	return true
}

func truncate(t time.Time, kind Temporal) time.Time {
	t = t.UTC()
	switch kind {
	case Date:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case DateTime:
		return t.Truncate(time.Second)
	default:
		return t
	}
}

// builder accumulates criteria, skipping zero values: an example cannot
// tell an explicit zero from an unset field.
type builder[T any] struct {
	criteria []Criterion[T]
}

func (b *builder[T]) text(field, value string, get func(T) any) {
	if value == "" {
		return
	}
	b.criteria = append(b.criteria, Criterion[T]{Field: field, Match: Contains, Value: value, Get: get})
}

func (b *builder[T]) equal(field string, value any, zero bool, get func(T) any) {
	if zero {
		return
	}
	b.criteria = append(b.criteria, Criterion[T]{Field: field, Match: Equal, Value: value, Get: get})
}

func (b *builder[T]) temporal(field string, value *time.Time, kind Temporal, get func(T) any) {
	if value == nil {
		return
	}
	b.criteria = append(b.criteria, Criterion[T]{Field: field, Match: Equal, Temporal: kind, Value: *value, Get: get})
}

// StudentExample turns a probe student into criteria.
func StudentExample(p types.Student) []Criterion[types.Student] {
	var b builder[types.Student]
	b.equal("id", p.ID, p.ID == 0, func(s types.Student) any { return s.ID })
	b.equal("rollNo", p.RollNo, p.RollNo == 0, func(s types.Student) any { return s.RollNo })
	b.text("firstName", p.FirstName, func(s types.Student) any { return s.FirstName })
	b.text("lastName", p.LastName, func(s types.Student) any { return s.LastName })
	b.temporal("dateOfBirth", p.DateOfBirth, Date, func(s types.Student) any {
		if s.DateOfBirth == nil {
			return nil
		}
		return *s.DateOfBirth
	})
	b.equal("marks", p.Marks, p.Marks == 0, func(s types.Student) any { return s.Marks })
	return b.criteria
}

func SuperHeroExample(p types.SuperHero) []Criterion[types.SuperHero] {
	var b builder[types.SuperHero]
	b.equal("id", p.ID, p.ID == 0, func(h types.SuperHero) any { return h.ID })
	b.text("name", p.Name, func(h types.SuperHero) any { return h.Name })
	b.text("superName", p.SuperName, func(h types.SuperHero) any { return h.SuperName })
	b.text("profession", p.Profession, func(h types.SuperHero) any { return h.Profession })
	b.text("power", p.Power, func(h types.SuperHero) any { return h.Power })
	b.equal("age", p.Age, p.Age == 0, func(h types.SuperHero) any { return h.Age })
	b.equal("canFly", p.CanFly, !p.CanFly, func(h types.SuperHero) any { return h.CanFly })
	return b.criteria
}

// EmployeeExample matches on the employee's own fields and on its address.
// Skills and phone numbers never take part.
func EmployeeExample(p types.Employee) []Criterion[types.Employee] {
	var b builder[types.Employee]
	b.equal("id", p.ID, p.ID == 0, func(e types.Employee) any { return e.ID })
	b.text("firstName", p.FirstName, func(e types.Employee) any { return e.FirstName })
	b.text("lastName", p.LastName, func(e types.Employee) any { return e.LastName })
	b.equal("age", p.Age, p.Age == 0, func(e types.Employee) any { return e.Age })
	b.equal("experience", p.Experience, p.Experience == 0, func(e types.Employee) any { return e.Experience })
	b.equal("permanent", p.Permanent, !p.Permanent, func(e types.Employee) any { return e.Permanent })
	b.temporal("joinedAt", p.JoinedAt, DateTime, func(e types.Employee) any {
		if e.JoinedAt == nil {
			return nil
		}
		return *e.JoinedAt
	})

	if a := p.Address; a != nil {
		addr := func(get func(*types.Address) string) func(types.Employee) any {
			return func(e types.Employee) any {
				if e.Address == nil {
					return nil
				}
				return get(e.Address)
			}
		}
		b.text("address.street", a.Street, addr(func(a *types.Address) string { return a.Street }))
		b.text("address.city", a.City, addr(func(a *types.Address) string { return a.City }))
		b.text("address.state", a.State, addr(func(a *types.Address) string { return a.State }))
		b.text("address.country", a.Country, addr(func(a *types.Address) string { return a.Country }))
		b.text("address.zipCode", a.ZipCode, addr(func(a *types.Address) string { return a.ZipCode }))
	}
	return b.criteria
}
