// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// mapper, storage, service and handlers can all import types without
// depending on each other.
//
// Two shapes exist for every resource:
//
//   - the ENTITY (this file): the storage representation, with typed
//     temporal values and foreign-key back-references;
//   - the DTO (dto.go): the wire representation, with temporal values as
//     fixed-pattern strings and no back-references.
//
// An identifier of 0 means "not assigned yet".
package types

import "time"

// Entity is satisfied by every storage-side record. The generic service is
// parameterised over it.
type Entity interface {
	Identifier() int64
}

// Student is a flat record with a secondary lookup key (RollNo).
type Student struct {
	ID          int64
	RollNo      int
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Marks       float64
}

func (s Student) Identifier() int64 { return s.ID }

// SuperHero is a flat record without relationships.
type SuperHero struct {
	ID         int64
	Name       string
	SuperName  string
	Profession string
	Power      string
	Age        int
	CanFly     bool
}

func (h SuperHero) Identifier() int64 { return h.ID }

// Employee is the aggregate root. It owns exactly one Address and any
// number of PhoneNumbers; their lifetime is bound to the employee.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Age          int
	Experience   int
	Permanent    bool
	JoinedAt     *time.Time
	Skills       []string
	Address      *Address
	PhoneNumbers []PhoneNumber
}

func (e Employee) Identifier() int64 { return e.ID }

// Address is the one-to-one child of Employee.
//
// EmployeeID is the back-reference: a plain foreign key used only to
// populate the owning row's id, never a pointer to the parent.
type Address struct {
	ID         int64
	EmployeeID int64
	Street     string
	City       string
	State      string
	Country    string
	ZipCode    string
}

// PhoneNumber is a one-to-many child of Employee.
type PhoneNumber struct {
	ID         int64
	EmployeeID int64
	Type       string
	Number     string
}
