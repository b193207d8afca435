package types

// StudentDTO is the wire shape of a Student.
//
// Struct tags serve two purposes:
//
//  1. json:"..." : controls how the field appears when encoded to JSON.
//
//  2. validate:"...": rules checked by the go-playground/validator
//     package before the payload reaches the service.
type StudentDTO struct {
	ID          int64   `json:"id"`
	RollNo      int     `json:"rollNo"      validate:"gte=0"`
	FirstName   string  `json:"firstName"   validate:"required"`
	LastName    string  `json:"lastName"    validate:"required"`
	DateOfBirth string  `json:"dateOfBirth"`
	Marks       float64 `json:"marks"       validate:"gte=0"`
}

type SuperHeroDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"       validate:"required"`
	SuperName  string `json:"superName"  validate:"required"`
	Profession string `json:"profession"`
	Power      string `json:"power"`
	Age        int    `json:"age"        validate:"gte=0"`
	CanFly     bool   `json:"canFly"`
}

// EmployeeDTO is the wire shape of the Employee aggregate. The children do
// not carry the employee id: it is implied by nesting.
type EmployeeDTO struct {
	ID           int64            `json:"id"`
	FirstName    string           `json:"firstName"    validate:"required"`
	LastName     string           `json:"lastName"     validate:"required"`
	Age          int              `json:"age"          validate:"gte=0"`
	Experience   int              `json:"experience"   validate:"gte=0"`
	Permanent    bool             `json:"permanent"`
	JoinedAt     string           `json:"joinedAt"`
	Skills       []string         `json:"skills"`
	Address      *AddressDTO      `json:"address"      validate:"required"`
	PhoneNumbers []PhoneNumberDTO `json:"phoneNumbers" validate:"dive"`
}

type AddressDTO struct {
	ID      int64  `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"    validate:"required"`
	State   string `json:"state"`
	Country string `json:"country" validate:"required"`
	ZipCode string `json:"zipCode"`
}

type PhoneNumberDTO struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"   validate:"required"`
	Number string `json:"number" validate:"required"`
}
