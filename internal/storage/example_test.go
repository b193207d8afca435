package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/records-api/internal/types"
)

func TestStudentExampleSkipsZeroFields(t *testing.T) {
	assert.Empty(t, StudentExample(types.Student{}))

	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	criteria := StudentExample(types.Student{LastName: "han", DateOfBirth: &dob})

	var fields []string
	for _, c := range criteria {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{"lastName", "dateOfBirth"}, fields)
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	criteria := StudentExample(types.Student{LastName: "HAN"})

	assert.True(t, MatchesAll(criteria, types.Student{LastName: "Chauhan"}))
	assert.True(t, MatchesAll(criteria, types.Student{LastName: "Khanal"}))
	assert.False(t, MatchesAll(criteria, types.Student{LastName: "Gurung"}))
}

func TestEqualityOnNonStringFields(t *testing.T) {
	criteria := SuperHeroExample(types.SuperHero{Age: 30, CanFly: true})

	assert.True(t, MatchesAll(criteria, types.SuperHero{Age: 30, CanFly: true, Name: "x"}))
	assert.False(t, MatchesAll(criteria, types.SuperHero{Age: 31, CanFly: true}))
	assert.False(t, MatchesAll(criteria, types.SuperHero{Age: 30, CanFly: false}))
}

func TestFalseBooleanIsUnset(t *testing.T) {
	criteria := SuperHeroExample(types.SuperHero{CanFly: false})

	assert.Empty(t, criteria)
	assert.True(t, MatchesAll(criteria, types.SuperHero{CanFly: true}))
}

func TestDateEquality(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	other := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	criteria := StudentExample(types.Student{DateOfBirth: &dob})

	assert.True(t, MatchesAll(criteria, types.Student{DateOfBirth: &dob}))
	assert.False(t, MatchesAll(criteria, types.Student{DateOfBirth: &other}))
	assert.False(t, MatchesAll(criteria, types.Student{}))
}

func TestEmployeeExampleMatchesAddress(t *testing.T) {
	criteria := EmployeeExample(types.Employee{Address: &types.Address{City: "pokh"}})

	assert.True(t, MatchesAll(criteria, types.Employee{Address: &types.Address{City: "Pokhara"}}))
	assert.False(t, MatchesAll(criteria, types.Employee{Address: &types.Address{City: "Kathmandu"}}))
	assert.False(t, MatchesAll(criteria, types.Employee{}))
}

func TestEmployeeExampleIgnoresChildrenCollections(t *testing.T) {
	criteria := EmployeeExample(types.Employee{
		Skills:       []string{"go"},
		PhoneNumbers: []types.PhoneNumber{{Number: "1"}},
	})

	assert.Empty(t, criteria)
}
