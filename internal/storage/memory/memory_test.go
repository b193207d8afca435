package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

func TestSaveAssignsIDsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := New().SuperHeroes()

	saved, err := repo.SaveAll(ctx, []types.SuperHero{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved[0].ID)
	assert.Equal(t, int64(2), saved[1].ID)

	// Unknown ids are not honoured.
	third, err := repo.Save(ctx, types.SuperHero{ID: 99, Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveWithKnownIDReplaces(t *testing.T) {
	ctx := context.Background()
	repo := New().SuperHeroes()

	h, err := repo.Save(ctx, types.SuperHero{Name: "old", Age: 10})
	require.NoError(t, err)

	_, err = repo.Save(ctx, types.SuperHero{ID: h.ID, Name: "new"})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SuperHero{ID: h.ID, Name: "new"}, got)
}

func TestFindByIDMissing(t *testing.T) {
	_, err := New().Students().FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEmployeeChildrenAreLinked(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()

	e, err := repo.Save(ctx, types.Employee{
		FirstName:    "Sita",
		Address:      &types.Address{City: "Pokhara"},
		PhoneNumbers: []types.PhoneNumber{{Type: "mobile", Number: "1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, e.ID, e.Address.EmployeeID)
	assert.NotZero(t, e.Address.ID)
	assert.Equal(t, e.ID, e.PhoneNumbers[0].EmployeeID)
	assert.NotZero(t, e.PhoneNumbers[0].ID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()

	e, err := repo.Save(ctx, types.Employee{Skills: []string{"go"}, Address: &types.Address{City: "x"}})
	require.NoError(t, err)
	e.Skills[0] = "mutated"
	e.Address.City = "mutated"

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Skills)
	assert.Equal(t, "x", got.Address.City)
}

func TestFindByRollNo(t *testing.T) {
	ctx := context.Background()
	repo := New().Students()

	_, err := repo.SaveAll(ctx, []types.Student{{RollNo: 7, FirstName: "first"}, {RollNo: 7, FirstName: "second"}})
	require.NoError(t, err)

	s, err := repo.FindByRollNo(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "first", s.FirstName)

	_, err = repo.FindByRollNo(ctx, 8)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClientChildIDsAreNotHonoured(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()

	a, err := repo.Save(ctx, types.Employee{
		FirstName:    "A",
		Address:      &types.Address{ID: 40, City: "x"},
		PhoneNumbers: []types.PhoneNumber{{ID: 3, Number: "1"}},
	})
	require.NoError(t, err)
	b, err := repo.Save(ctx, types.Employee{
		FirstName:    "B",
		Address:      &types.Address{City: "y"},
		PhoneNumbers: []types.PhoneNumber{{Number: "2"}, {Number: "3"}},
	})
	require.NoError(t, err)

	assert.NotEqual(t, int64(40), a.Address.ID)
	assert.NotEqual(t, int64(3), a.PhoneNumbers[0].ID)

	ids := map[int64]bool{a.Address.ID: true, b.Address.ID: true}
	for _, p := range append(a.PhoneNumbers, b.PhoneNumbers...) {
		assert.False(t, ids[p.ID], "child id %d assigned twice", p.ID)
		ids[p.ID] = true
	}
}

func TestReplaceKeepsOwnedChildIDs(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()

	a, err := repo.Save(ctx, types.Employee{
		FirstName:    "A",
		Address:      &types.Address{City: "x"},
		PhoneNumbers: []types.PhoneNumber{{Number: "1"}, {Number: "2"}},
	})
	require.NoError(t, err)
	b, err := repo.Save(ctx, types.Employee{
		FirstName:    "B",
		Address:      &types.Address{City: "y"},
		PhoneNumbers: []types.PhoneNumber{{Number: "3"}},
	})
	require.NoError(t, err)

	// Keep A's first phone, try to take over B's phone, and repeat A's id.
	replacement := a
	replacement.Address = &types.Address{City: "z"}
	replacement.PhoneNumbers = []types.PhoneNumber{
		a.PhoneNumbers[0],
		{ID: b.PhoneNumbers[0].ID, Number: "stolen"},
		{ID: a.PhoneNumbers[0].ID, Number: "again"},
	}
	saved, err := repo.Save(ctx, replacement)
	require.NoError(t, err)

	assert.Equal(t, a.Address.ID, saved.Address.ID)
	require.Len(t, saved.PhoneNumbers, 3)
	assert.Equal(t, a.PhoneNumbers[0].ID, saved.PhoneNumbers[0].ID)
	assert.NotEqual(t, b.PhoneNumbers[0].ID, saved.PhoneNumbers[1].ID)
	assert.NotEqual(t, a.PhoneNumbers[0].ID, saved.PhoneNumbers[2].ID)
	for _, p := range saved.PhoneNumbers {
		assert.Equal(t, a.ID, p.EmployeeID)
	}
}
