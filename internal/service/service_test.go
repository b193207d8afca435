package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/apperror"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/memory"
	"github.com/aanand-mishra/records-api/internal/types"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStudents(t *testing.T) *StudentService {
	t.Helper()
	return NewStudentService(memory.New().Students(), discard())
}

func binay() types.Student {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return types.Student{RollNo: 1, FirstName: "Binay", LastName: "Gurung", Marks: 300.0, DateOfBirth: &dob}
}

func TestInsertThenFindByID(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	saved, err := svc.Insert(ctx, binay())
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	got, err := svc.FindByID(ctx, saved.ID)
	require.NoError(t, err)

	want := binay()
	want.ID = saved.ID
	assert.Equal(t, want, got)
}

func TestDeleteByIDReturnsTrueOnce(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	saved, err := svc.Insert(ctx, binay())
	require.NoError(t, err)

	deleted, err := svc.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestInsertRejectsExistingID(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	saved, err := svc.Insert(ctx, binay())
	require.NoError(t, err)

	dup := binay()
	dup.ID = saved.ID
	_, err = svc.Insert(ctx, dup)
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
	assert.Equal(t, apperror.AlreadyExists, apperror.KindOf(err))
}

func TestInsertWithUnknownIDIsAccepted(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	s := binay()
	s.ID = 77
	saved, err := svc.Insert(ctx, s)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdatePreconditions(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	saved, err := svc.Insert(ctx, binay())
	require.NoError(t, err)

	tests := []struct {
		name   string
		pathID int64
		body   types.Student
		want   error
	}{
		{name: "null payload id", pathID: saved.ID, body: types.Student{FirstName: "x"}, want: apperror.ErrInvalidRequest},
		{name: "mismatched ids", pathID: 5, body: types.Student{ID: 7, FirstName: "x"}, want: apperror.ErrIdentifierMismatch},
		{name: "absent record", pathID: 999, body: types.Student{ID: 999, FirstName: "x"}, want: apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.pathID, tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Nothing above touched the stored record.
	got, err := svc.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Binay", got.FirstName)
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	saved, err := svc.Insert(ctx, binay())
	require.NoError(t, err)

	replacement := types.Student{ID: saved.ID, FirstName: "Binaya"}
	updated, err := svc.Update(ctx, saved.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, replacement, updated)

	got, err := svc.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, got)
}

func TestFindByExample(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	_, err := svc.InsertBulk(ctx, []types.Student{
		{FirstName: "Ram", LastName: "Chauhan"},
		{FirstName: "Hari", LastName: "Khanal"},
		{FirstName: "Sita", LastName: "Gurung"},
	})
	require.NoError(t, err)

	found, err := svc.FindByExample(ctx, types.Student{LastName: "han"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Ram", found[0].FirstName)
	assert.Equal(t, "Hari", found[1].FirstName)

	found, err = svc.FindByExample(ctx, types.Student{LastName: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestInsertBulkSkipsExistenceCheck(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	first, err := svc.Insert(ctx, binay())
	require.NoError(t, err)

	again := binay()
	again.ID = first.ID
	saved, err := svc.InsertBulk(ctx, []types.Student{again, {FirstName: "new"}})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, first.ID, saved[0].ID)
	assert.Equal(t, "new", saved[1].FirstName)
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	_, err := svc.InsertBulk(ctx, []types.Student{binay(), binay()})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAll(ctx))

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFindByRollNo(t *testing.T) {
	ctx := context.Background()
	svc := newStudents(t)

	_, err := svc.Insert(ctx, binay())
	require.NoError(t, err)

	s, err := svc.FindByRollNo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Binay", s.FirstName)

	_, err = svc.FindByRollNo(ctx, 2)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEmployeeRequiresAddress(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.New().Employees(), discard())

	_, err := svc.Insert(ctx, types.Employee{FirstName: "No", LastName: "Address"})
	assert.ErrorIs(t, err, apperror.ErrUnexpectedNull)

	_, err = svc.InsertBulk(ctx, []types.Employee{{FirstName: "No"}})
	assert.ErrorIs(t, err, apperror.ErrUnexpectedNull)

	saved, err := svc.Insert(ctx, types.Employee{FirstName: "Has", Address: &types.Address{City: "Pokhara"}})
	require.NoError(t, err)

	saved.Address = nil
	_, err = svc.Update(ctx, saved.ID, saved)
	assert.ErrorIs(t, err, apperror.ErrUnexpectedNull)
}

func TestUpdateAbsentEmployeeIsNotFoundEvenWithoutAddress(t *testing.T) {
	svc := NewEmployeeService(memory.New().Employees(), discard())

	_, err := svc.Update(context.Background(), 42, types.Employee{ID: 42, FirstName: "Ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NotErrorIs(t, err, apperror.ErrUnexpectedNull)
}

// failingRepo fails every call with a store error.
type failingRepo struct {
	storage.Repository[types.SuperHero]
}

var errDisk = errors.New("disk unavailable")

func (failingRepo) FindAll(context.Context) ([]types.SuperHero, error) { return nil, errDisk }
func (failingRepo) ExistsByID(context.Context, int64) (bool, error)   { return false, errDisk }
func (failingRepo) FindByID(context.Context, int64) (types.SuperHero, error) {
	return types.SuperHero{}, errDisk
}

func TestStoreFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	svc := NewSuperHeroService(failingRepo{}, discard())

	_, err := svc.FindAll(ctx)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))

	_, err = svc.FindByID(ctx, 1)
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))

	_, err = svc.DeleteByID(ctx, 1)
	assert.ErrorIs(t, err, errDisk)

	_, err = svc.Insert(ctx, types.SuperHero{ID: 3})
	assert.ErrorIs(t, err, errDisk)
}
