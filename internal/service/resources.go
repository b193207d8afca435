package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/records-api/internal/apperror"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

// StudentService adds the roll-number lookup.
type StudentService struct {
	*Service[types.Student]
	students storage.StudentRepository
}

func NewStudentService(repo storage.StudentRepository, log *slog.Logger) *StudentService {
	return &StudentService{
		Service:  New[types.Student]("student", repo, log),
		students: repo,
	}
}

func (s *StudentService) FindByRollNo(ctx context.Context, rollNo int) (types.Student, error) {
	st, err := s.students.FindByRollNo(ctx, rollNo)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Student{}, apperror.NewNotFound("student not found with roll number: %d", rollNo)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("find student by roll number %d: %w", rollNo, err)
	}
	return st, nil
}

func NewSuperHeroService(repo storage.Repository[types.SuperHero], log *slog.Logger) *Service[types.SuperHero] {
	return New[types.SuperHero]("super hero", repo, log)
}

// NewEmployeeService requires every employee to own an address.
func NewEmployeeService(repo storage.Repository[types.Employee], log *slog.Logger) *Service[types.Employee] {
	return New("employee", repo, log, WithValidator(requireAddress))
}

func requireAddress(e types.Employee) error {
	if e.Address == nil {
		return apperror.NewUnexpectedNull("employee address must not be null")
	}
	return nil
}
