// Package service holds the per-resource business policy: identity
// validation, existence checks and the CRUD contracts with their error
// kinds. One generic Service serves every resource; resource-specific
// rules are plugged in through options.
//
// Failures are returned as *apperror.Error values of a specific kind.
// Store failures that are not a domain condition are passed through
// wrapped and surface as Internal at the boundary.
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

// Service implements the CRUD contract for one resource.
type Service[T types.Entity] struct {
	name     string
	repo     storage.Repository[T]
	log      *slog.Logger
	validate func(T) error
}

type Option[T types.Entity] func(*Service[T])

// WithValidator installs a check run on every record passed to Insert,
// InsertBulk and Update, before the store is touched.
func WithValidator[T types.Entity](fn func(T) error) Option[T] {
	return func(s *Service[T]) { s.validate = fn }
}

// New builds a service; name is used in messages ("student", "employee").
func New[T types.Entity](name string, repo storage.Repository[T], log *slog.Logger, opts ...Option[T]) *Service[T] {
	s := &Service[T]{
		name:     name,
		repo:     repo,
		log:      log.With(slog.String("resource", name)),
		validate: func(T) error { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service[T]) FindAll(ctx context.Context) ([]T, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", s.name, err)
	}
	return all, nil
}

func (s *Service[T]) FindByID(ctx context.Context, id int64) (T, error) {
	e, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		var zero T
		return zero, s.notFound(id)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("find %s %d: %w", s.name, id, err)
	}
	return e, nil
}

// ExistsByID only fails when the store itself fails.
func (s *Service[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("exists %s %d: %w", s.name, id, err)
	}
	return ok, nil
}

// FindByExample returns every record matching the non-zero fields of
// probe. An empty result is not an error here.
func (s *Service[T]) FindByExample(ctx context.Context, probe T) ([]T, error) {
	found, err := s.repo.FindByExample(ctx, probe)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.name, err)
	}
	s.log.Debug("example query", slog.Int("matches", len(found)))
	return found, nil
}

// Insert rejects a record whose identifier is already stored. A zero or
// unknown identifier is replaced by a store-assigned one.
func (s *Service[T]) Insert(ctx context.Context, e T) (T, error) {
	var zero T
	if err := s.validate(e); err != nil {
		return zero, err
	}
	if id := e.Identifier(); id != 0 {
		ok, err := s.repo.ExistsByID(ctx, id)
		if err != nil {
			return zero, fmt.Errorf("insert %s: %w", s.name, err)
		}
		if ok {
			return zero, apperror.NewAlreadyExists("%s with id %d already exists", s.name, id)
		}
	}

	saved, err := s.repo.Save(ctx, e)
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", s.name, err)
	}
	s.log.Info("record inserted", slog.Int64("id", saved.Identifier()))
	return saved, nil
}

// InsertBulk persists every element without the existence check and
// returns them in input order.
func (s *Service[T]) InsertBulk(ctx context.Context, es []T) ([]T, error) {
	for _, e := range es {
		if err := s.validate(e); err != nil {
			return nil, err
		}
	}
	saved, err := s.repo.SaveAll(ctx, es)
	if err != nil {
		return nil, fmt.Errorf("bulk insert %s: %w", s.name, err)
	}
	s.log.Info("records inserted", slog.Int("count", len(saved)))
	return saved, nil
}

// Update replaces the whole record stored under id. The payload must carry
// the same identifier; a mismatch is never corrected silently.
func (s *Service[T]) Update(ctx context.Context, id int64, e T) (T, error) {
	var zero T
	payloadID := e.Identifier()
	if payloadID == 0 {
		return zero, apperror.NewInvalidRequest("%s id must not be null", s.name)
	}
	if payloadID != id {
		return zero, apperror.NewIdentifierMismatch(id, payloadID)
	}

	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("update %s %d: %w", s.name, id, err)
	}
	if !ok {
		return zero, s.notFound(id)
	}
	if err := s.validate(e); err != nil {
		return zero, err
	}

	saved, err := s.repo.Save(ctx, e)
	if err != nil {
		return zero, fmt.Errorf("update %s %d: %w", s.name, id, err)
	}
	s.log.Info("record updated", slog.Int64("id", id))
	return saved, nil
}

// DeleteByID reports whether a record was removed; an unknown id is not an
// error.
func (s *Service[T]) DeleteByID(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete %s %d: %w", s.name, id, err)
	}
	if !ok {
		return false, nil
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, fmt.Errorf("delete %s %d: %w", s.name, id, err)
	}
	s.log.Info("record deleted", slog.Int64("id", id))
	return true, nil
}

func (s *Service[T]) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all %s: %w", s.name, err)
	}
	s.log.Info("all records deleted")
	return nil
}

func (s *Service[T]) notFound(id int64) error {
	return apperror.NewNotFound("%s not found with id: %d", s.name, id)
}
