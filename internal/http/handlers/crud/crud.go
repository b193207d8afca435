// Package crud contains the HTTP handlers shared by every resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each method of Handlers is a factory: it runs ONCE when the route is
// registered and returns the http.HandlerFunc that runs on EVERY request.
// The returned closure captures the service, the DTO conversions and the
// error translator.
//
// A handler only decodes, validates the payload shape, converts with the
// mapper and calls the service. All domain failures are returned by the
// service as apperror values and written by response.Translator.
package crud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/records-api/internal/apperror"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Service is the part of service.Service the handlers use.
type Service[T types.Entity] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByExample(ctx context.Context, probe T) ([]T, error)
	Insert(ctx context.Context, e T) (T, error)
	InsertBulk(ctx context.Context, es []T) ([]T, error)
	Update(ctx context.Context, id int64, e T) (T, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

// Conversions are the mapper functions of one resource.
type Conversions[D any, T types.Entity] struct {
	ToEntity   func(D) (T, error)
	ToDTO      func(T) D
	ToEntities func([]D) ([]T, error)
	ToDTOs     func([]T) []D
}

// Handlers serves one resource. D is the wire type, T the entity.
type Handlers[D any, T types.Entity] struct {
	name     string
	svc      Service[T]
	conv     Conversions[D, T]
	errs     response.Translator
	validate *validator.Validate

	emptySearchNotFound bool
}

type Option[D any, T types.Entity] func(*Handlers[D, T])

// WithEmptySearchNotFound makes an empty search result a 404.
func WithEmptySearchNotFound[D any, T types.Entity]() Option[D, T] {
	return func(h *Handlers[D, T]) { h.emptySearchNotFound = true }
}

func New[D any, T types.Entity](
	name string,
	svc Service[T],
	conv Conversions[D, T],
	errs response.Translator,
	opts ...Option[D, T],
) *Handlers[D, T] {
	h := &Handlers[D, T]{
		name:     name,
		svc:      svc,
		conv:     conv,
		errs:     errs,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the uniform route table on r:
//
//	GET    /          → list all
//	POST   /          → create one
//	DELETE /          → delete all
//	POST   /bulk      → create many
//	POST   /search    → example-based query
//	GET    /{id}      → get one
//	HEAD   /{id}      → existence probe
//	PUT    /{id}      → full replace
//	DELETE /{id}      → delete one
func (h *Handlers[D, T]) Routes(r chi.Router) {
	r.Get("/", h.List())
	r.Post("/", h.Create())
	r.Delete("/", h.DeleteAll())
	r.Post("/bulk", h.CreateBulk())
	r.Post("/search", h.Search())
	r.Get("/{id}", h.Get())
	r.Head("/{id}", h.Exists())
	r.Put("/{id}", h.Update())
	r.Delete("/{id}", h.Delete())
}

// Errors returns the translator, for resource-specific handlers.
func (h *Handlers[D, T]) Errors() response.Translator { return h.errs }

// ToDTO converts one record for output.
func (h *Handlers[D, T]) ToDTO(e T) D { return h.conv.ToDTO(e) }

func (h *Handlers[D, T]) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing records", slog.String("resource", h.name))

		all, err := h.svc.FindAll(r.Context())
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, h.conv.ToDTOs(all))
	}
}

func (h *Handlers[D, T]) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		slog.Info("getting a record", slog.String("resource", h.name), slog.Int64("id", id))

		e, err := h.svc.FindByID(r.Context(), id)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, h.conv.ToDTO(e))
	}
}

// Exists answers HEAD with 200 or 404 and no body.
func (h *Handlers[D, T]) Exists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			w.WriteHeader(h.errs.StatusCode(apperror.KindOf(err)))
			return
		}
		ok, err := h.svc.ExistsByID(r.Context(), id)
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
		case ok:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (h *Handlers[D, T]) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a record", slog.String("resource", h.name))

		d, err := h.decodeValid(r)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		e, err := h.conv.ToEntity(d)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		saved, err := h.svc.Insert(r.Context(), e)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		_ = response.WriteJSON(w, http.StatusCreated, h.conv.ToDTO(saved))
	}
}

func (h *Handlers[D, T]) CreateBulk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ds []D
		if err := decode(r, &ds); err != nil {
			h.errs.Error(w, r, err)
			return
		}
		slog.Info("creating records", slog.String("resource", h.name), slog.Int("count", len(ds)))

		for _, d := range ds {
			if err := h.check(d); err != nil {
				h.errs.Error(w, r, err)
				return
			}
		}
		es, err := h.conv.ToEntities(ds)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		saved, err := h.svc.InsertBulk(r.Context(), es)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		_ = response.WriteJSON(w, http.StatusCreated, h.conv.ToDTOs(saved))
	}
}

func (h *Handlers[D, T]) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		slog.Info("updating a record", slog.String("resource", h.name), slog.Int64("id", id))

		d, err := h.decodeValid(r)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		e, err := h.conv.ToEntity(d)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		updated, err := h.svc.Update(r.Context(), id, e)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, h.conv.ToDTO(updated))
	}
}

func (h *Handlers[D, T]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		slog.Info("deleting a record", slog.String("resource", h.name), slog.Int64("id", id))

		deleted, err := h.svc.DeleteByID(r.Context(), id)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		if !deleted {
			h.errs.Error(w, r, apperror.NewNotFound("%s not found with id: %d", h.name, id))
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func (h *Handlers[D, T]) DeleteAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("deleting all records", slog.String("resource", h.name))

		if err := h.svc.DeleteAll(r.Context()); err != nil {
			h.errs.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Search decodes a partial record and returns every match. The probe is
// not validated: unset fields are the point.
func (h *Handlers[D, T]) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d D
		if err := decode(r, &d); err != nil {
			h.errs.Error(w, r, err)
			return
		}
		probe, err := h.conv.ToEntity(d)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		found, err := h.svc.FindByExample(r.Context(), probe)
		if err != nil {
			h.errs.Error(w, r, err)
			return
		}
		if len(found) == 0 && h.emptySearchNotFound {
			h.errs.Error(w, r, apperror.NewNotFound("no %s matches the given example", h.name))
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, h.conv.ToDTOs(found))
	}
}

func (h *Handlers[D, T]) decodeValid(r *http.Request) (D, error) {
	var d D
	if err := decode(r, &d); err != nil {
		return d, err
	}
	return d, h.check(d)
}

// check runs the validate:"..." tags of d.
func (h *Handlers[D, T]) check(d D) error {
	err := h.validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.NewInvalidRequest("%s", response.ValidationError(verrs))
	}
	return apperror.NewInvalidRequest("%s", err.Error())
}

// decode reads the JSON body into v.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty.
		return apperror.NewInvalidRequest("request body is empty")
	}
	if err != nil {
		return apperror.NewInvalidRequest("malformed request body: %s", err.Error())
	}
	return nil
}

// PathID parses the named path parameter as an identifier.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperror.NewInvalidRequest("invalid %s: must be an integer", name)
	}
	return id, nil
}
