// Package api assembles the HTTP surface: one router, three resources,
// all backed by the same store.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/records-api/internal/http/handlers/employee"
	"github.com/aanand-mishra/records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/records-api/internal/http/handlers/superhero"
	"github.com/aanand-mishra/records-api/internal/http/router"
	"github.com/aanand-mishra/records-api/internal/mapper"
	"github.com/aanand-mishra/records-api/internal/service"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Options tune the wire behaviour of the API.
type Options struct {
	// LegacyStatusCodes selects 302 for duplicates and 500 for bad requests.
	LegacyStatusCodes bool

	// Layouts overrides the wire date patterns. Zero means the defaults.
	Layouts mapper.Layouts

	// Metrics, when set, instruments every route and serves /metrics.
	Metrics *router.Metrics
}

// New returns the handler serving every route of the API:
//
//	GET  /healthz
//	GET  /metrics      (with Options.Metrics)
//	     /api/students     (+ GET /api/students/roll/{rollNo})
//	     /api/superheroes
//	     /api/employees
func New(store storage.Store, log *slog.Logger, opts Options) http.Handler {
	layouts := opts.Layouts
	if layouts == (mapper.Layouts{}) {
		layouts = mapper.DefaultLayouts()
	}
	m := mapper.New(layouts)

	errs := response.NewTranslator(opts.LegacyStatusCodes)
	errs.Layout = m.Layouts().DateTime

	students := service.NewStudentService(store.Students(), log)
	heroes := service.NewSuperHeroService(store.SuperHeroes(), log)
	employees := service.NewEmployeeService(store.Employees(), log)

	r := router.New(errs, opts.Metrics)
	r.Route("/api", func(r chi.Router) {
		student.Register(r, students, m, errs)
		superhero.Register(r, heroes, m, errs)
		employee.Register(r, employees, m, errs)
	})
	return r
}
