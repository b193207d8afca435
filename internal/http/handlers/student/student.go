// Package student wires the Student resource into the router.
//
// Besides the uniform CRUD routes (see package crud) students can be
// looked up by roll number:
//
//	GET /api/students/roll/{rollNo}
//
// Success response (200 OK):
//
//	{ "id": 1, "rollNo": 1, "firstName": "Binay", "lastName": "Gurung", "dateOfBirth": "01-01-2000", "marks": 300 }
package student

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/records-api/internal/apperror"
	"github.com/aanand-mishra/records-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/records-api/internal/mapper"
	"github.com/aanand-mishra/records-api/internal/service"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Register mounts the student routes under /students.
func Register(r chi.Router, svc *service.StudentService, m mapper.Mapper, errs response.Translator) {
	conv := crud.Conversions[types.StudentDTO, types.Student]{
		ToEntity:   m.StudentToEntity,
		ToDTO:      m.StudentToDTO,
		ToEntities: m.StudentsToEntities,
		ToDTOs:     m.StudentsToDTOs,
	}
	h := crud.New[types.StudentDTO, types.Student]("student", svc, conv, errs,
		crud.WithEmptySearchNotFound[types.StudentDTO, types.Student]())

	r.Route("/students", func(r chi.Router) {
		r.Get("/roll/{rollNo}", GetByRollNo(svc, h))
		h.Routes(r)
	})
}

// GetByRollNo handles GET /api/students/roll/{rollNo}.
func GetByRollNo(svc *service.StudentService, h *crud.Handlers[types.StudentDTO, types.Student]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "rollNo")
		slog.Info("getting a student by roll number", slog.String("rollNo", raw))

		rollNo, err := strconv.Atoi(raw)
		if err != nil {
			h.Errors().Error(w, r, apperror.NewInvalidRequest("invalid roll number: must be an integer"))
			return
		}

		s, err := svc.FindByRollNo(r.Context(), rollNo)
		if err != nil {
			h.Errors().Error(w, r, err)
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, h.ToDTO(s))
	}
}
