// Package employee wires the Employee aggregate into the router.
//
// Request body for POST /api/employees (the address is mandatory, phone
// numbers and skills are optional):
//
//	{
//	  "firstName": "Sita", "lastName": "Sharma", "age": 31, "experience": 7,
//	  "permanent": true, "joinedAt": "15-08-2019 09:30:00",
//	  "skills": ["go", "sql"],
//	  "address": { "street": "Lakeside", "city": "Pokhara", "state": "Gandaki", "country": "Nepal", "zipCode": "33700" },
//	  "phoneNumbers": [ { "type": "mobile", "number": "9800000000" } ]
//	}
//
// An empty search result is returned as [] rather than 404.
package employee

import (
	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/records-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/records-api/internal/mapper"
	"github.com/aanand-mishra/records-api/internal/service"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Register mounts the employee routes under /employees.
func Register(r chi.Router, svc *service.Service[types.Employee], m mapper.Mapper, errs response.Translator) {
	conv := crud.Conversions[types.EmployeeDTO, types.Employee]{
		ToEntity:   m.EmployeeToEntity,
		ToDTO:      m.EmployeeToDTO,
		ToEntities: m.EmployeesToEntities,
		ToDTOs:     m.EmployeesToDTOs,
	}
	h := crud.New[types.EmployeeDTO, types.Employee]("employee", svc, conv, errs)
	r.Route("/employees", h.Routes)
}
