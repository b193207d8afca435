// Package superhero wires the SuperHero resource into the router. It uses
// the uniform CRUD routes of package crud unchanged.
package superhero

import (
	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/records-api/internal/http/handlers/crud"
	"github.com/aanand-mishra/records-api/internal/mapper"
	"github.com/aanand-mishra/records-api/internal/service"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Register mounts the super hero routes under /superheroes.
func Register(r chi.Router, svc *service.Service[types.SuperHero], m mapper.Mapper, errs response.Translator) {
	conv := crud.Conversions[types.SuperHeroDTO, types.SuperHero]{
		ToEntity:   m.SuperHeroToEntity,
		ToDTO:      m.SuperHeroToDTO,
		ToEntities: m.SuperHeroesToEntities,
		ToDTOs:     m.SuperHeroesToDTOs,
	}
	h := crud.New[types.SuperHeroDTO, types.SuperHero]("super hero", svc, conv, errs,
		crud.WithEmptySearchNotFound[types.SuperHeroDTO, types.SuperHero]())
	r.Route("/superheroes", h.Routes)
}
