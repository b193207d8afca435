package mapper

import "github.com/aanand-mishra/records-api/internal/types"

// SuperHeroToEntity never fails; the error keeps the signature uniform
// with the other resources.
func (m Mapper) SuperHeroToEntity(d types.SuperHeroDTO) (types.SuperHero, error) {
	return types.SuperHero{
		ID:         d.ID,
		Name:       d.Name,
		SuperName:  d.SuperName,
		Profession: d.Profession,
		Power:      d.Power,
		Age:        d.Age,
		CanFly:     d.CanFly,
	}, nil
}

func (m Mapper) SuperHeroToDTO(h types.SuperHero) types.SuperHeroDTO {
	return types.SuperHeroDTO{
		ID:         h.ID,
		Name:       h.Name,
		SuperName:  h.SuperName,
		Profession: h.Profession,
		Power:      h.Power,
		Age:        h.Age,
		CanFly:     h.CanFly,
	}
}

func (m Mapper) SuperHeroesToEntities(ds []types.SuperHeroDTO) ([]types.SuperHero, error) {
	return toEntities(ds, m.SuperHeroToEntity)
}

func (m Mapper) SuperHeroesToDTOs(hs []types.SuperHero) []types.SuperHeroDTO {
	return toDTOs(hs, m.SuperHeroToDTO)
}
