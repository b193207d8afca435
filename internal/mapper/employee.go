package mapper

import "github.com/aanand-mishra/records-api/internal/types"

// EmployeeToEntity builds the aggregate and then points every child at it
// through EmployeeID. A fresh employee has ID 0 here; the store rewrites
// the foreign keys once the parent row has its id.
func (m Mapper) EmployeeToEntity(d types.EmployeeDTO) (types.Employee, error) {
	joined, err := m.parseDateTime("joinedAt", d.JoinedAt)
	if err != nil {
		return types.Employee{}, err
	}

	e := types.Employee{
		ID:         d.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Age:        d.Age,
		Experience: d.Experience,
		Permanent:  d.Permanent,
		JoinedAt:   joined,
	}
	if d.Skills != nil {
		e.Skills = make([]string, len(d.Skills))
		copy(e.Skills, d.Skills)
	}
	if d.Address != nil {
		e.Address = &types.Address{
			ID:      d.Address.ID,
			Street:  d.Address.Street,
			City:    d.Address.City,
			State:   d.Address.State,
			Country: d.Address.Country,
			ZipCode: d.Address.ZipCode,
		}
	}
	if d.PhoneNumbers != nil {
		e.PhoneNumbers = make([]types.PhoneNumber, 0, len(d.PhoneNumbers))
		for _, p := range d.PhoneNumbers {
			e.PhoneNumbers = append(e.PhoneNumbers, types.PhoneNumber{
				ID:     p.ID,
				Type:   p.Type,
				Number: p.Number,
			})
		}
	}

	LinkChildren(&e)
	return e, nil
}

// LinkChildren sets the back-reference of every child to e.ID.
func LinkChildren(e *types.Employee) {
	if e.Address != nil {
		e.Address.EmployeeID = e.ID
	}
	for i := range e.PhoneNumbers {
		e.PhoneNumbers[i].EmployeeID = e.ID
	}
}

// EmployeeToDTO does not emit the back-reference.
func (m Mapper) EmployeeToDTO(e types.Employee) types.EmployeeDTO {
	d := types.EmployeeDTO{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Age:        e.Age,
		Experience: e.Experience,
		Permanent:  e.Permanent,
		JoinedAt:   m.formatDateTime(e.JoinedAt),
	}
	if e.Skills != nil {
		d.Skills = make([]string, len(e.Skills))
		copy(d.Skills, e.Skills)
	}
	if e.Address != nil {
		d.Address = &types.AddressDTO{
			ID:      e.Address.ID,
			Street:  e.Address.Street,
			City:    e.Address.City,
			State:   e.Address.State,
			Country: e.Address.Country,
			ZipCode: e.Address.ZipCode,
		}
	}
	if e.PhoneNumbers != nil {
		d.PhoneNumbers = make([]types.PhoneNumberDTO, 0, len(e.PhoneNumbers))
		for _, p := range e.PhoneNumbers {
			d.PhoneNumbers = append(d.PhoneNumbers, types.PhoneNumberDTO{
				ID:     p.ID,
				Type:   p.Type,
				Number: p.Number,
			})
		}
	}
	return d
}

func (m Mapper) EmployeesToEntities(ds []types.EmployeeDTO) ([]types.Employee, error) {
	return toEntities(ds, m.EmployeeToEntity)
}

func (m Mapper) EmployeesToDTOs(es []types.Employee) []types.EmployeeDTO {
	return toDTOs(es, m.EmployeeToDTO)
}
