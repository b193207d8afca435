package mapper

import "github.com/aanand-mishra/records-api/internal/types"

func (m Mapper) StudentToEntity(d types.StudentDTO) (types.Student, error) {
	dob, err := m.parseDate("dateOfBirth", d.DateOfBirth)
	if err != nil {
		return types.Student{}, err
	}
	return types.Student{
		ID:          d.ID,
		RollNo:      d.RollNo,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		DateOfBirth: dob,
		Marks:       d.Marks,
	}, nil
}

func (m Mapper) StudentToDTO(s types.Student) types.StudentDTO {
	return types.StudentDTO{
		ID:          s.ID,
		RollNo:      s.RollNo,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		DateOfBirth: m.formatDate(s.DateOfBirth),
		Marks:       s.Marks,
	}
}

func (m Mapper) StudentsToEntities(ds []types.StudentDTO) ([]types.Student, error) {
	return toEntities(ds, m.StudentToEntity)
}

func (m Mapper) StudentsToDTOs(ss []types.Student) []types.StudentDTO {
	return toDTOs(ss, m.StudentToDTO)
}
