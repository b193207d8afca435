// Package mapper converts between the wire representation (DTO) and the
// storage representation (entity) of every resource.
//
// Conversions are written out field by field for each type pair, so a
// renamed or retyped field breaks the build instead of silently going
// missing. The only non-trivial parts are temporal values, which travel as
// fixed-pattern strings, and the employee aggregate, whose children get
// their foreign key set on the way in.
package mapper

import (
	"time"

	"github.com/aanand-mishra/records-api/internal/apperror"
)

// Go reference-time layouts of the wire patterns.
const (
	DateLayout     = "02-01-2006"
	DateTimeLayout = "02-01-2006 15:04:05"

	// Human-readable forms used in error messages.
	DatePattern     = "dd-MM-yyyy"
	DateTimePattern = "dd-MM-yyyy HH:mm:ss"
)

// Layouts is the immutable temporal configuration of a Mapper.
type Layouts struct {
	Date            string
	DatePattern     string
	DateTime        string
	DateTimePattern string
}

// DefaultLayouts returns the fixed wire patterns.
func DefaultLayouts() Layouts {
	return Layouts{
		Date:            DateLayout,
		DatePattern:     DatePattern,
		DateTime:        DateTimeLayout,
		DateTimePattern: DateTimePattern,
	}
}

// Mapper is safe for concurrent use; it holds no mutable state.
type Mapper struct {
	layouts Layouts
}

func New(layouts Layouts) Mapper {
	return Mapper{layouts: layouts}
}

// Layouts returns the configuration the mapper was built with.
func (m Mapper) Layouts() Layouts { return m.layouts }

func (m Mapper) parseDate(field, value string) (*time.Time, error) {
	return parse(field, value, m.layouts.Date, m.layouts.DatePattern)
}

func (m Mapper) parseDateTime(field, value string) (*time.Time, error) {
	return parse(field, value, m.layouts.DateTime, m.layouts.DateTimePattern)
}

func (m Mapper) formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(m.layouts.Date)
}

func (m Mapper) formatDateTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(m.layouts.DateTime)
}

// parse maps "" to nil and anything else through the layout.
func parse(field, value, layout, pattern string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return nil, apperror.NewMalformedDate(field, value, pattern, err)
	}
	return &t, nil
}

// toEntities applies conv to every element; the first failure aborts the
// whole batch.
func toEntities[D, E any](dtos []D, conv func(D) (E, error)) ([]E, error) {
	out := make([]E, 0, len(dtos))
	for _, d := range dtos {
		e, err := conv(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toDTOs[E, D any](entities []E, conv func(E) D) []D {
	out := make([]D, 0, len(entities))
	for _, e := range entities {
		out = append(out, conv(e))
	}
	return out
}
