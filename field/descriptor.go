package field

import "fmt"

// Descriptor is the persisted shape of a field inside a questionnaire
// document. It carries the variant tag plus the variant's constraint
// parameters.
type Descriptor struct {
	Kind           Kind               `json:"type"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Labels         map[string]string  `json:"label"`
	Required       bool               `json:"required"`
	EntityQuestion bool               `json:"entity_question_flag,omitempty"`
	Location       bool               `json:"location_flag,omitempty"`
	Length         *TextConstraint    `json:"length,omitempty"`
	Range          *IntegerConstraint `json:"range,omitempty"`
	Options        []Option           `json:"options,omitempty"`
	DateFormat     string             `json:"date_format,omitempty"`
}

func (f Field) Descriptor() Descriptor {
	return Descriptor{
		Kind:           f.Kind,
		Code:           f.Code,
		Name:           f.Name,
		Labels:         f.Labels,
		Required:       f.Required,
		EntityQuestion: f.EntityQuestion,
		Location:       f.Location,
		Length:         f.Length,
		Range:          f.Range,
		Options:        f.Options,
		DateFormat:     f.DateFormat,
	}
}

// FromDescriptor rebuilds a field from its persisted shape. An unknown kind
// tag is a configuration error.
func FromDescriptor(d Descriptor) (Field, error) {
	switch d.Kind {
	case Text, Integer, SelectSingle, SelectMulti, GeoCode, Date, Hierarchy:
	default:
		return Field{}, fmt.Errorf("unknown field type %q for code %s", d.Kind, d.Code)
	}

	labels := d.Labels
	if labels == nil {
		labels = map[string]string{DefaultLanguage: ""}
	}
	f := Field{
		Kind:           d.Kind,
		Code:           d.Code,
		Name:           d.Name,
		Labels:         labels,
		Required:       d.Required,
		EntityQuestion: d.EntityQuestion,
		Location:       d.Location,
		Length:         d.Length,
		Range:          d.Range,
		Options:        d.Options,
		DateFormat:     d.DateFormat,
	}
	if f.Kind == GeoCode {
		f.Location = true
	}
	return f, nil
}
