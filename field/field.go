// Package field defines the questionnaire field variants and the rules that
// turn a raw submitted answer into a typed value or a specific AnswerError.
package field

// Kind enumerates the field variants. The set is closed: every variant the
// wire protocol can carry is listed here.
type Kind string

const (
	Text         Kind = "text"
	Integer      Kind = "integer"
	SelectSingle Kind = "select1"
	SelectMulti  Kind = "select"
	GeoCode      Kind = "geocode"
	Date         Kind = "date"
	Hierarchy    Kind = "list"
)

const DefaultLanguage = "eng"

// TextConstraint bounds answer length in characters, inclusive.
// A zero bound is unset.
type TextConstraint struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// IntegerConstraint bounds a numeric answer, inclusive. Nil bounds are unset.
type IntegerConstraint struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// Option is one allowed answer of a select field. Matching is against Text,
// with the case as configured.
type Option struct {
	Text string `json:"text"`
	Val  int    `json:"val,omitempty"`
}

// GeoPoint is the typed value of a geocode answer.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Def carries the attributes common to every field variant. Kind-specific
// constraints are passed to the variant constructors.
type Def struct {
	Code     string
	Name     string
	Label    string
	Language string // defaults to DefaultLanguage
	Required bool

	// EntityQuestion marks the field whose answer identifies the subject
	// entity of a submission. At most one field per model carries it.
	EntityQuestion bool

	// Location classifies the field for structural validators. Geocode
	// fields are always location-classified.
	Location bool
}

// Field is a single question definition. Construct through the variant
// constructors; only the constraint matching the Kind is set.
type Field struct {
	Kind           Kind
	Code           string
	Name           string
	Labels         map[string]string
	Required       bool
	EntityQuestion bool
	Location       bool

	Length     *TextConstraint
	Range      *IntegerConstraint
	Options    []Option
	DateFormat string
}

func newField(kind Kind, def Def) Field {
	language := def.Language
	if language == "" {
		language = DefaultLanguage
	}
	return Field{
		Kind:           kind,
		Code:           def.Code,
		Name:           def.Name,
		Labels:         map[string]string{language: def.Label},
		Required:       def.Required,
		EntityQuestion: def.EntityQuestion,
		Location:       def.Location,
	}
}

func NewTextField(def Def, length *TextConstraint) Field {
	f := newField(Text, def)
	f.Length = length
	return f
}

func NewIntegerField(def Def, rng *IntegerConstraint) Field {
	f := newField(Integer, def)
	f.Range = rng
	return f
}

func NewSelectField(def Def, multi bool, options []Option) Field {
	kind := SelectSingle
	if multi {
		kind = SelectMulti
	}
	f := newField(kind, def)
	f.Options = options
	return f
}

func NewGeoCodeField(def Def) Field {
	def.Location = true
	return newField(GeoCode, def)
}

func NewDateField(def Def, format string) Field {
	f := newField(Date, def)
	f.DateFormat = format
	return f
}

func NewHierarchyField(def Def) Field {
	return newField(Hierarchy, def)
}

// Label returns the field label in the given language, falling back to the
// default language.
func (f Field) Label(language string) string {
	if label, ok := f.Labels[language]; ok {
		return label
	}
	return f.Labels[DefaultLanguage]
}
