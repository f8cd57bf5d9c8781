package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/validator"
)

func intp(n int64) *int64 { return &n }

func clinicFields() []field.Field {
	return []field.Field{
		field.NewTextField(field.Def{Code: "ID", Name: "entity_question", Label: "What is associated entity",
			Required: true, EntityQuestion: true}, nil),
		field.NewTextField(field.Def{Code: "NAME", Name: "Name", Label: "Clinic Name"},
			&field.TextConstraint{Min: 4, Max: 15}),
		field.NewIntegerField(field.Def{Code: "ARV", Name: "Arv stock", Label: "ARV Stock"},
			&field.IntegerConstraint{Min: intp(15), Max: intp(120)}),
		field.NewSelectField(field.Def{Code: "COL", Name: "Color", Label: "Color"}, false,
			[]field.Option{{Text: "RED", Val: 1}, {Text: "YELLOW", Val: 2}}),
	}
}

func TestNew(t *testing.T) {
	m, err := New("CLINIC", "aids", clinicFields(), nil)
	require.NoError(t, err)
	assert.Equal(t, Draft, m.State)

	eq, ok := m.EntityQuestion()
	require.True(t, ok)
	assert.Equal(t, "ID", eq.Code)

	_, ok = m.FieldByCode("ARV")
	assert.True(t, ok)
	_, ok = m.FieldByCode("NOPE")
	assert.False(t, ok)
}

func TestNewAccumulatesConfigurationErrors(t *testing.T) {
	fields := []field.Field{
		field.NewTextField(field.Def{Code: "A", EntityQuestion: true}, nil),
		field.NewTextField(field.Def{Code: "A", EntityQuestion: true}, nil),
	}
	_, err := New("", "broken", fields, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "form code is required")
	assert.Contains(t, err.Error(), "field code A is already in use")
	assert.Contains(t, err.Error(), "only one field may be the entity question")
}

func TestAddField(t *testing.T) {
	m, err := New("CLINIC", "aids", clinicFields()[:3], nil)
	require.NoError(t, err)

	err = m.AddField(field.NewSelectField(field.Def{Code: "COL"}, false,
		[]field.Option{{Text: "RED", Val: 1}}))
	require.NoError(t, err)
	assert.Len(t, m.Fields, 4)

	err = m.AddField(field.NewTextField(field.Def{Code: "COL"}, nil))
	assert.Error(t, err)

	err = m.AddField(field.NewTextField(field.Def{Code: "EID", EntityQuestion: true}, nil))
	assert.Error(t, err)
}

func TestDocumentRoundTrip(t *testing.T) {
	registry := validator.NewRegistry()
	m, err := New("REG", "registration", []field.Field{
		field.NewTextField(field.Def{Code: "T", EntityQuestion: true}, nil),
		field.NewTextField(field.Def{Code: "M", Name: "mobile"}, nil),
		field.NewHierarchyField(field.Def{Code: "L", Name: "location", Location: true}),
		field.NewGeoCodeField(field.Def{Code: "G", Name: "geo_code"}),
	}, []validator.Validator{
		validator.AtLeastOneLocation{},
		validator.MobileNumberUniqueness{Field: "M"},
	})
	require.NoError(t, err)
	m.Activate()
	m.Metadata = map[string]string{"source": "web"}

	data, err := json.Marshal(m.Document())
	require.NoError(t, err)

	restored, err := ParseDocument(registry, data)
	require.NoError(t, err)
	assert.Equal(t, m, restored)
}

func TestParseDocumentUnknownValidatorTag(t *testing.T) {
	doc := `{"form_code":"REG","name":"r","fields":[{"type":"text","code":"T"}],
		"validators":[{"tag":"no_such_rule"}]}`
	_, err := ParseDocument(validator.NewRegistry(), []byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_rule")
}

func TestParseDocumentUnknownFieldKind(t *testing.T) {
	doc := `{"form_code":"REG","name":"r","fields":[{"type":"video","code":"V"}]}`
	_, err := ParseDocument(validator.NewRegistry(), []byte(doc))
	assert.Error(t, err)
}

func TestParseDocumentMalformedJSON(t *testing.T) {
	_, err := ParseDocument(validator.NewRegistry(), []byte("{"))
	assert.Error(t, err)
}
