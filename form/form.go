// Package form models a questionnaire: an ordered set of fields plus the
// cross-field validators attached to it, resolved by form code.
package form

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/validator"
)

type State string

const (
	Draft  State = "draft"
	Active State = "active"
)

type Model struct {
	Code       string
	Name       string
	State      State
	Fields     []field.Field
	Validators []validator.Validator
	Metadata   map[string]string
}

// New builds a model and checks its configuration invariants. Violations are
// accumulated so a broken document reports everything wrong with it at once.
func New(code, name string, fields []field.Field, validators []validator.Validator) (*Model, error) {
	m := &Model{
		Code:       code,
		Name:       name,
		State:      Draft,
		Fields:     fields,
		Validators: validators,
	}

	var result *multierror.Error
	if strings.TrimSpace(code) == "" {
		result = multierror.Append(result, errors.New("form code is required"))
	}

	seen := map[string]bool{}
	entityQuestions := 0
	for _, f := range fields {
		if seen[f.Code] {
			result = multierror.Append(result,
				errors.Errorf("field code %s is already in use", f.Code))
		}
		seen[f.Code] = true
		if f.EntityQuestion {
			entityQuestions++
		}
	}
	if entityQuestions > 1 {
		result = multierror.Append(result,
			errors.New("only one field may be the entity question"))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return m, nil
}

// AddField appends a field, enforcing the same invariants as New.
func (m *Model) AddField(f field.Field) error {
	for _, existing := range m.Fields {
		if existing.Code == f.Code {
			return errors.Errorf("field code %s is already in use", f.Code)
		}
	}
	if f.EntityQuestion {
		if _, ok := m.EntityQuestion(); ok {
			return errors.New("only one field may be the entity question")
		}
	}
	m.Fields = append(m.Fields, f)
	return nil
}

// EntityQuestion returns the field identifying the submission's subject
// entity, when the model has one.
func (m *Model) EntityQuestion() (field.Field, bool) {
	for _, f := range m.Fields {
		if f.EntityQuestion {
			return f, true
		}
	}
	return field.Field{}, false
}

func (m *Model) FieldByCode(code string) (field.Field, bool) {
	for _, f := range m.Fields {
		if f.Code == code {
			return f, true
		}
	}
	return field.Field{}, false
}

func (m *Model) Activate() {
	m.State = Active
}
