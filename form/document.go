package form

import (
	"encoding/json"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/validator"
)

// Document is the persisted JSON shape of a questionnaire model.
type Document struct {
	FormCode   string                 `json:"form_code"`
	Name       string                 `json:"name"`
	State      State                  `json:"state"`
	Fields     []field.Descriptor     `json:"fields"`
	Validators []validator.Descriptor `json:"validators,omitempty"`
	Metadata   map[string]string      `json:"metadata,omitempty"`
}

func (m *Model) Document() Document {
	doc := Document{
		FormCode: m.Code,
		Name:     m.Name,
		State:    m.State,
		Metadata: m.Metadata,
	}
	for _, f := range m.Fields {
		doc.Fields = append(doc.Fields, f.Descriptor())
	}
	for _, v := range m.Validators {
		doc.Validators = append(doc.Validators, v.Descriptor())
	}
	return doc
}

// FromDocument rebuilds a model from its persisted shape, resolving validator
// tags through the registry. Unknown field kinds or validator tags are
// configuration errors and fail the load
// rather than surfacing at submission time.
func FromDocument(registry *validator.Registry, doc Document) (*Model, error) {
	var result *multierror.Error

	fields := make([]field.Field, 0, len(doc.Fields))
	for _, d := range doc.Fields {
		f, err := field.FromDescriptor(d)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		fields = append(fields, f)
	}

	validators := make([]validator.Validator, 0, len(doc.Validators))
	for _, d := range doc.Validators {
		v, err := registry.Build(d)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		validators = append(validators, v)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	m, err := New(doc.FormCode, doc.Name, fields, validators)
	if err != nil {
		return nil, err
	}
	if doc.State != "" {
		m.State = doc.State
	}
	m.Metadata = doc.Metadata
	return m, nil
}

// ParseDocument unmarshals and rebuilds a questionnaire document.
func ParseDocument(registry *validator.Registry, data []byte) (*Model, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse questionnaire document")
	}
	return FromDocument(registry, doc)
}
