// Package validator provides whole-submission validation rules that run after
// per-field checks. Rules are pluggable: questionnaire models persist them as
// tagged descriptors, and a registry rebuilds them at model load time.
package validator

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/parser"
)

// EntityFinder is the read-only store handle passed to validators that need
// external facts, such as the uniqueness check over registered reporters.
type EntityFinder interface {
	FindEntitiesByCategory(ctx context.Context, category string) ([]Entity, error)
}

// Entity exposes the stored values of one registered entity.
type Entity interface {
	Value(name string) string
}

// Validator is a cross-field rule over the full answer set. Validate returns
// a field-code keyed error map; empty means pass. A non-nil error is an
// operational failure (store unavailable) and aborts the submission.
type Validator interface {
	Tag() string
	Validate(ctx context.Context, values *parser.Values, fields []field.Field, store EntityFinder) (map[string]string, error)
	Descriptor() Descriptor
}

// Descriptor is the persisted shape of a validator inside a questionnaire
// document.
type Descriptor struct {
	Tag    string         `json:"tag"`
	Params map[string]any `json:"params,omitempty"`
}

// Constructor rebuilds a validator from its descriptor.
type Constructor func(Descriptor) (Validator, error)

// Registry maps validator tags to constructors. It is an explicit value
// handed to the model loader, not a process-wide singleton, so deployments
// can register their own rules.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns a registry with the built-in validators registered.
func NewRegistry() *Registry {
	r := &Registry{ctors: map[string]Constructor{}}
	r.Register(TagAtLeastOneLocation, func(Descriptor) (Validator, error) {
		return AtLeastOneLocation{}, nil
	})
	r.Register(TagMobileNumberUniqueness, newMobileNumberUniqueness)
	return r
}

func (r *Registry) Register(tag string, ctor Constructor) {
	r.ctors[tag] = ctor
}

// Build resolves a descriptor into a validator. An unknown tag is a
// configuration error, caught when the model is loaded rather than when a
// submission arrives.
func (r *Registry) Build(d Descriptor) (Validator, error) {
	ctor, ok := r.ctors[d.Tag]
	if !ok {
		return nil, errors.Errorf("unknown validator tag %q", d.Tag)
	}
	return ctor(d)
}
