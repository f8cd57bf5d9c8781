package validator

import (
	"context"
	"strings"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/parser"
)

const TagAtLeastOneLocation = "at_least_one_location"

const locationRequiredMessage = "Please fill out at least one location field correctly."

// AtLeastOneLocation requires that at least one location-classified field
// (hierarchy location or geocode) has been answered. When none is, every
// location field gets its own error entry so each one is flagged to the
// submitter. Models without location fields pass trivially.
type AtLeastOneLocation struct{}

func (AtLeastOneLocation) Tag() string {
	return TagAtLeastOneLocation
}

func (AtLeastOneLocation) Validate(_ context.Context, values *parser.Values, fields []field.Field, _ EntityFinder) (map[string]string, error) {
	var locationFields []field.Field
	for _, f := range fields {
		if f.Location {
			locationFields = append(locationFields, f)
		}
	}
	if len(locationFields) == 0 {
		return nil, nil
	}

	for _, f := range locationFields {
		if value, ok := values.Get(f.Code); ok && strings.TrimSpace(value) != "" {
			return nil, nil
		}
	}

	errs := make(map[string]string, len(locationFields))
	for _, f := range locationFields {
		errs[f.Code] = locationRequiredMessage
	}
	return errs, nil
}

func (AtLeastOneLocation) Descriptor() Descriptor {
	return Descriptor{Tag: TagAtLeastOneLocation}
}
