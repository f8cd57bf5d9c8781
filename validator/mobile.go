package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/parser"
)

const TagMobileNumberUniqueness = "mobile_number_uniqueness"

// ReporterCategory is the entity category holding registered reporters.
const ReporterCategory = "reporter"

// MobileNumberKey is the entity data key a reporter's number is stored under.
const MobileNumberKey = "telephone_number"

// MobileNumberUniqueness checks the reporter-registration mobile number:
// it must be present and must not collide with the number of any already
// registered reporter. Submitted and stored numbers are both normalized
// before comparison, since numbers exported from spreadsheets arrive with
// hyphens, exponent notation or a trailing ".0".
//
// The mobile field is designated by the "field" param; without one it falls
// back to the first field that is not the entity question.
type MobileNumberUniqueness struct {
	// Field is the code of the mobile number field, when designated
	// explicitly.
	Field string
}

func newMobileNumberUniqueness(d Descriptor) (Validator, error) {
	v := MobileNumberUniqueness{}
	if code, ok := d.Params["field"].(string); ok {
		v.Field = code
	}
	return v, nil
}

func (v MobileNumberUniqueness) Tag() string {
	return TagMobileNumberUniqueness
}

func (v MobileNumberUniqueness) Validate(ctx context.Context, values *parser.Values, fields []field.Field, store EntityFinder) (map[string]string, error) {
	mobile, ok := v.mobileField(fields)
	if !ok {
		return nil, nil
	}

	raw, _ := values.Get(mobile.Code)
	submitted := NormalizeMobileNumber(raw)
	if submitted == "" {
		return map[string]string{
			mobile.Code: fmt.Sprintf("Mobile number for question %s is missing.", mobile.Code),
		}, nil
	}

	reporters, err := store.FindEntitiesByCategory(ctx, ReporterCategory)
	if err != nil {
		return nil, err
	}
	for _, reporter := range reporters {
		if NormalizeMobileNumber(reporter.Value(MobileNumberKey)) == submitted {
			return map[string]string{
				mobile.Code: fmt.Sprintf("Sorry, the mobile number %s has already been registered.", submitted),
			}, nil
		}
	}
	return nil, nil
}

func (v MobileNumberUniqueness) mobileField(fields []field.Field) (field.Field, bool) {
	for _, f := range fields {
		if v.Field != "" {
			if f.Code == v.Field {
				return f, true
			}
			continue
		}
		if !f.EntityQuestion {
			return f, true
		}
	}
	return field.Field{}, false
}

func (v MobileNumberUniqueness) Descriptor() Descriptor {
	d := Descriptor{Tag: TagMobileNumberUniqueness}
	if v.Field != "" {
		d.Params = map[string]any{"field": v.Field}
	}
	return d
}

// NormalizeMobileNumber reduces a submitted or stored number to plain digits:
// embedded hyphens are dropped, spreadsheet exponent notation is expanded and
// a trailing ".0" float suffix is cut. Purely string-level, and idempotent:
// normalizing an already normalized number is a no-op.
func NormalizeMobileNumber(number string) string {
	number = strings.TrimSpace(number)
	number = strings.ReplaceAll(number, "-", "")
	if strings.ContainsAny(number, "eE") {
		if f, err := strconv.ParseFloat(number, 64); err == nil {
			number = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return strings.TrimSuffix(number, ".0")
}
