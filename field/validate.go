package field

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// CoerceValidate turns a raw submitted answer into the field's typed value.
// A nil, nil return means the field was not answered and is not required.
// Failures are reported as *AnswerError so the caller can accumulate them;
// nothing here is fatal.
func (f Field) CoerceValidate(raw string) (any, *AnswerError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if f.Required {
			return nil, &AnswerError{Kind: NoValue, Code: f.Code, Value: raw}
		}
		return nil, nil
	}

	switch f.Kind {
	case Text:
		return f.validateText(raw)
	case Integer:
		return f.validateInteger(raw)
	case SelectSingle, SelectMulti:
		return f.validateSelect(raw)
	case GeoCode:
		return f.validateGeoCode(raw)
	case Date:
		return f.validateDate(raw)
	case Hierarchy:
		return f.validateHierarchy(raw)
	}
	return nil, &AnswerError{Kind: WrongType, Code: f.Code, Value: raw}
}

func (f Field) validateText(raw string) (any, *AnswerError) {
	if f.Length != nil {
		length := utf8.RuneCountInString(raw)
		if f.Length.Min > 0 && length < f.Length.Min {
			return nil, &AnswerError{Kind: TooShort, Code: f.Code, Value: raw}
		}
		if f.Length.Max > 0 && length > f.Length.Max {
			return nil, &AnswerError{Kind: TooLong, Code: f.Code, Value: raw}
		}
	}
	return raw, nil
}

func (f Field) validateInteger(raw string) (any, *AnswerError) {
	// Strict base-10: "50" is an integer, "50.0" and "5O" are not. Leniency
	// towards spreadsheet formatting belongs to the mobile number validator
	// alone.
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &AnswerError{Kind: WrongType, Code: f.Code, Value: raw}
	}
	if f.Range != nil {
		if f.Range.Max != nil && n > *f.Range.Max {
			return nil, &AnswerError{Kind: TooBig, Code: f.Code, Value: raw}
		}
		if f.Range.Min != nil && n < *f.Range.Min {
			return nil, &AnswerError{Kind: TooSmall, Code: f.Code, Value: raw}
		}
	}
	return n, nil
}

func (f Field) validateSelect(raw string) (any, *AnswerError) {
	tokens := strings.Fields(raw)

	if f.Kind == SelectSingle && len(tokens) > 1 {
		return nil, &AnswerError{Kind: TooManyValues, Code: f.Code, Value: raw}
	}

	matched := make([]string, 0, len(tokens))
	for _, token := range tokens {
		option, ok := f.option(token)
		if !ok {
			return nil, &AnswerError{Kind: NotInList, Code: f.Code, Value: token}
		}
		matched = append(matched, option.Text)
	}

	if f.Kind == SelectSingle {
		return matched[0], nil
	}
	return matched, nil
}

func (f Field) option(token string) (Option, bool) {
	for _, option := range f.Options {
		if option.Text == token {
			return option, true
		}
	}
	return Option{}, false
}

func (f Field) validateGeoCode(raw string) (any, *AnswerError) {
	tokens := strings.Fields(raw)
	if len(tokens) != 2 {
		return nil, &AnswerError{Kind: GeoCodeFormat, Code: f.Code, Value: raw}
	}

	latitude, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return nil, &AnswerError{Kind: LatitudeNotFloat, Code: f.Code, Value: tokens[0]}
	}
	longitude, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return nil, &AnswerError{Kind: LongitudeNotFloat, Code: f.Code, Value: tokens[1]}
	}

	if latitude < -90 || latitude > 90 {
		return nil, &AnswerError{Kind: LatitudeOutOfRange, Code: f.Code, Value: tokens[0]}
	}
	if longitude < -180 || longitude > 180 {
		return nil, &AnswerError{Kind: LongitudeOutOfRange, Code: f.Code, Value: tokens[1]}
	}

	return GeoPoint{Latitude: latitude, Longitude: longitude}, nil
}

var layoutReplacer = strings.NewReplacer("dd", "02", "mm", "01", "yyyy", "2006")

func (f Field) validateDate(raw string) (any, *AnswerError) {
	date, err := time.Parse(layoutReplacer.Replace(f.DateFormat), raw)
	if err != nil {
		return nil, &AnswerError{Kind: IncorrectDate, Code: f.Code, Value: raw, Format: f.DateFormat}
	}
	return date, nil
}

func (f Field) validateHierarchy(raw string) (any, *AnswerError) {
	parts := strings.Split(raw, ",")
	path := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			path = append(path, part)
		}
	}
	return path, nil
}
