package field

import "fmt"

// ErrorKind classifies a single-answer validation failure.
type ErrorKind int

const (
	WrongType ErrorKind = iota
	TooBig
	TooSmall
	TooLong
	TooShort
	TooManyValues
	NoValue
	NotInList
	IncorrectDate
	GeoCodeFormat
	LatitudeNotFloat
	LongitudeNotFloat
	LatitudeOutOfRange
	LongitudeOutOfRange
)

// AnswerError is a recovered validation failure for one submitted answer.
// It carries the offending field code and raw value so messages can be
// rendered for the submitter, and is accumulated rather than aborting
// the submission.
type AnswerError struct {
	Kind   ErrorKind
	Code   string
	Value  string
	Format string // expected date format, IncorrectDate only
}

func (e *AnswerError) Error() string {
	switch e.Kind {
	case WrongType:
		return fmt.Sprintf("Answer to question %s is of wrong type.", e.Code)
	case TooBig:
		return fmt.Sprintf("Answer %s for question %s is greater than allowed.", e.Value, e.Code)
	case TooSmall:
		return fmt.Sprintf("Answer %s for question %s is smaller than allowed.", e.Value, e.Code)
	case TooLong:
		return fmt.Sprintf("Answer %s for question %s is longer than allowed.", e.Value, e.Code)
	case TooShort:
		return fmt.Sprintf("Answer %s for question %s is shorter than allowed.", e.Value, e.Code)
	case TooManyValues:
		return fmt.Sprintf("Answer %s for question %s contains more than one value.", e.Value, e.Code)
	case NoValue:
		return fmt.Sprintf("Answer %s for question %s has no value.", e.Value, e.Code)
	case NotInList:
		return fmt.Sprintf("Answer %s for question %s is not present in the allowed options.", e.Value, e.Code)
	case IncorrectDate:
		return fmt.Sprintf("Answer to question %s is invalid: %s, expected date in %s format", e.Code, e.Value, e.Format)
	case GeoCodeFormat:
		return "GPS coordinates must be in the format 'lat long'."
	case LatitudeNotFloat:
		return fmt.Sprintf("The value for Latitude %s should be float", e.Value)
	case LongitudeNotFloat:
		return fmt.Sprintf("The value for Longitude %s should be float", e.Value)
	case LatitudeOutOfRange:
		return fmt.Sprintf("%s is an invalid latitude, must be between -90 and 90", e.Value)
	case LongitudeOutOfRange:
		return fmt.Sprintf("%s is an invalid longitude, must be between -180 and 180", e.Value)
	}
	return fmt.Sprintf("Answer %s for question %s is invalid.", e.Value, e.Code)
}
