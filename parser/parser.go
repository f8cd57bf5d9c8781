package parser

import (
	"strings"
	"unicode"
)

// Values holds raw answers keyed by field code, in order of first appearance.
// Downstream error reporting depends on that order being stable.
type Values struct {
	codes  []string
	values map[string]string
}

func NewValues() *Values {
	return &Values{values: map[string]string{}}
}

func (v *Values) Set(code, value string) {
	if _, seen := v.values[code]; !seen {
		v.codes = append(v.codes, code)
	}
	v.values[code] = value
}

func (v *Values) Get(code string) (string, bool) {
	value, ok := v.values[code]
	return value, ok
}

func (v *Values) Codes() []string {
	return v.codes
}

func (v *Values) Len() int {
	return len(v.codes)
}

// Map returns a plain copy for persistence.
func (v *Values) Map() map[string]string {
	m := make(map[string]string, len(v.values))
	for code, value := range v.values {
		m[code] = value
	}
	return m
}

// Parse splits a raw message into a form code and its answers.
//
// The message is a form code followed by "+"-delimited segments; each segment
// is a field code (first whitespace-delimited token, upper-cased) followed by
// the raw answer, which may be empty or contain internal whitespace:
//
//	CLINIC +ID CID001 +NAME CLINIC-MADA +GPS 17.3 48.7
//
// Parse never fails: a message with no segments yields empty values, and a
// blank prefix yields an empty form code. Both surface later as a
// questionnaire lookup failure.
func Parse(text string) (formCode string, values *Values) {
	values = NewValues()

	segments := strings.Split(text, "+")
	formCode = strings.TrimSpace(segments[0])

	for _, segment := range segments[1:] {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		code, value := segment, ""
		if i := strings.IndexFunc(segment, unicode.IsSpace); i >= 0 {
			code, value = segment[:i], strings.TrimSpace(segment[i:])
		}
		values.Set(strings.ToUpper(code), value)
	}
	return
}
