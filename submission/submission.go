// Package submission orchestrates the intake of one submitted message:
// parse, resolve the questionnaire and the reporter, validate every answer,
// run cross-field validators, persist accepted values and always append an
// audit record.
package submission

import "time"

// Request is one incoming message, however it arrived.
type Request struct {
	Channel     string
	Message     string
	Source      string
	Destination string
}

// Response is the outcome reported back on the originating channel. Errors
// are in field order; Message is the gateway reply body.
type Response struct {
	Success bool           `json:"success"`
	Errors  []string       `json:"errors,omitempty"`
	Message string         `json:"message"`
	Values  map[string]any `json:"values,omitempty"`
}

// SubmissionLog is the audit record of one accepted Request. Exactly one is
// appended per request, whatever the outcome (including submissions against
// a form code that resolves to nothing). Values holds the raw parsed answers,
// before any coercion.
type SubmissionLog struct {
	ID           int64             `json:"id,omitempty"`
	Channel      string            `json:"channel"`
	Source       string            `json:"source"`
	Destination  string            `json:"destination"`
	FormCode     string            `json:"form_code"`
	Values       map[string]string `json:"values"`
	Status       bool              `json:"status"`
	ErrorMessage string            `json:"error_message"`
	CreatedAt    time.Time         `json:"created_at,omitempty"`
}
