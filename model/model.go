package model

import (
	"fmt"
	"time"
)

// Entity is a registered data object: a submission subject (clinic,
// waterpoint, ...) or a reporter. Category is a dotted path, e.g.
// "healthfacility.clinic" or "reporter". Data holds the latest known value
// per name.
type Entity struct {
	ID        string         `json:"id,omitempty"`
	ShortCode string         `json:"short_code"`
	Category  string         `json:"category"`
	Location  []string       `json:"location,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
}

// Value returns the entity's latest value under name, rendered as a string.
// Missing names yield "".
func (e *Entity) Value(name string) string {
	v, ok := e.Data[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// DataRecord is one accepted submission's typed values, kept against the
// subject entity in submission order.
type DataRecord struct {
	ID        int64          `json:"id"`
	ShortCode string         `json:"short_code"`
	FormCode  string         `json:"form_code"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
}
