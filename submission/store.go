package submission

import (
	"context"
	"errors"

	"github.com/lakshmirp/mangrove/form"
	"github.com/lakshmirp/mangrove/validator"
)

// ErrNotFound is returned by store lookups that match nothing.
var ErrNotFound = errors.New("not found")

// FirstNameKey is the entity data key a reporter's name is stored under.
const FirstNameKey = "first_name"

// Store is the narrow contract the orchestrator needs from the document
// store. Calls are synchronous and may fail; a failure is operational and
// aborts the submission without retrying here.
type Store interface {
	validator.EntityFinder

	// ResolveQuestionnaire looks a model up by form code, case-insensitively.
	ResolveQuestionnaire(ctx context.Context, formCode string) (*form.Model, error)

	// FindReporters returns the registered reporters for a source address:
	// zero, one, or - misconfiguration - several.
	FindReporters(ctx context.Context, source string) ([]validator.Entity, error)

	// PersistValues records the typed values of an accepted submission
	// against the subject entity.
	PersistValues(ctx context.Context, shortCode, formCode string, values map[string]any) error

	// AppendSubmissionLog appends one audit record and returns its id.
	AppendSubmissionLog(ctx context.Context, log *SubmissionLog) (int64, error)

	// ListSubmissions returns the audit records for an exact form code, in
	// creation order.
	ListSubmissions(ctx context.Context, formCode string) ([]SubmissionLog, error)
}
