package submission

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/parser"
)

// Handler accepts requests and drives them to an accept/reject decision.
// It holds no mutable state: concurrent Accept calls are independent, any
// serialization of conflicting writes is the store's concern.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Accept runs one request through the pipeline. Recovered failures (bad
// answers, unknown form, unregistered reporter) come back inside the
// Response; the returned error is reserved for operational failures such as
// an unavailable store.
func (h *Handler) Accept(ctx context.Context, req Request) (Response, error) {
	formCode, values := parser.Parse(req.Message)
	record := &SubmissionLog{
		Channel:     req.Channel,
		Source:      req.Source,
		Destination: req.Destination,
		FormCode:    formCode,
		Values:      values.Map(),
	}

	model, err := h.store.ResolveQuestionnaire(ctx, formCode)
	if errors.Is(err, ErrNotFound) {
		return h.reject(ctx, record, []string{questionnaireNotFound(formCode)})
	}
	if err != nil {
		return Response{}, errors.Wrap(err, "resolve questionnaire")
	}

	reporters, err := h.store.FindReporters(ctx, req.Source)
	if err != nil {
		return Response{}, errors.Wrap(err, "find reporters")
	}
	switch {
	case len(reporters) == 0:
		return h.reject(ctx, record, []string{
			fmt.Sprintf("Sorry, this number %s is not registered with us.", req.Source),
		})
	case len(reporters) > 1:
		return h.reject(ctx, record, []string{
			fmt.Sprintf("Sorry, more than one reporter found for %s.", req.Source),
		})
	}
	reporter := reporters[0]

	// Per-field checks run over every field in model order and accumulate,
	// so a submission with three bad answers reports all three.
	var errs []string
	typed := map[string]any{}
	for _, f := range model.Fields {
		raw, _ := values.Get(f.Code)
		value, answerErr := f.CoerceValidate(raw)
		if answerErr != nil {
			errs = append(errs, answerErr.Error())
			continue
		}
		if value != nil {
			typed[f.Code] = value
		}
	}

	crossErrs := map[string][]string{}
	for _, v := range model.Validators {
		keyed, err := v.Validate(ctx, values, model.Fields, h.store)
		if err != nil {
			return Response{}, errors.Wrapf(err, "validator %s", v.Tag())
		}
		for code, message := range keyed {
			crossErrs[code] = append(crossErrs[code], message)
		}
	}
	for _, f := range model.Fields {
		errs = append(errs, crossErrs[f.Code]...)
	}

	if len(errs) > 0 {
		return h.reject(ctx, record, errs)
	}

	if eq, ok := model.EntityQuestion(); ok {
		if shortCode, ok := typed[eq.Code].(string); ok {
			err = h.store.PersistValues(ctx, shortCode, model.Code, typed)
			if err != nil {
				return Response{}, errors.Wrap(err, "persist values")
			}
		}
	}

	record.Status = true
	if _, err := h.store.AppendSubmissionLog(ctx, record); err != nil {
		return Response{}, errors.Wrap(err, "append submission log")
	}

	return Response{
		Success: true,
		Message: fmt.Sprintf("Thank You %s for your submission.", reporter.Value(FirstNameKey)),
		Values:  typed,
	}, nil
}

// ListSubmissions surfaces the audit trail for one questionnaire.
func (h *Handler) ListSubmissions(ctx context.Context, formCode string) ([]SubmissionLog, error) {
	return h.store.ListSubmissions(ctx, formCode)
}

func (h *Handler) reject(ctx context.Context, record *SubmissionLog, errs []string) (Response, error) {
	record.Status = false
	record.ErrorMessage = strings.Join(errs, "\n") + "\n"
	if _, err := h.store.AppendSubmissionLog(ctx, record); err != nil {
		return Response{}, errors.Wrap(err, "append submission log")
	}

	return Response{
		Success: false,
		Errors:  errs,
		Message: strings.Join(errs, "\n"),
	}, nil
}

func questionnaireNotFound(formCode string) string {
	if formCode == "" {
		return "The questionnaire does not exist."
	}
	return fmt.Sprintf("The questionnaire with code %s does not exist.", formCode)
}
