package submission

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshmirp/mangrove/field"
	"github.com/lakshmirp/mangrove/form"
	"github.com/lakshmirp/mangrove/validator"
)

type fakeEntity map[string]string

func (e fakeEntity) Value(name string) string { return e[name] }

type fakeStore struct {
	models    map[string]*form.Model
	reporters map[string][]validator.Entity
	entities  map[string][]validator.Entity
	logs      []SubmissionLog
	persisted map[string]map[string]any

	resolveErr error
	appendErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		models:    map[string]*form.Model{},
		reporters: map[string][]validator.Entity{},
		entities:  map[string][]validator.Entity{},
		persisted: map[string]map[string]any{},
	}
}

func (s *fakeStore) addModel(m *form.Model) {
	s.models[strings.ToUpper(m.Code)] = m
}

func (s *fakeStore) ResolveQuestionnaire(_ context.Context, formCode string) (*form.Model, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	m, ok := s.models[strings.ToUpper(formCode)]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *fakeStore) FindReporters(_ context.Context, source string) ([]validator.Entity, error) {
	return s.reporters[source], nil
}

func (s *fakeStore) FindEntitiesByCategory(_ context.Context, category string) ([]validator.Entity, error) {
	return s.entities[category], nil
}

func (s *fakeStore) PersistValues(_ context.Context, shortCode, _ string, values map[string]any) error {
	s.persisted[shortCode] = values
	return nil
}

func (s *fakeStore) AppendSubmissionLog(_ context.Context, log *SubmissionLog) (int64, error) {
	if s.appendErr != nil {
		return 0, s.appendErr
	}
	log.ID = int64(len(s.logs) + 1)
	s.logs = append(s.logs, *log)
	return log.ID, nil
}

func (s *fakeStore) ListSubmissions(_ context.Context, formCode string) ([]SubmissionLog, error) {
	var out []SubmissionLog
	for _, l := range s.logs {
		if l.FormCode == formCode {
			out = append(out, l)
		}
	}
	return out, nil
}

func intp(n int64) *int64 { return &n }

func clinicModel(t *testing.T) *form.Model {
	t.Helper()
	m, err := form.New("CLINIC", "aids", []field.Field{
		field.NewTextField(field.Def{Code: "ID", Name: "entity_question", Required: true,
			EntityQuestion: true}, nil),
		field.NewTextField(field.Def{Code: "NAME", Name: "Name"},
			&field.TextConstraint{Min: 4, Max: 15}),
		field.NewIntegerField(field.Def{Code: "ARV", Name: "Arv stock"},
			&field.IntegerConstraint{Min: intp(15), Max: intp(120)}),
		field.NewSelectField(field.Def{Code: "COL", Name: "Color"}, false,
			[]field.Option{{Text: "RED", Val: 1}, {Text: "YELLOW", Val: 2}}),
	}, nil)
	require.NoError(t, err)
	return m
}

func clinicStore(t *testing.T) *fakeStore {
	store := newFakeStore()
	store.addModel(clinicModel(t))
	store.reporters["1234"] = []validator.Entity{fakeEntity{FirstNameKey: "Test_reporter"}}
	return store
}

func TestAcceptValidSubmission(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID E1 +NAME CLINIC-MADA +ARV 50 +COL RED", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "Thank You Test_reporter for your submission.", resp.Message)
	assert.Equal(t, map[string]any{
		"ID":   "E1",
		"NAME": "CLINIC-MADA",
		"ARV":  int64(50),
		"COL":  "RED",
	}, resp.Values)

	assert.Equal(t, resp.Values, store.persisted["E1"])

	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.True(t, log.Status)
	assert.Empty(t, log.ErrorMessage)
	assert.Equal(t, "CLINIC", log.FormCode)
}

func TestAcceptTooBigInteger(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID E1 +ARV 150 ", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Answer 150 for question ARV is greater than allowed.", resp.Errors[0])

	require.Len(t, store.logs, 1)
	assert.Equal(t, "Answer 150 for question ARV is greater than allowed.\n", store.logs[0].ErrorMessage)
}

func TestAcceptTooShortText(t *testing.T) {
	h := NewHandler(clinicStore(t))

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID CID001 +NAME ABC", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Answer ABC for question NAME is shorter than allowed.", resp.Errors[0])
}

func TestAcceptAccumulatesFieldErrors(t *testing.T) {
	h := NewHandler(clinicStore(t))

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID E1 +NAME ABC +ARV 150", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 2)
	// model order, not submission order
	assert.Equal(t, "Answer ABC for question NAME is shorter than allowed.", resp.Errors[0])
	assert.Equal(t, "Answer 150 for question ARV is greater than allowed.", resp.Errors[1])
	assert.Equal(t, resp.Errors[0]+"\n"+resp.Errors[1], resp.Message)
}

func TestAcceptMissingRequiredField(t *testing.T) {
	h := NewHandler(clinicStore(t))

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ARV 50", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Answer  for question ID has no value.", resp.Errors[0])
}

func TestAcceptUnknownFormCode(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "INVALID_CODE +NAME xyz +AGE 10", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "The questionnaire with code INVALID_CODE does not exist.", resp.Errors[0])
	assert.Equal(t, "The questionnaire with code INVALID_CODE does not exist.", resp.Message)

	// the attempt is still audited, with the parsed code and raw values
	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.False(t, log.Status)
	assert.Equal(t, "INVALID_CODE", log.FormCode)
	assert.Equal(t, map[string]string{"NAME": "xyz", "AGE": "10"}, log.Values)
	assert.Equal(t, "sms", log.Channel)
	assert.Equal(t, "1234", log.Source)
	assert.Equal(t, "5678", log.Destination)
}

func TestAcceptEmptyMessage(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "The questionnaire does not exist.", resp.Errors[0])
	require.Len(t, store.logs, 1)
	assert.Equal(t, "", store.logs[0].FormCode)
	assert.Empty(t, store.logs[0].Values)
}

func TestAcceptFormCodeIsCaseInsensitive(t *testing.T) {
	h := NewHandler(clinicStore(t))

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "clinic +ID E1 +ARV 50", Source: "1234", Destination: "5678"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestAcceptUnregisteredReporter(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID E1 +ARV 50", Source: "9999", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Sorry, this number 9999 is not registered with us.", resp.Errors[0])
	require.Len(t, store.logs, 1)
}

func TestAcceptAmbiguousReporter(t *testing.T) {
	store := clinicStore(t)
	store.reporters["1234"] = []validator.Entity{
		fakeEntity{FirstNameKey: "A"},
		fakeEntity{FirstNameKey: "B"},
	}
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID E1 +ARV 50", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Sorry, more than one reporter found for 1234.", resp.Errors[0])
}

func TestAcceptRunsCrossFieldValidators(t *testing.T) {
	store := newFakeStore()
	m, err := form.New("REG", "registration", []field.Field{
		field.NewTextField(field.Def{Code: "T", EntityQuestion: true}, nil),
		field.NewTextField(field.Def{Code: "A"}, nil),
		field.NewHierarchyField(field.Def{Code: "L", Name: "location", Location: true}),
		field.NewGeoCodeField(field.Def{Code: "G", Name: "geo_code"}),
	}, []validator.Validator{validator.AtLeastOneLocation{}})
	require.NoError(t, err)
	store.addModel(m)
	store.reporters["1234"] = []validator.Entity{fakeEntity{FirstNameKey: "R"}}
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "REG +T E1 +A x", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "Please fill out at least one location field correctly.", resp.Errors[0])
	assert.Equal(t, "Please fill out at least one location field correctly.", resp.Errors[1])
}

func TestAcceptDuplicateMobileNumber(t *testing.T) {
	store := newFakeStore()
	m, err := form.New("REG", "registration", []field.Field{
		field.NewTextField(field.Def{Code: "T", EntityQuestion: true}, nil),
		field.NewTextField(field.Def{Code: "M", Name: "mobile"}, nil),
	}, []validator.Validator{validator.MobileNumberUniqueness{Field: "M"}})
	require.NoError(t, err)
	store.addModel(m)
	store.reporters["1234"] = []validator.Entity{fakeEntity{FirstNameKey: "R"}}
	store.entities[validator.ReporterCategory] = []validator.Entity{
		fakeEntity{validator.MobileNumberKey: "266123321435"},
	}
	h := NewHandler(store)

	resp, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "REG +T E1 +M 266-123321435", Source: "1234", Destination: "5678"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Sorry, the mobile number 266123321435 has already been registered.", resp.Errors[0])
}

func TestAcceptAlwaysAppendsExactlyOneLog(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	messages := []string{
		"CLINIC +ID E1 +ARV 50",
		"CLINIC +ID E1 +ARV 150",
		"BOGUS +Q 1",
		"",
	}
	for _, message := range messages {
		_, err := h.Accept(context.Background(),
			Request{Channel: "sms", Message: message, Source: "1234", Destination: "5678"})
		require.NoError(t, err)
	}
	assert.Len(t, store.logs, len(messages))
}

func TestAcceptOperationalFailurePropagates(t *testing.T) {
	store := clinicStore(t)
	store.resolveErr = assert.AnError
	h := NewHandler(store)

	_, err := h.Accept(context.Background(),
		Request{Channel: "sms", Message: "CLINIC +ID E1", Source: "1234", Destination: "5678"})
	assert.Error(t, err)
	assert.Empty(t, store.logs)
}

func TestListSubmissions(t *testing.T) {
	store := clinicStore(t)
	h := NewHandler(store)

	for _, message := range []string{"CLINIC +ID E1 +ARV 150", "CLINIC +ID E1 +ARV 50", "OTHER +Q 1"} {
		_, err := h.Accept(context.Background(),
			Request{Channel: "sms", Message: message, Source: "1234", Destination: "5678"})
		require.NoError(t, err)
	}

	logs, err := h.ListSubmissions(context.Background(), "CLINIC")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.False(t, logs[0].Status)
	assert.True(t, logs[1].Status)
}
