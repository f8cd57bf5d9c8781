package routes

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/app"
	"github.com/lakshmirp/mangrove/form"
	"github.com/lakshmirp/mangrove/httpx"
	"github.com/lakshmirp/mangrove/log"
	"github.com/lakshmirp/mangrove/model"
	"github.com/lakshmirp/mangrove/submission"
)

func CreateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := readQuestionnaire(app, w, r)
		if !ok {
			return
		}

		if _, err := app.Store.ResolveQuestionnaire(r.Context(), m.Code); err == nil {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "create_questionnaire",
				"questionnaire %s already exists", m.Code)
			return
		} else if !errors.Is(err, submission.ErrNotFound) {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		if err := app.Store.SaveQuestionnaire(r.Context(), m); err != nil {
			httpx.LogInternalError(w, "db.save_questionnaire", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"form_code": m.Code,
		})
	}
}

func ListQuestionnaires(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := app.Store.ListQuestionnaires(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaires", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"questionnaires": docs,
		})
	}
}

func GetQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		m, err := app.Store.ResolveQuestionnaire(r.Context(), code)
		if errors.Is(err, submission.ErrNotFound) {
			httpx.LogNotFound(w, "get_questionnaire", code)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		render.JSON(w, r, m.Document())
	}
}

func UpdateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		if _, err := app.Store.ResolveQuestionnaire(r.Context(), code); errors.Is(err, submission.ErrNotFound) {
			httpx.LogNotFound(w, "update_questionnaire", code)
			return
		} else if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		m, ok := readQuestionnaire(app, w, r)
		if !ok {
			return
		}
		if !strings.EqualFold(m.Code, code) {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "update_questionnaire",
				"form code %s does not match %s", m.Code, code)
			return
		}

		if err := app.Store.SaveQuestionnaire(r.Context(), m); err != nil {
			httpx.LogInternalError(w, "db.save_questionnaire", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"form_code": m.Code,
		})
	}
}

func DeleteQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		err := app.Store.DeleteQuestionnaire(r.Context(), code)
		if errors.Is(err, submission.ErrNotFound) {
			httpx.LogNotFound(w, "delete_questionnaire", code)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.delete_questionnaire", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func RegisterEntity(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := model.Entity{}
		err := render.DecodeJSON(r.Body, &e)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if e.ShortCode == "" || e.Category == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "register_entity",
				"short_code and category are required")
			return
		}

		if err := app.Store.RegisterEntity(r.Context(), &e); err != nil {
			httpx.LogInternalError(w, "db.register_entity", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":         e.ID,
			"short_code": e.ShortCode,
		})
	}
}

// readQuestionnaire decodes and validates a questionnaire document from the
// request body. A document that fails configuration checks (duplicate field
// codes, unknown validator tag, ...) is rejected as unprocessable.
func readQuestionnaire(app app.App, w http.ResponseWriter, r *http.Request) (*form.Model, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.read_body")
		return nil, false
	}

	m, err := form.ParseDocument(app.Registry, data)
	if err != nil {
		httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "request.parse_questionnaire",
			"invalid questionnaire document: %s", err)
		return nil, false
	}
	return m, true
}
