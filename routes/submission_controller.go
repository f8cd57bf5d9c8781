package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/lakshmirp/mangrove/app"
	"github.com/lakshmirp/mangrove/httpx"
	"github.com/lakshmirp/mangrove/log"
	"github.com/lakshmirp/mangrove/submission"
)

// SubmitSMS is the SMS gateway webhook: form-encoded from/to/message. The
// response body is the plain-text reply the gateway sends back to the
// submitter, so it is always 200 unless the store itself failed.
func SubmitSMS(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		req := submission.Request{
			Channel:     app.SMSChannel,
			Message:     r.PostForm.Get("message"),
			Source:      r.PostForm.Get("from"),
			Destination: r.PostForm.Get("to"),
		}

		resp, err := app.Handler.Accept(r.Context(), req)
		if err != nil {
			httpx.LogInternalError(w, "submission.accept", err)
			return
		}

		render.PlainText(w, r, resp.Message)
	}
}

// SubmitJSON accepts web-channel submissions carrying the same message
// grammar as SMS.
func SubmitJSON(app app.App) http.HandlerFunc {
	type body struct {
		Channel     string `json:"channel"`
		Message     string `json:"message"`
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		err := render.DecodeJSON(r.Body, &b)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if b.Channel == "" {
			b.Channel = "web"
		}

		resp, err := app.Handler.Accept(r.Context(), submission.Request{
			Channel:     b.Channel,
			Message:     b.Message,
			Source:      b.Source,
			Destination: b.Destination,
		})
		if err != nil {
			httpx.LogInternalError(w, "submission.accept", err)
			return
		}

		render.JSON(w, r, resp)
	}
}

func ListSubmissionLogs(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formCode := r.URL.Query().Get("form")
		if formCode == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.form")
			return
		}

		logs, err := app.Handler.ListSubmissions(r.Context(), formCode)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submission_logs", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": logs,
		})
	}
}
