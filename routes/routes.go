package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lakshmirp/mangrove/app"
	"github.com/lakshmirp/mangrove/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// submission intake
	api.Post("/sms", SubmitSMS(app))
	api.Post("/submissions", SubmitJSON(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD questionnaire
		r.Post("/questionnaires", CreateQuestionnaire(app))
		r.Get("/questionnaires", ListQuestionnaires(app))
		r.Get("/questionnaires/{code}", GetQuestionnaire(app))
		r.Put("/questionnaires/{code}", UpdateQuestionnaire(app))
		r.Delete("/questionnaires/{code}", DeleteQuestionnaire(app))

		r.Post("/entities", RegisterEntity(app))
		r.Get("/submissions", ListSubmissionLogs(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
