package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/lakshmirp/mangrove/app"
	"github.com/lakshmirp/mangrove/config"
	"github.com/lakshmirp/mangrove/database"
	"github.com/lakshmirp/mangrove/httpx"
	"github.com/lakshmirp/mangrove/log"
	"github.com/lakshmirp/mangrove/routes"
	"github.com/lakshmirp/mangrove/store"
	"github.com/lakshmirp/mangrove/submission"
	"github.com/lakshmirp/mangrove/validator"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	registry := validator.NewRegistry()
	documentStore := store.New(db, registry)

	app := app.App{
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Store:        documentStore,
		Handler:      submission.NewHandler(documentStore),
		Registry:     registry,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
