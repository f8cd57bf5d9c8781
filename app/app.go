package app

import (
	"github.com/go-chi/oauth"

	"github.com/lakshmirp/mangrove/config"
	"github.com/lakshmirp/mangrove/store"
	"github.com/lakshmirp/mangrove/submission"
	"github.com/lakshmirp/mangrove/validator"
)

type App struct {
	*oauth.BearerServer
	config.Config

	Store    *store.Store
	Handler  *submission.Handler
	Registry *validator.Registry
}
