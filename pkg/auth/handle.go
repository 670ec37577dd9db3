package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-crm/pkg/controller"
	"github.com/tendant/simple-crm/pkg/password"
	"github.com/tendant/simple-crm/pkg/tokengenerator"
	"github.com/tendant/simple-crm/pkg/usecase"
)

// Handle serves the public authentication endpoints.
type Handle struct {
	login   *usecase.Pipeline[LoginInput, tokengenerator.TokenPair]
	refresh *usecase.Pipeline[RefreshInput, tokengenerator.TokenPair]
}

func NewHandle(users Users, hasher password.Hasher, tokens Tokens, opts ...usecase.Option) *Handle {
	return &Handle{
		login:   usecase.New[LoginInput, tokengenerator.TokenPair]("auth.login", NewLogin(users, hasher, tokens), opts...),
		refresh: usecase.New[RefreshInput, tokengenerator.TokenPair]("auth.refresh", NewRefresh(users, tokens), opts...),
	}
}

func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	controller.Handle[tokengenerator.TokenPair](controller.OK, h.login, controller.Body())(w, r)
}

func (h *Handle) Refresh(w http.ResponseWriter, r *http.Request) {
	controller.Handle[tokengenerator.TokenPair](controller.OK, h.refresh, controller.Body())(w, r)
}

// Handler mounts POST /login and POST /refresh behind limit.
func Handler(h *Handle, limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(limit)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	return r
}
