package user

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-crm/pkg/authz"
	"github.com/tendant/simple-crm/pkg/controller"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

// Handle serves the user endpoints and the caller's own profile.
type Handle struct {
	create *usecase.Pipeline[CreateInput, Output]
	list   *usecase.Pipeline[ListInput, repository.Paginated[Output]]
	get    *usecase.Pipeline[IDInput, Output]
	update *usecase.Pipeline[UpdateInput, Output]
	delete *usecase.Pipeline[IDInput, Deleted]
	me     *usecase.Pipeline[IDInput, Profile]
}

func NewHandle(repo Repository, roles RoleLookup, passwords Passwords, opts ...usecase.Option) *Handle {
	return &Handle{
		create: usecase.New[CreateInput, Output]("user.create", NewCreateUser(repo, roles, passwords), opts...),
		list:   usecase.New[ListInput, repository.Paginated[Output]]("user.list", NewListUsers(repo, roles), opts...),
		get:    usecase.New[IDInput, Output]("user.get", NewGetUser(repo, roles), opts...),
		update: usecase.New[UpdateInput, Output]("user.update", NewUpdateUser(repo, roles, passwords), opts...),
		delete: usecase.New[IDInput, Deleted]("user.delete", NewDeleteUser(repo), opts...),
		me:     usecase.New[IDInput, Profile]("user.me", NewGetCurrentUser(repo, roles), opts...),
	}
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Output](controller.Created, h.create, controller.Body())(w, r)
}

func (h *Handle) List(w http.ResponseWriter, r *http.Request) {
	controller.Handle[repository.Paginated[Output]](controller.OK, h.list, controller.Query())(w, r)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Output](controller.OK, h.get, controller.Path("id"))(w, r)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Output](controller.OK, h.update, controller.Body(), controller.Path("id"))(w, r)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Deleted](controller.NoContent, h.delete, controller.Path("id"))(w, r)
}

// Me returns the profile of the authenticated caller.
func (h *Handle) Me(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Profile](controller.OK, h.me, principalID)(w, r)
}

func principalID(r *http.Request, _ *openapi3.Schema) (map[string]interface{}, error) {
	p, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		return nil, errors.New("no authenticated caller")
	}
	return map[string]interface{}{"id": p.UserID.String()}, nil
}

// Handler mounts the user routes behind guard.
func Handler(h *Handle, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(guard)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}
