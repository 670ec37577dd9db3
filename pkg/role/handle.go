package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-crm/pkg/controller"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

// Handle serves the role endpoints.
type Handle struct {
	create      *usecase.Pipeline[CreateInput, Role]
	list        *usecase.Pipeline[ListInput, repository.Paginated[Role]]
	get         *usecase.Pipeline[IDInput, Role]
	update      *usecase.Pipeline[UpdateInput, Role]
	delete      *usecase.Pipeline[IDInput, Deleted]
	permissions *usecase.Pipeline[NoInput, []Permission]
}

func NewHandle(repo Repository, usage UsageCounter, opts ...usecase.Option) *Handle {
	return &Handle{
		create:      usecase.New[CreateInput, Role]("role.create", NewCreateRole(repo), opts...),
		list:        usecase.New[ListInput, repository.Paginated[Role]]("role.list", NewListRoles(repo), opts...),
		get:         usecase.New[IDInput, Role]("role.get", NewGetRole(repo), opts...),
		update:      usecase.New[UpdateInput, Role]("role.update", NewUpdateRole(repo), opts...),
		delete:      usecase.New[IDInput, Deleted]("role.delete", NewDeleteRole(repo, usage), opts...),
		permissions: usecase.New[NoInput, []Permission]("role.permissions", ListPermissions{}, opts...),
	}
}

func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Role](controller.Created, h.create, controller.Body())(w, r)
}

func (h *Handle) List(w http.ResponseWriter, r *http.Request) {
	controller.Handle[repository.Paginated[Role]](controller.OK, h.list, controller.Query())(w, r)
}

func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Role](controller.OK, h.get, controller.Path("id"))(w, r)
}

func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Role](controller.OK, h.update, controller.Body(), controller.Path("id"))(w, r)
}

func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	controller.Handle[Deleted](controller.NoContent, h.delete, controller.Path("id"))(w, r)
}

func (h *Handle) Permissions(w http.ResponseWriter, r *http.Request) {
	controller.Handle[[]Permission](controller.OK, h.permissions)(w, r)
}

// Handler mounts the role routes. read guards the GET routes and write guards the rest.
func Handler(h *Handle, read, write func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.With(write).Post("/", h.Create)
	r.With(read).Get("/", h.List)
	r.With(read).Get("/{id}", h.Get)
	r.With(write).Put("/{id}", h.Update)
	r.With(write).Delete("/{id}", h.Delete)
	return r
}
