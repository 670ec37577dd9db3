package client

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-crm/pkg/controller"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

// Handle serves the client endpoints.
type Handle struct {
	create *usecase.Pipeline[CreateInput, Client]
	list   *usecase.Pipeline[ListInput, repository.Paginated[Client]]
	get    *usecase.Pipeline[IDInput, Client]
	update *usecase.Pipeline[UpdateInput, Client]
	delete *usecase.Pipeline[IDInput, Deleted]
}

func NewHandle(repo Repository, opts ...usecase.Option) *Handle {
	return &Handle{
		create: usecase.New[CreateInput, Client]("client.create", NewCreateClient(repo), opts...),
		list:   usecase.New[ListInput, repository.Paginated[Client]]("client.list", NewListClients(repo), opts...),
		get:    usecase.New[IDInput, Client]("client.get", NewGetClient(repo), opts...),
		update: usecase.New[UpdateInput, Client]("client.update", NewUpdateClient(repo), opts...),
		delete: usecase.New[IDInput, Deleted]("client.delete", NewDeleteClient(repo), opts...),
	}
}

// Handler mounts the client routes. read guards the GET routes and write guards the rest.
func Handler(h *Handle, read, write func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.With(write).Post("/", controller.Handle[Client](controller.Created, h.create, controller.Body()))
	r.With(read).Get("/", controller.Handle[repository.Paginated[Client]](controller.OK, h.list, controller.Query()))
	r.With(read).Get("/{id}", controller.Handle[Client](controller.OK, h.get, controller.Path("id")))
	r.With(write).Put("/{id}", controller.Handle[Client](controller.OK, h.update, controller.Body(), controller.Path("id")))
	r.With(write).Delete("/{id}", controller.Handle[Deleted](controller.NoContent, h.delete, controller.Path("id")))
	return r
}
