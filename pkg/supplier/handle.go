package supplier

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-crm/pkg/controller"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
)

// Handle serves the supplier endpoints.
type Handle struct {
	create *usecase.Pipeline[CreateInput, Supplier]
	list   *usecase.Pipeline[ListInput, repository.Paginated[Supplier]]
	get    *usecase.Pipeline[IDInput, Supplier]
	update *usecase.Pipeline[UpdateInput, Supplier]
	delete *usecase.Pipeline[IDInput, Deleted]
}

func NewHandle(repo Repository, opts ...usecase.Option) *Handle {
	return &Handle{
		create: usecase.New[CreateInput, Supplier]("supplier.create", NewCreateSupplier(repo), opts...),
		list:   usecase.New[ListInput, repository.Paginated[Supplier]]("supplier.list", NewListSuppliers(repo), opts...),
		get:    usecase.New[IDInput, Supplier]("supplier.get", NewGetSupplier(repo), opts...),
		update: usecase.New[UpdateInput, Supplier]("supplier.update", NewUpdateSupplier(repo), opts...),
		delete: usecase.New[IDInput, Deleted]("supplier.delete", NewDeleteSupplier(repo), opts...),
	}
}

// Handler mounts the supplier routes. read guards the GET routes and write guards the rest.
func Handler(h *Handle, read, write func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.With(write).Post("/", controller.Handle[Supplier](controller.Created, h.create, controller.Body()))
	r.With(read).Get("/", controller.Handle[repository.Paginated[Supplier]](controller.OK, h.list, controller.Query()))
	r.With(read).Get("/{id}", controller.Handle[Supplier](controller.OK, h.get, controller.Path("id")))
	r.With(write).Put("/{id}", controller.Handle[Supplier](controller.OK, h.update, controller.Body(), controller.Path("id")))
	r.With(write).Delete("/{id}", controller.Handle[Deleted](controller.NoContent, h.delete, controller.Path("id")))
	return r
}
