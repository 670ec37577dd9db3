package supplier

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
	"github.com/tendant/simple-crm/pkg/validation"
)

const entity = "Supplier"

func fields() map[string]*openapi3.Schema {
	return map[string]*openapi3.Schema{
		"name":  validation.Text(1, 100),
		"phone": validation.Nullable(validation.Text(0, 30)),
		"notes": validation.Nullable(validation.Text(0, 2000)),
	}
}

type CreateInput struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

type CreateSupplier struct {
	repo Repository
}

func NewCreateSupplier(repo Repository) *CreateSupplier {
	return &CreateSupplier{repo: repo}
}

func (uc *CreateSupplier) Schema() *openapi3.Schema {
	return validation.Object(fields(), "name")
}

func (uc *CreateSupplier) Execute(ctx context.Context, in CreateInput) (usecase.Outcome[Supplier], error) {
	taken, err := nameTaken(ctx, uc.repo, in.Name, uuid.Nil)
	if err != nil {
		return usecase.Outcome[Supplier]{}, err
	}
	if taken {
		return usecase.Fail[Supplier](apperrors.AlreadyExists(entity, "name")), nil
	}

	created, err := uc.repo.Create(ctx, Supplier{Name: in.Name, Phone: in.Phone, Notes: in.Notes})
	if errors.Is(err, repository.ErrDuplicate) {
		return usecase.Fail[Supplier](apperrors.AlreadyExists(entity, "name")), nil
	}
	if err != nil {
		return usecase.Outcome[Supplier]{}, fmt.Errorf("failed to create supplier: %w", err)
	}
	return usecase.Ok(created), nil
}

// nameTaken reports whether name belongs to a supplier other than self.
func nameTaken(ctx context.Context, repo Repository, name string, self uuid.UUID) (bool, error) {
	other, err := repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up supplier by name: %w", err)
	}
	return other.ID != self, nil
}

type ListInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type ListSuppliers struct {
	repo Repository
}

func NewListSuppliers(repo Repository) *ListSuppliers {
	return &ListSuppliers{repo: repo}
}

func (uc *ListSuppliers) Schema() *openapi3.Schema {
	return validation.List(map[string]*openapi3.Schema{
		"name":  validation.Text(0, 100),
		"phone": validation.Text(0, 30),
	})
}

func (uc *ListSuppliers) Execute(ctx context.Context, in ListInput) (usecase.Outcome[repository.Paginated[Supplier]], error) {
	page := repository.NewPage(in.Page, in.Limit)
	suppliers, total, err := uc.repo.List(ctx, Filter{Name: in.Name, Phone: in.Phone}, page)
	if err != nil {
		return usecase.Outcome[repository.Paginated[Supplier]]{}, err
	}
	return usecase.Ok(repository.NewPaginated(suppliers, page, total)), nil
}

type IDInput struct {
	ID uuid.UUID `json:"id"`
}

type GetSupplier struct {
	repo Repository
}

func NewGetSupplier(repo Repository) *GetSupplier {
	return &GetSupplier{repo: repo}
}

func (uc *GetSupplier) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *GetSupplier) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Supplier], error) {
	s, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Supplier](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Supplier]{}, err
	}
	return usecase.Ok(s), nil
}

// UpdateInput is a partial update; null clears phone or notes.
type UpdateInput struct {
	ID    uuid.UUID                   `json:"id"`
	Name  validation.Optional[string] `json:"name"`
	Phone validation.Optional[string] `json:"phone"`
	Notes validation.Optional[string] `json:"notes"`
}

type UpdateSupplier struct {
	repo Repository
}

func NewUpdateSupplier(repo Repository) *UpdateSupplier {
	return &UpdateSupplier{repo: repo}
}

func (uc *UpdateSupplier) Schema() *openapi3.Schema {
	props := fields()
	props["id"] = validation.UUID()
	return validation.Object(props, "id")
}

func (uc *UpdateSupplier) Execute(ctx context.Context, in UpdateInput) (usecase.Outcome[Supplier], error) {
	s, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Supplier](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Supplier]{}, err
	}

	if in.Name.Set {
		taken, err := nameTaken(ctx, uc.repo, in.Name.Value, s.ID)
		if err != nil {
			return usecase.Outcome[Supplier]{}, err
		}
		if taken {
			return usecase.Fail[Supplier](apperrors.AlreadyExists(entity, "name")), nil
		}
		s.Name = in.Name.Value
	}
	if in.Phone.Set {
		s.Phone = in.Phone.Ptr()
	}
	if in.Notes.Set {
		s.Notes = in.Notes.Ptr()
	}

	updated, err := uc.repo.Update(ctx, s)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return usecase.Fail[Supplier](apperrors.AlreadyExists(entity, "name")), nil
	case errors.Is(err, repository.ErrNotFound):
		return usecase.Fail[Supplier](apperrors.NotFound(entity, "id", in.ID.String())), nil
	case err != nil:
		return usecase.Outcome[Supplier]{}, fmt.Errorf("failed to update supplier: %w", err)
	}
	return usecase.Ok(updated), nil
}

type Deleted struct{}

type DeleteSupplier struct {
	repo Repository
}

func NewDeleteSupplier(repo Repository) *DeleteSupplier {
	return &DeleteSupplier{repo: repo}
}

func (uc *DeleteSupplier) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *DeleteSupplier) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Deleted], error) {
	err := uc.repo.Delete(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Deleted](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Deleted]{}, fmt.Errorf("failed to delete supplier: %w", err)
	}
	return usecase.Ok(Deleted{}), nil
}
