package client

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

const entity = "Client"

func fields() map[string]*openapi3.Schema {
	return map[string]*openapi3.Schema{
		"name":      validation.Text(1, 100),
		"email":     validation.Nullable(validation.Email()),
		"birthDate": validation.Nullable(validation.Date()),
		"phone":     validation.Nullable(validation.Text(0, 30)),
		"notes":     validation.Nullable(validation.Text(0, 2000)),
	}
}

// CreateInput is the body of a client creation.
type CreateInput struct {
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	BirthDate *string `json:"birthDate"`
	Phone     *string `json:"phone"`
	Notes     *string `json:"notes"`
}

// CreateClient adds a client with a unique name.
type CreateClient struct {
	repo Repository
}

func NewCreateClient(repo Repository) *CreateClient {
	return &CreateClient{repo: repo}
}

func (uc *CreateClient) Schema() *openapi3.Schema {
	return validation.Object(fields(), "name")
}

func (uc *CreateClient) Execute(ctx context.Context, in CreateInput) (usecase.Outcome[Client], error) {
	_, err := uc.repo.FindByName(ctx, in.Name)
	if err == nil {
		return usecase.Fail[Client](apperrors.AlreadyExists(entity, "name")), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return usecase.Outcome[Client]{}, fmt.Errorf("failed to look up client by name: %w", err)
	}

	created, err := uc.repo.Create(ctx, Client{
		Name:      in.Name,
		Email:     in.Email,
		BirthDate: in.BirthDate,
		Phone:     in.Phone,
		Notes:     in.Notes,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return usecase.Fail[Client](apperrors.AlreadyExists(entity, "name")), nil
	}
	if err != nil {
		return usecase.Outcome[Client]{}, fmt.Errorf("failed to create client: %w", err)
	}
	return usecase.Ok(created), nil
}

// ListInput selects a page of clients.
type ListInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ListClients returns a page of clients.
type ListClients struct {
	repo Repository
}

func NewListClients(repo Repository) *ListClients {
	return &ListClients{repo: repo}
}

func (uc *ListClients) Schema() *openapi3.Schema {
	return validation.List(map[string]*openapi3.Schema{
		"name":  validation.Text(0, 100),
		"email": validation.Text(0, 255),
		"phone": validation.Text(0, 30),
	})
}

func (uc *ListClients) Execute(ctx context.Context, in ListInput) (usecase.Outcome[repository.Paginated[Client]], error) {
	page := repository.NewPage(in.Page, in.Limit)
	clients, total, err := uc.repo.List(ctx, Filter{Name: in.Name, Email: in.Email, Phone: in.Phone}, page)
	if err != nil {
		return usecase.Outcome[repository.Paginated[Client]]{}, err
	}
	return usecase.Ok(repository.NewPaginated(clients, page, total)), nil
}

// IDInput addresses a single client.
type IDInput struct {
	ID uuid.UUID `json:"id"`
}

// GetClient returns one client.
type GetClient struct {
	repo Repository
}

func NewGetClient(repo Repository) *GetClient {
	return &GetClient{repo: repo}
}

func (uc *GetClient) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *GetClient) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Client], error) {
	c, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Client](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Client]{}, err
	}
	return usecase.Ok(c), nil
}

// UpdateInput is a partial update. Absent fields keep their value and null clears an
// optional field.
type UpdateInput struct {
	ID        uuid.UUID                   `json:"id"`
	Name      validation.Optional[string] `json:"name"`
	Email     validation.Optional[string] `json:"email"`
	BirthDate validation.Optional[string] `json:"birthDate"`
	Phone     validation.Optional[string] `json:"phone"`
	Notes     validation.Optional[string] `json:"notes"`
}

// UpdateClient changes a client, keeping its name unique.
type UpdateClient struct {
	repo Repository
}

func NewUpdateClient(repo Repository) *UpdateClient {
	return &UpdateClient{repo: repo}
}

func (uc *UpdateClient) Schema() *openapi3.Schema {
	props := fields()
	props["id"] = validation.UUID()
	return validation.Object(props, "id")
}

func (uc *UpdateClient) Execute(ctx context.Context, in UpdateInput) (usecase.Outcome[Client], error) {
	c, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Client](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Client]{}, err
	}

	if in.Name.Set && in.Name.Value != c.Name {
		other, err := uc.repo.FindByName(ctx, in.Name.Value)
		if err == nil && other.ID != c.ID {
			return usecase.Fail[Client](apperrors.AlreadyExists(entity, "name")), nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return usecase.Outcome[Client]{}, fmt.Errorf("failed to look up client by name: %w", err)
		}
		c.Name = in.Name.Value
	}
	apply(&c.Email, in.Email)
	apply(&c.BirthDate, in.BirthDate)
	apply(&c.Phone, in.Phone)
	apply(&c.Notes, in.Notes)

	updated, err := uc.repo.Update(ctx, c)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return usecase.Fail[Client](apperrors.AlreadyExists(entity, "name")), nil
	case errors.Is(err, repository.ErrNotFound):
		return usecase.Fail[Client](apperrors.NotFound(entity, "id", in.ID.String())), nil
	case err != nil:
		return usecase.Outcome[Client]{}, fmt.Errorf("failed to update client: %w", err)
	}
	return usecase.Ok(updated), nil
}

// apply writes a present field onto dst; null clears it.
func apply(dst **string, field validation.Optional[string]) {
	if field.Set {
		*dst = field.Ptr()
	}
}

// Deleted is the empty success of a delete.
type Deleted struct{}

// DeleteClient removes a client.
type DeleteClient struct {
	repo Repository
}

func NewDeleteClient(repo Repository) *DeleteClient {
	return &DeleteClient{repo: repo}
}

func (uc *DeleteClient) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *DeleteClient) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Deleted], error) {
	err := uc.repo.Delete(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Deleted](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Deleted]{}, fmt.Errorf("failed to delete client: %w", err)
	}
	return usecase.Ok(Deleted{}), nil
}
