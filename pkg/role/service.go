package role

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

const entity = "Role"

func permissionsSchema() *openapi3.Schema {
	return validation.ArrayOf(validation.Enum(PermissionCodes()...))
}

// CreateInput is the body of a role creation.
type CreateInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
}

// CreateRole adds a role with a unique name.
type CreateRole struct {
	repo Repository
}

func NewCreateRole(repo Repository) *CreateRole {
	return &CreateRole{repo: repo}
}

func (uc *CreateRole) Schema() *openapi3.Schema {
	return validation.Object(map[string]*openapi3.Schema{
		"name":        validation.Text(1, 100),
		"description": validation.Text(0, 500),
		"permissions": permissionsSchema(),
	}, "name")
}

func (uc *CreateRole) Execute(ctx context.Context, in CreateInput) (usecase.Outcome[Role], error) {
	_, err := uc.repo.FindByName(ctx, in.Name)
	if err == nil {
		return usecase.Fail[Role](apperrors.AlreadyExists(entity, "name")), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return usecase.Outcome[Role]{}, fmt.Errorf("failed to look up role by name: %w", err)
	}

	created, err := uc.repo.Create(ctx, Role{
		Name:        in.Name,
		Description: in.Description,
		Permissions: NewPermissionSet(in.Permissions...).List(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return usecase.Fail[Role](apperrors.AlreadyExists(entity, "name")), nil
	}
	if err != nil {
		return usecase.Outcome[Role]{}, fmt.Errorf("failed to create role: %w", err)
	}
	return usecase.Ok(created), nil
}

// ListInput selects a page of roles.
type ListInput struct {
	Name  string `json:"name"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ListRoles returns a page of roles.
type ListRoles struct {
	repo Repository
}

func NewListRoles(repo Repository) *ListRoles {
	return &ListRoles{repo: repo}
}

func (uc *ListRoles) Schema() *openapi3.Schema {
	return validation.List(map[string]*openapi3.Schema{
		"name": validation.Text(0, 100),
	})
}

func (uc *ListRoles) Execute(ctx context.Context, in ListInput) (usecase.Outcome[repository.Paginated[Role]], error) {
	page := repository.NewPage(in.Page, in.Limit)
	roles, total, err := uc.repo.List(ctx, Filter{Name: in.Name}, page)
	if err != nil {
		return usecase.Outcome[repository.Paginated[Role]]{}, err
	}
	return usecase.Ok(repository.NewPaginated(roles, page, total)), nil
}

// IDInput addresses a single role.
type IDInput struct {
	ID uuid.UUID `json:"id"`
}

// GetRole returns one role.
type GetRole struct {
	repo Repository
}

func NewGetRole(repo Repository) *GetRole {
	return &GetRole{repo: repo}
}

func (uc *GetRole) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *GetRole) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Role], error) {
	role, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Role](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Role]{}, err
	}
	return usecase.Ok(role), nil
}

// UpdateInput is a partial update. Absent fields keep their value.
type UpdateInput struct {
	ID          uuid.UUID                         `json:"id"`
	Name        validation.Optional[string]       `json:"name"`
	Description validation.Optional[string]       `json:"description"`
	Permissions validation.Optional[[]Permission] `json:"permissions"`
}

// UpdateRole changes a role, keeping its name unique.
type UpdateRole struct {
	repo Repository
}

func NewUpdateRole(repo Repository) *UpdateRole {
	return &UpdateRole{repo: repo}
}

func (uc *UpdateRole) Schema() *openapi3.Schema {
	return validation.Object(map[string]*openapi3.Schema{
		"id":          validation.UUID(),
		"name":        validation.Text(1, 100),
		"description": validation.Text(0, 500),
		"permissions": permissionsSchema(),
	}, "id")
}

func (uc *UpdateRole) Execute(ctx context.Context, in UpdateInput) (usecase.Outcome[Role], error) {
	role, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Role](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Role]{}, err
	}

	if in.Name.Set && in.Name.Value != role.Name {
		other, err := uc.repo.FindByName(ctx, in.Name.Value)
		if err == nil && other.ID != role.ID {
			return usecase.Fail[Role](apperrors.AlreadyExists(entity, "name")), nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return usecase.Outcome[Role]{}, fmt.Errorf("failed to look up role by name: %w", err)
		}
		role.Name = in.Name.Value
	}
	if in.Description.Set {
		role.Description = in.Description.Value
	}
	if in.Permissions.Set {
		role.Permissions = NewPermissionSet(in.Permissions.Value...).List()
	}

	updated, err := uc.repo.Update(ctx, role)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return usecase.Fail[Role](apperrors.AlreadyExists(entity, "name")), nil
	case errors.Is(err, repository.ErrNotFound):
		return usecase.Fail[Role](apperrors.NotFound(entity, "id", in.ID.String())), nil
	case err != nil:
		return usecase.Outcome[Role]{}, fmt.Errorf("failed to update role: %w", err)
	}
	return usecase.Ok(updated), nil
}

// Deleted is the empty success of a delete.
type Deleted struct{}

// DeleteRole removes a role that no user is assigned to.
type DeleteRole struct {
	repo  Repository
	usage UsageCounter
}

// NewDeleteRole builds the use case. usage may be nil when the store enforces the reference.
func NewDeleteRole(repo Repository, usage UsageCounter) *DeleteRole {
	return &DeleteRole{repo: repo, usage: usage}
}

func (uc *DeleteRole) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *DeleteRole) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Deleted], error) {
	if _, err := uc.repo.FindByID(ctx, in.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return usecase.Fail[Deleted](apperrors.NotFound(entity, "id", in.ID.String())), nil
		}
		return usecase.Outcome[Deleted]{}, err
	}

	if uc.usage != nil {
		n, err := uc.usage.CountByRole(ctx, in.ID)
		if err != nil {
			return usecase.Outcome[Deleted]{}, fmt.Errorf("failed to count role users: %w", err)
		}
		if n > 0 {
			return usecase.Fail[Deleted](errRoleHasUsers()), nil
		}
	}

	err := uc.repo.Delete(ctx, in.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return usecase.Fail[Deleted](apperrors.NotFound(entity, "id", in.ID.String())), nil
	case errors.Is(err, repository.ErrReferenced):
		return usecase.Fail[Deleted](errRoleHasUsers()), nil
	case err != nil:
		return usecase.Outcome[Deleted]{}, fmt.Errorf("failed to delete role: %w", err)
	}
	return usecase.Ok(Deleted{}), nil
}

func errRoleHasUsers() *apperrors.Error {
	return apperrors.InvalidField("id", "role has users assigned")
}

// NoInput is the input of operations that take none.
type NoInput struct{}

// ListPermissions returns every permission code.
type ListPermissions struct{}

func (ListPermissions) Schema() *openapi3.Schema {
	return validation.Object(nil)
}

func (ListPermissions) Execute(ctx context.Context, _ NoInput) (usecase.Outcome[[]Permission], error) {
	return usecase.Ok(AllPermissions()), nil
}
