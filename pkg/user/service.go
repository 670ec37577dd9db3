package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/password"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/usecase"
	"github.com/tendant/simple-crm/pkg/validation"
)

const entity = "User"

// Passwords wraps the hasher and the complexity policy applied to new passwords.
type Passwords struct {
	Hasher  password.Hasher
	Checker *password.Checker
}

// check runs the complexity policy on a raw password, when one was supplied as a string.
func (p Passwords) check(raw map[string]interface{}) []apperrors.Violation {
	plain, ok := raw["password"].(string)
	if !ok || p.Checker == nil {
		return nil
	}
	reasons := p.Checker.Check(plain)
	violations := make([]apperrors.Violation, len(reasons))
	for i, reason := range reasons {
		violations[i] = apperrors.Violation{Field: "password", Reason: reason}
	}
	return violations
}

func (p Passwords) hash(plain string) (string, error) {
	hashed, err := p.Hasher.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func duplicateError(err error) *apperrors.Error {
	field := repository.ConstraintField(err)
	if field != "email" {
		field = "username"
	}
	return apperrors.AlreadyExists(entity, field)
}

func roleNotFound(id uuid.UUID) *apperrors.Error {
	return apperrors.NotFound("Role", "id", id.String())
}

// roleName resolves the display name of a user's role.
func roleName(ctx context.Context, roles RoleLookup, id uuid.UUID) (string, error) {
	r, err := roles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up role: %w", err)
	}
	return r.Name, nil
}

// uniqueness reports whether email or username already belong to a user other than self.
func uniqueness(ctx context.Context, repo Repository, self uuid.UUID, email, username string) (*apperrors.Error, error) {
	if email != "" {
		other, err := repo.FindByEmail(ctx, email)
		if err == nil && other.ID != self {
			return apperrors.AlreadyExists(entity, "email"), nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
	}
	if username != "" {
		other, err := repo.FindByUsername(ctx, username)
		if err == nil && other.ID != self {
			return apperrors.AlreadyExists(entity, "username"), nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by username: %w", err)
		}
	}
	return nil, nil
}

func userSchema() map[string]*openapi3.Schema {
	return map[string]*openapi3.Schema{
		"name":     validation.Text(1, 100),
		"username": validation.Text(3, 50),
		"email":    validation.Email(),
		"password": validation.Text(1, 72),
		"roleId":   validation.UUID(),
		"active":   validation.Bool(),
	}
}

// CreateInput is the body of a user creation.
type CreateInput struct {
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	RoleID   uuid.UUID `json:"roleId"`
	Active   *bool     `json:"active"`
}

// CreateUser adds a user bound to an existing role.
type CreateUser struct {
	repo      Repository
	roles     RoleLookup
	passwords Passwords
}

func NewCreateUser(repo Repository, roles RoleLookup, passwords Passwords) *CreateUser {
	return &CreateUser{repo: repo, roles: roles, passwords: passwords}
}

func (uc *CreateUser) Schema() *openapi3.Schema {
	return validation.Object(userSchema(), "name", "username", "email", "password", "roleId")
}

// CheckInput reports password policy violations alongside the schema's.
func (uc *CreateUser) CheckInput(raw map[string]interface{}) []apperrors.Violation {
	return uc.passwords.check(raw)
}

func (uc *CreateUser) Execute(ctx context.Context, in CreateInput) (usecase.Outcome[Output], error) {
	in.Email = normalizeEmail(in.Email)

	r, err := uc.roles.FindByID(ctx, in.RoleID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Output](roleNotFound(in.RoleID)), nil
	}
	if err != nil {
		return usecase.Outcome[Output]{}, fmt.Errorf("failed to look up role: %w", err)
	}

	conflict, err := uniqueness(ctx, uc.repo, uuid.Nil, in.Email, in.Username)
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}
	if conflict != nil {
		return usecase.Fail[Output](conflict), nil
	}

	hashed, err := uc.passwords.hash(in.Password)
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	created, err := uc.repo.Create(ctx, User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		Active:       active,
		RoleID:       in.RoleID,
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return usecase.Fail[Output](duplicateError(err)), nil
	case errors.Is(err, repository.ErrReferenced):
		return usecase.Fail[Output](roleNotFound(in.RoleID)), nil
	case err != nil:
		return usecase.Outcome[Output]{}, fmt.Errorf("failed to create user: %w", err)
	}
	return usecase.Ok(toOutput(created, r.Name)), nil
}

// ListInput selects a page of users.
type ListInput struct {
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	RoleID   *uuid.UUID `json:"roleId"`
	Active   *bool      `json:"active"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// ListUsers returns a page of users.
type ListUsers struct {
	repo  Repository
	roles RoleLookup
}

func NewListUsers(repo Repository, roles RoleLookup) *ListUsers {
	return &ListUsers{repo: repo, roles: roles}
}

func (uc *ListUsers) Schema() *openapi3.Schema {
	return validation.List(map[string]*openapi3.Schema{
		"name":     validation.Text(0, 100),
		"username": validation.Text(0, 50),
		"email":    validation.Text(0, 255),
		"roleId":   validation.UUID(),
		"active":   validation.Bool(),
	})
}

func (uc *ListUsers) Execute(ctx context.Context, in ListInput) (usecase.Outcome[repository.Paginated[Output]], error) {
	page := repository.NewPage(in.Page, in.Limit)
	users, total, err := uc.repo.List(ctx, Filter{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		RoleID:   in.RoleID,
		Active:   in.Active,
	}, page)
	if err != nil {
		return usecase.Outcome[repository.Paginated[Output]]{}, err
	}

	names := map[uuid.UUID]string{}
	outputs := make([]Output, 0, len(users))
	for _, u := range users {
		name, ok := names[u.RoleID]
		if !ok {
			if name, err = roleName(ctx, uc.roles, u.RoleID); err != nil {
				return usecase.Outcome[repository.Paginated[Output]]{}, err
			}
			names[u.RoleID] = name
		}
		outputs = append(outputs, toOutput(u, name))
	}
	return usecase.Ok(repository.NewPaginated(outputs, page, total)), nil
}

// IDInput addresses a single user.
type IDInput struct {
	ID uuid.UUID `json:"id"`
}

// GetUser returns one user.
type GetUser struct {
	repo  Repository
	roles RoleLookup
}

func NewGetUser(repo Repository, roles RoleLookup) *GetUser {
	return &GetUser{repo: repo, roles: roles}
}

func (uc *GetUser) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *GetUser) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Output], error) {
	u, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Output](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}
	name, err := roleName(ctx, uc.roles, u.RoleID)
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}
	return usecase.Ok(toOutput(u, name)), nil
}

// UpdateInput is a partial update. Absent fields keep their value.
type UpdateInput struct {
	ID       uuid.UUID                      `json:"id"`
	Name     validation.Optional[string]    `json:"name"`
	Username validation.Optional[string]    `json:"username"`
	Email    validation.Optional[string]    `json:"email"`
	Password validation.Optional[string]    `json:"password"`
	Active   validation.Optional[bool]      `json:"active"`
	RoleID   validation.Optional[uuid.UUID] `json:"roleId"`
}

// UpdateUser changes a user, keeping email and username unique and the role valid.
type UpdateUser struct {
	repo      Repository
	roles     RoleLookup
	passwords Passwords
}

func NewUpdateUser(repo Repository, roles RoleLookup, passwords Passwords) *UpdateUser {
	return &UpdateUser{repo: repo, roles: roles, passwords: passwords}
}

func (uc *UpdateUser) Schema() *openapi3.Schema {
	props := userSchema()
	props["id"] = validation.UUID()
	return validation.Object(props, "id")
}

func (uc *UpdateUser) CheckInput(raw map[string]interface{}) []apperrors.Violation {
	return uc.passwords.check(raw)
}

func (uc *UpdateUser) Execute(ctx context.Context, in UpdateInput) (usecase.Outcome[Output], error) {
	u, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Output](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}

	if in.RoleID.Set {
		if _, err := uc.roles.FindByID(ctx, in.RoleID.Value); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return usecase.Fail[Output](roleNotFound(in.RoleID.Value)), nil
			}
			return usecase.Outcome[Output]{}, fmt.Errorf("failed to look up role: %w", err)
		}
		u.RoleID = in.RoleID.Value
	}

	var email, username string
	if in.Email.Set {
		email = normalizeEmail(in.Email.Value)
	}
	if in.Username.Set {
		username = in.Username.Value
	}
	conflict, err := uniqueness(ctx, uc.repo, u.ID, email, username)
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}
	if conflict != nil {
		return usecase.Fail[Output](conflict), nil
	}
	if in.Email.Set {
		u.Email = email
	}
	if in.Username.Set {
		u.Username = username
	}
	if in.Name.Set {
		u.Name = in.Name.Value
	}
	if in.Active.Set {
		u.Active = in.Active.Value
	}
	if in.Password.Set {
		hashed, err := uc.passwords.hash(in.Password.Value)
		if err != nil {
			return usecase.Outcome[Output]{}, err
		}
		u.PasswordHash = hashed
	}

	updated, err := uc.repo.Update(ctx, u)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return usecase.Fail[Output](duplicateError(err)), nil
	case errors.Is(err, repository.ErrReferenced):
		return usecase.Fail[Output](roleNotFound(u.RoleID)), nil
	case errors.Is(err, repository.ErrNotFound):
		return usecase.Fail[Output](apperrors.NotFound(entity, "id", in.ID.String())), nil
	case err != nil:
		return usecase.Outcome[Output]{}, fmt.Errorf("failed to update user: %w", err)
	}

	name, err := roleName(ctx, uc.roles, updated.RoleID)
	if err != nil {
		return usecase.Outcome[Output]{}, err
	}
	return usecase.Ok(toOutput(updated, name)), nil
}

// Deleted is the empty success of a delete.
type Deleted struct{}

// DeleteUser removes a user.
type DeleteUser struct {
	repo Repository
}

func NewDeleteUser(repo Repository) *DeleteUser {
	return &DeleteUser{repo: repo}
}

func (uc *DeleteUser) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *DeleteUser) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Deleted], error) {
	err := uc.repo.Delete(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Deleted](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Deleted]{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return usecase.Ok(Deleted{}), nil
}

// GetCurrentUser returns the caller's own profile. The id comes from the verified token,
// never from the request.
type GetCurrentUser struct {
	repo  Repository
	roles RoleLookup
}

func NewGetCurrentUser(repo Repository, roles RoleLookup) *GetCurrentUser {
	return &GetCurrentUser{repo: repo, roles: roles}
}

func (uc *GetCurrentUser) Schema() *openapi3.Schema {
	return validation.ByID()
}

func (uc *GetCurrentUser) Execute(ctx context.Context, in IDInput) (usecase.Outcome[Profile], error) {
	u, err := uc.repo.FindByID(ctx, in.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Profile](apperrors.NotFound(entity, "id", in.ID.String())), nil
	}
	if err != nil {
		return usecase.Outcome[Profile]{}, err
	}

	r, err := uc.roles.FindByID(ctx, u.RoleID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.Fail[Profile](roleNotFound(u.RoleID)), nil
	}
	if err != nil {
		return usecase.Outcome[Profile]{}, fmt.Errorf("failed to look up role: %w", err)
	}

	return usecase.Ok(Profile{
		Output: toOutput(u, r.Name),
		Role: RoleSummary{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Permissions: r.PermissionSet().List(),
		},
	}), nil
}
