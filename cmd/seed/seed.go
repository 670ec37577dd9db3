package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/usecase"
	"github.com/tendant/simple-crm/pkg/user"
)

// roleDef is one entry of the roles file
type roleDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

// adminParams describes the optional first administrator
type adminParams struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     string
}

func parseRoles(r io.Reader) ([]roleDef, error) {
	var defs []roleDef
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing roles file: %w", err)
	}
	return defs, nil
}

func (s roleDef) raw() map[string]interface{} {
	perms := make([]interface{}, 0, len(s.Permissions))
	for _, p := range s.Permissions {
		perms = append(perms, p)
	}
	return map[string]interface{}{
		"name":        s.Name,
		"description": s.Description,
		"permissions": perms,
	}
}

// seeder upserts roles and creates the first admin through the regular use cases
type seeder struct {
	roles      role.Repository
	createRole *usecase.Pipeline[role.CreateInput, role.Role]
	updateRole *usecase.Pipeline[role.UpdateInput, role.Role]
	createUser *usecase.Pipeline[user.CreateInput, user.Output]
}

func newSeeder(roles role.Repository, users user.Repository, passwords user.Passwords) *seeder {
	return &seeder{
		roles:      roles,
		createRole: usecase.New[role.CreateInput, role.Role]("role.create", role.NewCreateRole(roles)),
		updateRole: usecase.New[role.UpdateInput, role.Role]("role.update", role.NewUpdateRole(roles)),
		createUser: usecase.New[user.CreateInput, user.Output]("user.create", user.NewCreateUser(users, roles, passwords)),
	}
}

// upsertRoles creates missing roles and updates existing ones matched by name
func (s *seeder) upsertRoles(ctx context.Context, defs []roleDef) error {
	for _, def := range defs {
		existing, err := s.roles.FindByName(ctx, def.Name)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			out := s.createRole.Run(ctx, def.raw())
			if out.IsFailure() {
				return failure("creating role "+def.Name, out.Failure())
			}
			slog.Info("Created role", "name", def.Name, "id", out.Value().ID)
		case err != nil:
			return fmt.Errorf("looking up role %s: %w", def.Name, err)
		default:
			raw := def.raw()
			raw["id"] = existing.ID.String()
			out := s.updateRole.Run(ctx, raw)
			if out.IsFailure() {
				return failure("updating role "+def.Name, out.Failure())
			}
			slog.Info("Updated role", "name", def.Name, "id", existing.ID)
		}
	}
	return nil
}

// createAdmin creates the admin user bound to the named role
func (s *seeder) createAdmin(ctx context.Context, admin adminParams) (user.Output, error) {
	r, err := s.roles.FindByName(ctx, admin.Role)
	if errors.Is(err, repository.ErrNotFound) {
		return user.Output{}, fmt.Errorf("role %q does not exist", admin.Role)
	}
	if err != nil {
		return user.Output{}, fmt.Errorf("looking up role %s: %w", admin.Role, err)
	}

	name := admin.Name
	if name == "" {
		name = admin.Username
	}
	out := s.createUser.Run(ctx, map[string]interface{}{
		"name":     name,
		"username": admin.Username,
		"email":    admin.Email,
		"password": admin.Password,
		"roleId":   r.ID.String(),
	})
	if out.IsFailure() {
		return user.Output{}, failure("creating admin "+admin.Username, out.Failure())
	}
	slog.Info("Created admin user", "username", admin.Username, "role", admin.Role)
	return out.Value(), nil
}

func failure(action string, err *apperrors.Error) error {
	if len(err.Violations) == 0 {
		return fmt.Errorf("%s: %w", action, err)
	}
	reasons := make([]string, 0, len(err.Violations))
	for _, v := range err.Violations {
		reasons = append(reasons, v.Field+" "+v.Reason)
	}
	return fmt.Errorf("%s: %w (%s)", action, err, strings.Join(reasons, "; "))
}
