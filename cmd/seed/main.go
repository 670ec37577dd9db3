package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/tendant/simple-crm/pkg/config"
	"github.com/tendant/simple-crm/pkg/password"
	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/user"
)

func main() {
	var (
		rolesFile string
		admin     adminParams
	)
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.StringVar(&rolesFile, "roles", "", "YAML file listing roles to create or update")
	flags.StringVar(&admin.Username, "admin-username", "", "username of the first admin (optional)")
	flags.StringVar(&admin.Email, "admin-email", "", "email of the first admin")
	flags.StringVar(&admin.Password, "admin-password", "", "password of the first admin")
	flags.StringVar(&admin.Name, "admin-name", "", "display name of the first admin (defaults to the username)")
	flags.StringVar(&admin.Role, "admin-role", "Admin", "role assigned to the first admin")
	_ = flags.Parse(os.Args[1:])

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := run(context.Background(), rolesFile, admin); err != nil {
		slog.Error("Seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, rolesFile string, admin adminParams) error {
	if rolesFile == "" && admin.Username == "" {
		return fmt.Errorf("nothing to do: pass --roles and/or --admin-username")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != config.StoragePostgres {
		return fmt.Errorf("seeding requires CRM_STORAGE=%s", config.StoragePostgres)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
	if err != nil {
		return err
	}
	defer pool.Close()

	s := newSeeder(role.NewPostgresRepository(pool), user.NewPostgresRepository(pool), user.Passwords{
		Hasher:  password.NewBcryptHasher(cfg.Password.BcryptCost),
		Checker: password.NewChecker(cfg.Password.ToPasswordPolicy()),
	})

	if rolesFile != "" {
		f, err := os.Open(rolesFile)
		if err != nil {
			return err
		}
		defs, err := parseRoles(f)
		f.Close()
		if err != nil {
			return err
		}
		if err := s.upsertRoles(ctx, defs); err != nil {
			return err
		}
	}

	if admin.Username != "" {
		if _, err := s.createAdmin(ctx, admin); err != nil {
			return err
		}
	}
	return nil
}
