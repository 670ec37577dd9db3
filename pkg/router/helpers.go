package router

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-crm/pkg/auth"
	"github.com/tendant/simple-crm/pkg/authz"
	"github.com/tendant/simple-crm/pkg/client"
	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/supplier"
	"github.com/tendant/simple-crm/pkg/telemetry"
	"github.com/tendant/simple-crm/pkg/tokengenerator"
	"github.com/tendant/simple-crm/pkg/usecase"
	"github.com/tendant/simple-crm/pkg/user"
)

// Stores groups one repository per entity
type Stores struct {
	Roles     role.Repository
	Users     user.Repository
	Clients   client.Repository
	Suppliers supplier.Repository

	// Ping checks the backing store. Nil for in-memory stores.
	Ping func(ctx context.Context) error
}

// MemoryStores returns empty in-memory repositories
func MemoryStores() Stores {
	return Stores{
		Roles:     role.NewInMemoryRoleRepository(),
		Users:     user.NewInMemoryUserRepository(),
		Clients:   client.NewInMemoryClientRepository(),
		Suppliers: supplier.NewInMemorySupplierRepository(),
	}
}

// PostgresStores returns repositories backed by pool
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Roles:     role.NewPostgresRepository(pool),
		Users:     user.NewPostgresRepository(pool),
		Clients:   client.NewPostgresRepository(pool),
		Suppliers: supplier.NewPostgresRepository(pool),
		Ping:      pool.Ping,
	}
}

// Options holds everything besides the stores needed to build a Config
type Options struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	Tokens      *tokengenerator.JwtService
	Passwords   user.Passwords

	RateLimit      func(http.Handler) http.Handler
	Metrics        *telemetry.Metrics
	MetricsHandler http.Handler
}

// NewConfig wires the feature handles, the gate and the bearer verifier over stores
//
// Example:
//
//	stores := router.MemoryStores()
//	cfg := router.NewConfig(stores, router.Options{
//	    JWTSecret:   secret,
//	    JWTIssuer:   "simple-crm",
//	    JWTAudience: "simple-crm",
//	    Tokens:      jwtService,
//	    Passwords:   user.Passwords{Hasher: hasher, Checker: checker},
//	})
//	http.ListenAndServe(":4000", router.New(cfg))
func NewConfig(stores Stores, opts Options) Config {
	ucOpts := []usecase.Option{usecase.WithMetrics(opts.Metrics)}

	return Config{
		AuthHandle:     auth.NewHandle(stores.Users, opts.Passwords.Hasher, opts.Tokens, ucOpts...),
		UserHandle:     user.NewHandle(stores.Users, stores.Roles, opts.Passwords, ucOpts...),
		RoleHandle:     role.NewHandle(stores.Roles, stores.Users, ucOpts...),
		ClientHandle:   client.NewHandle(stores.Clients, ucOpts...),
		SupplierHandle: supplier.NewHandle(stores.Suppliers, ucOpts...),

		Gate:    authz.NewGate(stores.Roles, authz.WithMetrics(opts.Metrics)),
		JWTAuth: authz.NewVerifier(opts.JWTSecret, opts.JWTIssuer, opts.JWTAudience),

		RateLimit:      opts.RateLimit,
		Metrics:        opts.Metrics,
		MetricsHandler: opts.MetricsHandler,
		Ready:          stores.Ping,
	}
}
