package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/password"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/tokengenerator"
	"github.com/tendant/simple-crm/pkg/usecase"
	"github.com/tendant/simple-crm/pkg/user"
	"github.com/tendant/simple-crm/pkg/validation"
)

// Users is the part of the user store that authentication reads.
type Users interface {
	FindByID(ctx context.Context, id uuid.UUID) (user.User, error)
	FindByUsername(ctx context.Context, username string) (user.User, error)
}

// Tokens issues and verifies the token pair.
type Tokens interface {
	IssueAccessToken(s tokengenerator.Subject) (string, error)
	IssueTokenPair(s tokengenerator.Subject) (tokengenerator.TokenPair, error)
	VerifyRefreshToken(token string) (tokengenerator.Subject, error)
}

// LoginInput carries the credentials of a sign-in.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges a username and password for a token pair.
type Login struct {
	users  Users
	hasher password.Hasher
	tokens Tokens

	decoyOnce sync.Once
	decoy     string
}

func NewLogin(users Users, hasher password.Hasher, tokens Tokens) *Login {
	return &Login{users: users, hasher: hasher, tokens: tokens}
}

func (uc *Login) Schema() *openapi3.Schema {
	return validation.Object(map[string]*openapi3.Schema{
		"username": validation.Text(1, 50),
		"password": validation.Text(1, 72),
	}, "username", "password")
}

// Execute never reveals which of the username or the password was wrong.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (usecase.Outcome[tokengenerator.TokenPair], error) {
	u, err := uc.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, repository.ErrNotFound) {
		// Unknown usernames pay for a hash comparison too, so response time does not
		// tell them apart from wrong passwords.
		_, _ = uc.hasher.Verify(in.Password, uc.decoyHash())
		slog.Info("Login failed", "reason", "unknown username")
		return usecase.Fail[tokengenerator.TokenPair](apperrors.CredentialMismatch()), nil
	}
	if err != nil {
		return usecase.Outcome[tokengenerator.TokenPair]{}, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := uc.hasher.Verify(in.Password, u.PasswordHash)
	if err != nil {
		return usecase.Outcome[tokengenerator.TokenPair]{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		slog.Info("Login failed", "userId", u.ID, "reason", "password mismatch")
		return usecase.Fail[tokengenerator.TokenPair](apperrors.CredentialMismatch()), nil
	}
	if !u.Active {
		slog.Info("Login failed", "userId", u.ID, "reason", "inactive user")
		return usecase.Fail[tokengenerator.TokenPair](apperrors.CredentialMismatch()), nil
	}

	pair, err := uc.tokens.IssueTokenPair(tokengenerator.Subject{UserID: u.ID, RoleID: u.RoleID})
	if err != nil {
		return usecase.Outcome[tokengenerator.TokenPair]{}, err
	}
	slog.Info("Login succeeded", "userId", u.ID)
	return usecase.Ok(pair), nil
}

// decoyHash is a hash of a random password made with the configured hasher, so it
// costs the same to compare against as a stored hash.
func (uc *Login) decoyHash() string {
	uc.decoyOnce.Do(func() {
		hash, err := uc.hasher.Hash(uuid.NewString())
		if err != nil {
			slog.Error("failed to build decoy password hash", "err", err)
			return
		}
		uc.decoy = hash
	})
	return uc.decoy
}

// RefreshInput carries a refresh token.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh issues a new access token for a valid refresh token. The refresh token itself is
// returned unchanged.
type Refresh struct {
	users  Users
	tokens Tokens
}

func NewRefresh(users Users, tokens Tokens) *Refresh {
	return &Refresh{users: users, tokens: tokens}
}

func (uc *Refresh) Schema() *openapi3.Schema {
	return validation.Object(map[string]*openapi3.Schema{
		"refreshToken": validation.Text(1, 0),
	}, "refreshToken")
}

func (uc *Refresh) Execute(ctx context.Context, in RefreshInput) (usecase.Outcome[tokengenerator.TokenPair], error) {
	subject, err := uc.tokens.VerifyRefreshToken(in.RefreshToken)
	if err != nil {
		slog.Info("Refresh rejected", "err", err)
		return usecase.Fail[tokengenerator.TokenPair](apperrors.InvalidToken()), nil
	}

	u, err := uc.users.FindByID(ctx, subject.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Info("Refresh rejected", "userId", subject.UserID, "reason", "user no longer exists")
		return usecase.Fail[tokengenerator.TokenPair](apperrors.InvalidToken()), nil
	}
	if err != nil {
		return usecase.Outcome[tokengenerator.TokenPair]{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.Active {
		slog.Info("Refresh rejected", "userId", u.ID, "reason", "inactive user")
		return usecase.Fail[tokengenerator.TokenPair](apperrors.InvalidToken()), nil
	}

	// The role is read from the store so a reassignment takes effect on the next refresh.
	access, err := uc.tokens.IssueAccessToken(tokengenerator.Subject{UserID: u.ID, RoleID: u.RoleID})
	if err != nil {
		return usecase.Outcome[tokengenerator.TokenPair]{}, err
	}
	return usecase.Ok(tokengenerator.TokenPair{AccessToken: access, RefreshToken: in.RefreshToken}), nil
}
