// Package services contains server-side business logic. UserService handles
// registration, login and bearer token verification; PostService owns the
// blog post rules; MediaService presigns cover image uploads.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/auth"
	"github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/repomanager"
)

const minPasswordLength = 6

// dummyPassword is hashed once at startup; logins for unknown emails compare
// against its hash so they cost the same as a wrong password.
const dummyPassword = "wizardry-dummy-password"

type UserService struct {
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	dummyHash             string
	now                   func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	dummy, err := auth.HashPassword(dummyPassword, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &UserService{
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		dummyHash:             dummy,
		now:                   time.Now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: please provide username, email and password", common.ErrorValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	return nil
}

// Register creates an account and returns it together with a fresh token.
// A taken email or username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if err := validateSignup(username, email, password); err != nil {
		return nil, "", err
	}

	repo := s.repomanager.Users()

	_, err := repo.FindByEmailOrUsername(ctx, email, username)
	if err == nil {
		return nil, "", common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if auth.IsPasswordTooLong(err) {
			return nil, "", fmt.Errorf("%w: password is too long", common.ErrorValidation)
		}
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user.Sanitized(), token, nil
}

// Authenticate checks the credentials and returns the user with a fresh
// token. Unknown email and wrong password both yield
// common.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please provide email and password", common.ErrorValidation)
	}

	user, err := s.repomanager.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(s.dummyHash, password)
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error searching user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user.Sanitized(), token, nil
}

func (s *UserService) IssueToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the user id of a valid token. Every failure is reported
// as common.ErrorUnauthorized.
func (s *UserService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return userID, nil
}

// Identify verifies the token and loads its user without the password hash.
// A token whose user no longer exists is unauthorized.
func (s *UserService) Identify(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrInvalidID) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return user.Sanitized(), nil
}

// AuthorName returns the username of userID.
func (s *UserService) AuthorName(ctx context.Context, userID string) (string, error) {
	user, err := s.repomanager.Users().FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
