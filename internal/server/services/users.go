// Package services contains server-side business logic. This file implements
// UserService: registration with bcrypt password hashing and login that
// mints a signed access token.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fitplan/internal/common"
	"fitplan/internal/server/auth"
	"fitplan/internal/server/config"
	"fitplan/internal/server/models"
	"fitplan/internal/server/repositories/users"
)

// passwordHashCost keeps one hash in the tens-of-milliseconds range,
// matching the cost the stored hashes were created with.
const passwordHashCost = 10

// dummyHash is compared against when the username does not exist, so the
// absent-user and wrong-password paths cost the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("fitplan.no.such.user"), passwordHashCost)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint an access token
type UserService struct {
	repo                        users.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using the users repository and
// server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user with the given username and password. The
// password is hashed before it reaches storage; the plaintext is never
// persisted. A taken username yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, returns a signed access
// token. An unknown username and a wrong password are indistinguishable to
// the caller: both yield common.ErrUnauthorized, and the unknown-username
// path still performs a bcrypt comparison.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}
