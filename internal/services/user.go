package services

import (
	"context"
	"errors"
	"strings"

	"github.com/reelstack/apiserver/internal/auth"
	"github.com/reelstack/apiserver/internal/cache"
	"github.com/reelstack/apiserver/internal/store"
	"github.com/reelstack/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) (types.User, error)
}

// UserService encapsulates registration, credential verification and the
// read/delete operations users support.
type UserService struct {
	repo  UserRepository
	cache *cache.Cache
}

func NewUserService(repo UserRepository, c *cache.Cache) *UserService {
	return &UserService{repo: repo, cache: c}
}

// Register hashes the password and persists a new user. The returned user is
// the public projection; the hash never leaves the service layer.
func (s *UserService) Register(ctx context.Context, email, username, password string) (types.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return types.User{}, validationf("email, username and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, validationf("email or username already in use")
		}
		return types.User{}, err
	}
	return user.Public(), nil
}

// Authenticate verifies credentials for a username or email identifier.
// Unknown identifiers and wrong passwords fail identically.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (types.User, error) {
	user, err := s.repo.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return types.User{}, ErrInvalidCredentials
	}
	return user.Public(), nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// Delete removes a user. The store cascades to the user's reviews, so the
// joined review listing is invalidated as well.
func (s *UserService) Delete(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	s.cache.Invalidate(ctx, cache.ReviewsListKey)
	return user, nil
}
