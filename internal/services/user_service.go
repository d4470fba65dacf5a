package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/core/auth"
	db "github.com/markdave123-py/Cluster/internal/core/database"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/models"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserService struct {
	db     db.DbClient
	tokens *auth.TokenManager
	log    *logger.Logger
}

func NewUserService(store db.DbClient, tokens *auth.TokenManager, log *logger.Logger) *UserService {
	return &UserService{db: store, tokens: tokens, log: log}
}

// Register creates a user with a hashed password. Emails are unique.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return nil, apierr.BadRequest(describeValidation(err))
	}

	existing, err := s.db.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, apierr.Upstream("Internal Server Error", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("Email is already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apierr.Upstream("Internal Server Error", err)
	}

	u := &models.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	if err := s.db.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, apierr.Conflict("Email is already registered")
		}
		return nil, apierr.Upstream("Internal Server Error", err)
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, time.Time, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return "", time.Time{}, apierr.BadRequest(describeValidation(err))
	}

	u, err := s.db.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return "", time.Time{}, apierr.Upstream("Internal Server Error", err)
	}
	if u == nil || !auth.VerifyPassword(in.Password, u.PasswordHash) {
		return "", time.Time{}, apierr.Unauthorized("Invalid email or password")
	}

	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", time.Time{}, apierr.Upstream("Internal Server Error", err)
	}
	return token, exp, nil
}

// Authenticate resolves the user a bearer token belongs to.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return nil, apierr.Unauthorized("Token expired")
	case errors.Is(err, auth.ErrMissingSubject):
		return nil, apierr.Unauthorized("Invalid authentication credentials")
	case err != nil:
		return nil, apierr.Unauthorized("Invalid token")
	}

	u, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apierr.Upstream("Internal Server Error", err)
	}
	if u == nil {
		return nil, apierr.Unauthorized("User not found")
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
