package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/auth"
	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// Login authenticates a user with email + password.
// Returns ErrUnauthorized if the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("user.Login get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("user.Login issue token: %w", err)
	}

	s.audit.Record(ctxutil.WithUserID(ctx, user.ID), domain.ActionLogin, map[string]any{
		"email": user.Email,
	})

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()))

	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.GetByID(ctx, userID)
}

// GetByID returns a user by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.GetByID: %w", err)
	}
	return user, nil
}
