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

// Register creates a new staff account and signs the user in.
// Returns ErrAlreadyExists if the email or username is already taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Normalize input before validation.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	input.Department = trimOrNil(input.Department)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("user.Register hash password: %w", err)
	}

	// Email and username uniqueness are enforced by DB constraints.
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Department:   input.Department,
		Role:         domain.RoleStaff,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("user.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("user.Register: %w", err)
	}

	token, err := s.jwt.GenerateAccessToken(created.ID, created.Role.String())
	if err != nil {
		return nil, fmt.Errorf("user.Register issue token: %w", err)
	}

	s.audit.Record(ctxutil.WithUserID(ctx, created.ID), domain.ActionRegister, map[string]any{
		"email": created.Email,
	})

	s.log.InfoContext(ctx, "user registered",
		slog.String("user_id", created.ID.String()))

	return &AuthResult{User: created, Token: token}, nil
}
