// Package user implements account operations: registration, login and
// profile lookup.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
)

// bcrypt cost for new password hashes.
const passwordHashCost = 12

// userRepo defines the user repository interface needed by the service.
type userRepo interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// jwtManager defines the token management interface needed by the service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
}

// auditRecorder appends activity entries.
type auditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

// AuthResult is what a successful register or login returns.
type AuthResult struct {
	User  *domain.User
	Token string
}

// Service provides account operations.
type Service struct {
	log   *slog.Logger
	users userRepo
	jwt   jwtManager
	audit auditRecorder
}

// NewService creates a new user service.
func NewService(logger *slog.Logger, users userRepo, jwt jwtManager, audit auditRecorder) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
		jwt:   jwt,
		audit: audit,
	}
}
