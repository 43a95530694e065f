package auth

import (
	"context"
	"fmt"

	"github.com/recordsunit/records-backend/internal/domain"
)

type roleLister interface {
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

// ApproverResolver answers who should be told about requests awaiting a
// decision. Routing is by role, never by a fixed user id.
type ApproverResolver struct {
	users roleLister
}

func NewApproverResolver(users roleLister) *ApproverResolver {
	return &ApproverResolver{users: users}
}

// Approvers returns every user allowed to decide requests.
func (r *ApproverResolver) Approvers(ctx context.Context) ([]*domain.User, error) {
	admins, err := r.users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}
