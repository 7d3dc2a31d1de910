package usecase

import (
	"context"

	"coldstore/internal/domain/authz"
	"coldstore/internal/domain/entity"

	"github.com/google/uuid"
)

// ReviewVerificationInput represents an administrator's review action.
type ReviewVerificationInput struct {
	Status           string  `json:"status"`
	Notes            *string `json:"notes,omitempty"`
	DocumentationKey *string `json:"documentation_key,omitempty"`
}

// VerificationPage is one page of verification records.
type VerificationPage struct {
	Count      int64                  `json:"count"`
	Results    []*entity.Verification `json:"results"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
}

// VerificationUsecase defines the administrator-scoped review operations.
type VerificationUsecase interface {
	// List retrieves a page of verification records, newest submissions first.
	List(ctx context.Context, actor authz.Actor, page int) (*VerificationPage, error)

	// Get retrieves a single verification record.
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*entity.Verification, error)

	// Review transitions a verification record to a new status, stamping the
	// reviewer and review time. Illegal transitions are rejected without any
	// state change.
	Review(ctx context.Context, actor authz.Actor, id uuid.UUID, input *ReviewVerificationInput) (*entity.Verification, error)
}
