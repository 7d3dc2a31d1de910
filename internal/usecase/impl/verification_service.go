package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"coldstore/config"
	"coldstore/internal/domain/authz"
	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/repository"
	"coldstore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// verificationService implements the VerificationUsecase interface.
type verificationService struct {
	verificationRepo repository.VerificationRepository
	coldRoomRepo     repository.ColdRoomRepository
	pageSize         int
	logger           *slog.Logger
}

// VerificationServiceParams holds dependencies for VerificationService, injected by Fx.
type VerificationServiceParams struct {
	fx.In

	VerificationRepo repository.VerificationRepository
	ColdRoomRepo     repository.ColdRoomRepository
	Config           *config.Config
	Logger           *slog.Logger
}

// NewVerificationService creates a new verification service instance.
func NewVerificationService(params VerificationServiceParams) usecase.VerificationUsecase {
	pageSize := defaultPageSize
	if params.Config != nil && params.Config.Search != nil && params.Config.Search.PageSize > 0 {
		pageSize = params.Config.Search.PageSize
	}

	return &verificationService{
		verificationRepo: params.VerificationRepo,
		coldRoomRepo:     params.ColdRoomRepo,
		pageSize:         pageSize,
		logger:           params.Logger,
	}
}

// List retrieves a page of verification records for an administrator.
func (srv *verificationService) List(ctx context.Context, actor authz.Actor, page int) (*usecase.VerificationPage, error) {
	if !authz.CanReviewVerification(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may list verifications")
	}

	if page < 1 {
		page = 1
	}

	count, err := srv.verificationRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count verifications")
	}

	records, err := srv.verificationRepo.List(ctx, srv.pageSize, (page-1)*srv.pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list verifications")
	}

	return &usecase.VerificationPage{
		Count:      count,
		Results:    records,
		Page:       page,
		TotalPages: totalPages(int(count), srv.pageSize),
	}, nil
}

// Get retrieves a single verification record for an administrator.
func (srv *verificationService) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*entity.Verification, error) {
	if !authz.CanReviewVerification(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may read verifications")
	}

	verification, err := srv.verificationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, domainerrors.ErrVerificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification by ID")
	}

	return verification, nil
}

// Review transitions a verification record. Authorization and transition
// legality are both checked before anything is written, so a rejected review
// leaves the record untouched. Public visibility of the paired cold room is
// derived from the stored status, so no second write is needed here.
func (srv *verificationService) Review(ctx context.Context, actor authz.Actor, id uuid.UUID, input *usecase.ReviewVerificationInput) (*entity.Verification, error) {
	if !authz.CanReviewVerification(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may review verifications")
	}

	next := entity.VerificationStatus(strings.ToUpper(input.Status))
	if !next.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("status must be one of PENDING, APPROVED, REJECTED")
	}

	verification, err := srv.verificationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, domainerrors.ErrVerificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification by ID")
	}

	if !verification.Status.CanTransitionTo(next) {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails(
			verification.Status.String() + " -> " + next.String())
	}

	now := time.Now()
	reviewer := actor.UserID
	verification.Status = next
	verification.ReviewedAt = &now
	verification.ReviewedBy = &reviewer
	if input.Notes != nil {
		verification.Notes = *input.Notes
	}
	if input.DocumentationKey != nil {
		verification.DocumentationKey = *input.DocumentationKey
	}

	if err := srv.verificationRepo.Update(ctx, verification); err != nil {
		return nil, errors.Wrap(err, "failed to update verification")
	}

	srv.logger.Info("Verification reviewed",
		slog.Any("verificationID", verification.ID),
		slog.Any("coldRoomID", verification.ColdRoomID),
		slog.String("status", verification.Status.String()),
		slog.Any("reviewedBy", reviewer))

	return verification, nil
}
