package postgres

import (
	"context"

	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/repository"
	"coldstore/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// verificationRepository implements the domain's VerificationRepository interface using GORM.
type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository is the constructor for verificationRepository.
func NewVerificationRepository(db *gorm.DB) repository.VerificationRepository {
	return &verificationRepository{db: db}
}

// Create persists a new verification record. The unique index on cold_room_id
// rejects a second record for the same room.
func (repo *verificationRepository) Create(ctx context.Context, verification *entity.Verification) error {
	verificationM := fromVerificationDomain(verification)

	if err := repo.db.WithContext(ctx).Create(verificationM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("verification already exists for cold room")
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrColdRoomNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create verification")
	}

	return nil
}

// FindByID retrieves a single verification record by its unique ID.
func (repo *verificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error) {
	var verificationM model.VerificationModel
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&verificationM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVerificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification by id")
	}

	return toVerificationDomain(&verificationM), nil
}

// FindByColdRoomID retrieves the verification record paired with a cold room.
func (repo *verificationRepository) FindByColdRoomID(ctx context.Context, coldRoomID uuid.UUID) (*entity.Verification, error) {
	var verificationM model.VerificationModel
	err := repo.db.WithContext(ctx).Where("cold_room_id = ?", coldRoomID).First(&verificationM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVerificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification by cold room id")
	}

	return toVerificationDomain(&verificationM), nil
}

// List retrieves a page of verification records, newest submissions first.
func (repo *verificationRepository) List(ctx context.Context, limit, offset int) ([]*entity.Verification, error) {
	var verificationsM []model.VerificationModel
	err := repo.db.WithContext(ctx).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&verificationsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list verifications")
	}

	verifications := make([]*entity.Verification, 0, len(verificationsM))
	for i := range verificationsM {
		verifications = append(verifications, toVerificationDomain(&verificationsM[i]))
	}

	return verifications, nil
}

// Count returns the total number of verification records.
func (repo *verificationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.VerificationModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count verifications")
	}

	return count, nil
}

// Update persists a status transition and its review metadata.
func (repo *verificationRepository) Update(ctx context.Context, verification *entity.Verification) error {
	verificationM := fromVerificationDomain(verification)

	result := repo.db.WithContext(ctx).
		Model(&model.VerificationModel{}).
		Where("id = ?", verification.ID).
		Select("Status", "ReviewedAt", "ReviewedBy", "Notes", "DocumentationKey").
		Updates(verificationM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update verification")
	}
	if result.RowsAffected == 0 {
		return repository.ErrVerificationNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toVerificationDomain converts a GORM VerificationModel to a domain Verification entity.
func toVerificationDomain(data *model.VerificationModel) *entity.Verification {
	if data == nil {
		return nil
	}

	return &entity.Verification{
		ID:               data.ID,
		ColdRoomID:       data.ColdRoomID,
		Status:           entity.VerificationStatus(data.Status),
		SubmittedAt:      data.SubmittedAt,
		ReviewedAt:       data.ReviewedAt,
		ReviewedBy:       data.ReviewedBy,
		Notes:            data.Notes,
		DocumentationKey: data.DocumentationKey,
	}
}

// fromVerificationDomain converts a domain Verification entity to a GORM VerificationModel.
func fromVerificationDomain(data *entity.Verification) *model.VerificationModel {
	if data == nil {
		return nil
	}

	return &model.VerificationModel{
		ID:               data.ID,
		ColdRoomID:       data.ColdRoomID,
		Status:           data.Status.String(),
		SubmittedAt:      data.SubmittedAt,
		ReviewedAt:       data.ReviewedAt,
		ReviewedBy:       data.ReviewedBy,
		Notes:            data.Notes,
		DocumentationKey: data.DocumentationKey,
	}
}
