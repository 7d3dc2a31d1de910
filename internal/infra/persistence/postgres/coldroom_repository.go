package postgres

import (
	"context"
	"encoding/json"

	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/repository"
	"coldstore/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// coldRoomRepository implements the domain's ColdRoomRepository interface using GORM.
type coldRoomRepository struct {
	db *gorm.DB
}

// NewColdRoomRepository is the constructor for coldRoomRepository.
func NewColdRoomRepository(db *gorm.DB) repository.ColdRoomRepository {
	return &coldRoomRepository{db: db}
}

// Create persists a new cold room listing.
func (repo *coldRoomRepository) Create(ctx context.Context, room *entity.ColdRoom) error {
	roomM, err := fromColdRoomDomain(room)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(roomM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("cold room violates a schema constraint")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrColdRoomCreationFailed.WrapMessage("owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cold room")
	}

	room.CreatedAt = roomM.CreatedAt
	room.UpdatedAt = roomM.UpdatedAt

	return nil
}

// FindByID retrieves a single cold room with its paired verification record.
func (repo *coldRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ColdRoom, error) {
	var roomM model.ColdRoomModel
	err := repo.db.WithContext(ctx).
		Preload("Verification").
		Where("id = ?", id).
		First(&roomM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrColdRoomNotFound
		}

		return nil, errors.Wrap(err, "failed to find cold room by id")
	}

	return toColdRoomDomain(&roomM)
}

// FindByOwner retrieves all cold rooms belonging to an owner, newest first.
func (repo *coldRoomRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.ColdRoom, error) {
	var roomsM []model.ColdRoomModel
	err := repo.db.WithContext(ctx).
		Preload("Verification").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&roomsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cold rooms by owner")
	}

	return toColdRoomDomainSlice(roomsM)
}

// Update modifies an existing cold room listing. The verification record is
// never written through this path.
func (repo *coldRoomRepository) Update(ctx context.Context, room *entity.ColdRoom) error {
	roomM, err := fromColdRoomDomain(room)
	if err != nil {
		return err
	}

	// Every owner-editable column is selected explicitly: a plain struct
	// update would drop zero values such as temp_min 0 or an emptied
	// description. OwnerID and CreatedAt stay untouched.
	result := repo.db.WithContext(ctx).
		Model(&model.ColdRoomModel{}).
		Where("id = ?", room.ID).
		Select("Name", "Description", "Address", "Latitude", "Longitude",
			"CapacityKg", "PricePerKgPerMonth", "Features",
			"TempMin", "TempMax", "TempUnit", "AvailabilitySchedule", "UpdatedAt").
		Updates(roomM)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("cold room violates a schema constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cold room")
	}
	if result.RowsAffected == 0 {
		return repository.ErrColdRoomNotFound
	}

	return nil
}

// Delete removes a cold room. Verification and image rows go with it via
// ON DELETE CASCADE.
func (repo *coldRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ColdRoomModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cold room")
	}
	if result.RowsAffected == 0 {
		return repository.ErrColdRoomNotFound
	}

	return nil
}

// verifiedScope joins cold rooms to their approved verification record.
func verifiedScope(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN verifications ON verifications.cold_room_id = cold_rooms.id").
		Where("verifications.status = ?", entity.VerificationApproved.String())
}

// FindVerified retrieves a page of approved cold rooms, newest first.
func (repo *coldRoomRepository) FindVerified(ctx context.Context, limit, offset int) ([]*entity.ColdRoom, error) {
	var roomsM []model.ColdRoomModel
	err := repo.db.WithContext(ctx).
		Scopes(verifiedScope).
		Preload("Verification").
		Order("cold_rooms.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&roomsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find verified cold rooms")
	}

	return toColdRoomDomainSlice(roomsM)
}

// CountVerified returns the total number of approved cold rooms.
func (repo *coldRoomRepository) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ColdRoomModel{}).
		Scopes(verifiedScope).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count verified cold rooms")
	}

	return count, nil
}

// FindVerifiedWithinBounds retrieves all approved cold rooms inside the
// bounding box. The box is a coarse pre-filter; the caller applies the exact
// geodesic distance check.
func (repo *coldRoomRepository) FindVerifiedWithinBounds(ctx context.Context, bounds repository.BoundingBox) ([]*entity.ColdRoom, error) {
	var roomsM []model.ColdRoomModel
	err := repo.db.WithContext(ctx).
		Scopes(verifiedScope).
		Preload("Verification").
		Where("cold_rooms.latitude BETWEEN ? AND ?", bounds.MinLat, bounds.MaxLat).
		Where("cold_rooms.longitude BETWEEN ? AND ?", bounds.MinLon, bounds.MaxLon).
		Find(&roomsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find verified cold rooms within bounds")
	}

	return toColdRoomDomainSlice(roomsM)
}

// AddImage persists a gallery image record for a cold room.
func (repo *coldRoomRepository) AddImage(ctx context.Context, image *entity.ColdRoomImage) error {
	imageM := &model.ColdRoomImageModel{
		ID:         image.ID,
		ColdRoomID: image.ColdRoomID,
		BlobKey:    image.BlobKey,
		Caption:    image.Caption,
		IsPrimary:  image.IsPrimary,
		UploadedAt: image.UploadedAt,
	}

	if err := repo.db.WithContext(ctx).Create(imageM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrColdRoomNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cold room image")
	}

	return nil
}

// FindImages retrieves all images for a cold room, primary first.
func (repo *coldRoomRepository) FindImages(ctx context.Context, coldRoomID uuid.UUID) ([]*entity.ColdRoomImage, error) {
	var imagesM []model.ColdRoomImageModel
	err := repo.db.WithContext(ctx).
		Where("cold_room_id = ?", coldRoomID).
		Order("is_primary DESC, uploaded_at ASC").
		Find(&imagesM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cold room images")
	}

	images := make([]*entity.ColdRoomImage, 0, len(imagesM))
	for _, imageM := range imagesM {
		images = append(images, &entity.ColdRoomImage{
			ID:         imageM.ID,
			ColdRoomID: imageM.ColdRoomID,
			BlobKey:    imageM.BlobKey,
			Caption:    imageM.Caption,
			IsPrimary:  imageM.IsPrimary,
			UploadedAt: imageM.UploadedAt,
		})
	}

	return images, nil
}

// --- Mapper Functions ---

// toColdRoomDomain converts a GORM ColdRoomModel to a domain ColdRoom entity.
func toColdRoomDomain(data *model.ColdRoomModel) (*entity.ColdRoom, error) {
	if data == nil {
		return nil, nil
	}

	var features []string
	if len(data.Features) > 0 {
		if err := json.Unmarshal(data.Features, &features); err != nil {
			return nil, errors.Wrap(err, "failed to decode cold room features")
		}
	}

	return &entity.ColdRoom{
		ID:                   data.ID,
		OwnerID:              data.OwnerID,
		Name:                 data.Name,
		Description:          data.Description,
		Address:              data.Address,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		CapacityKg:           data.CapacityKg,
		PricePerKgPerMonth:   data.PricePerKgPerMonth,
		Features:             features,
		TempMin:              data.TempMin,
		TempMax:              data.TempMax,
		TempUnit:             entity.TemperatureUnit(data.TempUnit),
		AvailabilitySchedule: json.RawMessage(data.AvailabilitySchedule),
		Verification:         toVerificationDomain(data.Verification),
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}, nil
}

func toColdRoomDomainSlice(data []model.ColdRoomModel) ([]*entity.ColdRoom, error) {
	rooms := make([]*entity.ColdRoom, 0, len(data))
	for i := range data {
		room, err := toColdRoomDomain(&data[i])
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

// fromColdRoomDomain converts a domain ColdRoom entity to a GORM ColdRoomModel.
func fromColdRoomDomain(data *entity.ColdRoom) (*model.ColdRoomModel, error) {
	if data == nil {
		return nil, nil
	}

	features, err := json.Marshal(data.Features)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode cold room features")
	}

	return &model.ColdRoomModel{
		ID:                   data.ID,
		OwnerID:              data.OwnerID,
		Name:                 data.Name,
		Description:          data.Description,
		Address:              data.Address,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		CapacityKg:           data.CapacityKg,
		PricePerKgPerMonth:   data.PricePerKgPerMonth,
		Features:             datatypes.JSON(features),
		TempMin:              data.TempMin,
		TempMax:              data.TempMax,
		TempUnit:             data.TempUnit.String(),
		AvailabilitySchedule: datatypes.JSON(data.AvailabilitySchedule),
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}, nil
}
