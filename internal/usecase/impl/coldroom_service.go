// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coldstore/internal/domain/authz"
	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/repository"
	"coldstore/internal/domain/service"
	"coldstore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// coldRoomService implements the ColdRoomUsecase interface.
type coldRoomService struct {
	txManager    repository.TransactionManager
	coldRoomRepo repository.ColdRoomRepository
	docStore     service.DocumentStore
	logger       *slog.Logger
}

// ColdRoomServiceParams holds dependencies for ColdRoomService, injected by Fx.
type ColdRoomServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ColdRoomRepo repository.ColdRoomRepository
	DocStore     service.DocumentStore
	Logger       *slog.Logger
}

// NewColdRoomService is the constructor for coldRoomService.
func NewColdRoomService(params ColdRoomServiceParams) usecase.ColdRoomUsecase {
	return &coldRoomService{
		txManager:    params.TxManager,
		coldRoomRepo: params.ColdRoomRepo,
		docStore:     params.DocStore,
		logger:       params.Logger,
	}
}

// Create validates the listing attributes and persists the cold room together
// with its PENDING verification record. The two writes share one transaction:
// a listing without a verification record must never be observable.
func (srv *coldRoomService) Create(ctx context.Context, actor authz.Actor, input *usecase.CreateColdRoomInput) (*entity.ColdRoom, error) {
	if !authz.CanCreateColdRoom(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only cold room owners may create listings")
	}

	unit := entity.TemperatureUnit(input.TempUnit)
	if err := validateColdRoomAttributes(input.Latitude, input.Longitude, input.CapacityKg, input.TempMin, input.TempMax, unit); err != nil {
		return nil, err
	}

	now := time.Now()
	room := &entity.ColdRoom{
		ID:                   uuid.New(),
		OwnerID:              actor.UserID,
		Name:                 input.Name,
		Description:          input.Description,
		Address:              input.Address,
		Latitude:             input.Latitude,
		Longitude:            input.Longitude,
		CapacityKg:           input.CapacityKg,
		PricePerKgPerMonth:   input.PricePerKgPerMonth,
		Features:             input.Features,
		TempMin:              input.TempMin,
		TempMax:              input.TempMax,
		TempUnit:             unit,
		AvailabilitySchedule: input.AvailabilitySchedule,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ColdRoomRepo().Create(ctx, room); err != nil {
			return errors.Wrap(err, "failed to create cold room")
		}

		verification := &entity.Verification{
			ID:          uuid.New(),
			ColdRoomID:  room.ID,
			Status:      entity.VerificationPending,
			SubmittedAt: now,
		}
		if err := repoFactory.VerificationRepo().Create(ctx, verification); err != nil {
			return errors.Wrap(err, "failed to create pending verification")
		}

		room.Verification = verification

		return nil
	})
	if err != nil {
		srv.logger.Error("Failed to execute cold room creation transaction",
			slog.Any("ownerID", actor.UserID), slog.Any("error", err))

		return nil, err
	}

	return room, nil
}

// ListOwn retrieves all listings belonging to the actor, any review status.
func (srv *coldRoomService) ListOwn(ctx context.Context, actor authz.Actor) ([]*entity.ColdRoom, error) {
	rooms, err := srv.coldRoomRepo.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cold rooms by owner")
	}

	return rooms, nil
}

// Get retrieves a single listing for its owner.
func (srv *coldRoomService) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*entity.ColdRoom, error) {
	room, err := srv.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if room.Verification == nil {
		// Creation is transactional, so a missing verification record means
		// the store itself is inconsistent. Logged as a defect, surfaced generically.
		srv.logger.Error("Cold room has no paired verification record", slog.Any("coldRoomID", room.ID))

		return nil, domainerrors.ErrConsistency
	}

	return room, nil
}

// Update applies a partial update, re-validating the listing invariants
// against the patched values before anything is written.
func (srv *coldRoomService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input *usecase.UpdateColdRoomInput) (*entity.ColdRoom, error) {
	room, err := srv.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	applyColdRoomUpdates(room, input)

	if err := validateColdRoomAttributes(room.Latitude, room.Longitude, room.CapacityKg, room.TempMin, room.TempMax, room.TempUnit); err != nil {
		return nil, err
	}

	if err := srv.coldRoomRepo.Update(ctx, room); err != nil {
		return nil, errors.Wrap(err, "failed to update cold room")
	}

	return room, nil
}

// Delete removes a listing. The verification record and gallery rows go with
// it via cascade; stored image blobs are cleaned up best-effort.
func (srv *coldRoomService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	room, err := srv.findOwned(ctx, actor, id)
	if err != nil {
		return err
	}

	images, err := srv.coldRoomRepo.FindImages(ctx, room.ID)
	if err != nil {
		return errors.Wrap(err, "failed to list cold room images")
	}

	if err := srv.coldRoomRepo.Delete(ctx, room.ID); err != nil {
		return errors.Wrap(err, "failed to delete cold room")
	}

	for _, image := range images {
		if err := srv.docStore.Delete(ctx, image.BlobKey); err != nil {
			srv.logger.Warn("Failed to delete image blob",
				slog.String("blobKey", image.BlobKey), slog.Any("error", err))
		}
	}

	return nil
}

// AddImage stores the image bytes in the document bucket and records the
// gallery entry.
func (srv *coldRoomService) AddImage(ctx context.Context, actor authz.Actor, id uuid.UUID, input *usecase.AddImageInput) (*entity.ColdRoomImage, error) {
	room, err := srv.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("cold-rooms/%s/images/%s", room.ID, uuid.New())
	storedKey, err := srv.docStore.Save(ctx, key, input.ContentType, input.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store image blob")
	}

	image := &entity.ColdRoomImage{
		ID:         uuid.New(),
		ColdRoomID: room.ID,
		BlobKey:    storedKey,
		Caption:    input.Caption,
		IsPrimary:  input.IsPrimary,
		UploadedAt: time.Now(),
	}
	if err := srv.coldRoomRepo.AddImage(ctx, image); err != nil {
		return nil, errors.Wrap(err, "failed to record cold room image")
	}

	return image, nil
}

// ListImages retrieves the gallery for an owned listing.
func (srv *coldRoomService) ListImages(ctx context.Context, actor authz.Actor, id uuid.UUID) ([]*entity.ColdRoomImage, error) {
	room, err := srv.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	images, err := srv.coldRoomRepo.FindImages(ctx, room.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cold room images")
	}

	for _, image := range images {
		url, err := srv.docStore.SignedURL(ctx, image.BlobKey)
		if err != nil {
			// The gallery record is still useful without a readable URL.
			srv.logger.Warn("Failed to sign image URL",
				slog.String("blobKey", image.BlobKey), slog.Any("error", err))

			continue
		}
		image.URL = url
	}

	return images, nil
}

// findOwned loads a cold room and rejects every actor but its owner.
func (srv *coldRoomService) findOwned(ctx context.Context, actor authz.Actor, id uuid.UUID) (*entity.ColdRoom, error) {
	room, err := srv.coldRoomRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrColdRoomNotFound) {
			return nil, domainerrors.ErrColdRoomNotFound
		}

		return nil, errors.Wrap(err, "failed to find cold room by ID")
	}

	if !authz.CanManageColdRoom(actor, room) {
		return nil, domainerrors.ErrForbidden.WrapMessage("cold room belongs to another owner")
	}

	return room, nil
}

// validateColdRoomAttributes enforces the listing invariants: coordinates in
// range, positive capacity, a known temperature unit and temp_min <= temp_max.
func validateColdRoomAttributes(lat, lon float64, capacityKg int, tempMin, tempMax float64, unit entity.TemperatureUnit) error {
	if lat < -90 || lat > 90 {
		return domainerrors.ErrValidationFailed.WithDetails("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return domainerrors.ErrValidationFailed.WithDetails("longitude must be between -180 and 180")
	}
	if capacityKg <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("capacity_kg must be positive")
	}
	if !unit.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("temp_unit must be CELSIUS or FAHRENHEIT")
	}
	if tempMin > tempMax {
		return domainerrors.ErrValidationFailed.WithDetails("temp_min must not exceed temp_max")
	}

	return nil
}

// applyColdRoomUpdates applies the non-nil patch fields to a cold room.
func applyColdRoomUpdates(room *entity.ColdRoom, input *usecase.UpdateColdRoomInput) {
	if input.Name != nil {
		room.Name = *input.Name
	}
	if input.Description != nil {
		room.Description = *input.Description
	}
	if input.Address != nil {
		room.Address = *input.Address
	}
	if input.Latitude != nil {
		room.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		room.Longitude = *input.Longitude
	}
	if input.CapacityKg != nil {
		room.CapacityKg = *input.CapacityKg
	}
	if input.PricePerKgPerMonth != nil {
		room.PricePerKgPerMonth = *input.PricePerKgPerMonth
	}
	if input.Features != nil {
		room.Features = *input.Features
	}
	if input.TempMin != nil {
		room.TempMin = *input.TempMin
	}
	if input.TempMax != nil {
		room.TempMax = *input.TempMax
	}
	if input.TempUnit != nil {
		room.TempUnit = entity.TemperatureUnit(*input.TempUnit)
	}
	if input.AvailabilitySchedule != nil {
		room.AvailabilitySchedule = input.AvailabilitySchedule
	}
	room.UpdatedAt = time.Now()
}
