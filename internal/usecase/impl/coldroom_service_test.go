package impl

import (
	"context"
	"strings"
	"testing"

	"coldstore/internal/domain/authz"
	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coldRoomServiceFixture struct {
	service  usecase.ColdRoomUsecase
	factory  *fakeRepoFactory
	docStore *fakeDocumentStore
}

func newColdRoomServiceFixture() *coldRoomServiceFixture {
	factory := newFakeRepoFactory()
	docStore := newFakeDocumentStore()

	return &coldRoomServiceFixture{
		service: NewColdRoomService(ColdRoomServiceParams{
			TxManager:    &fakeTxManager{factory: factory},
			ColdRoomRepo: factory.coldRoomRepo,
			DocStore:     docStore,
			Logger:       newDiscardLogger(),
		}),
		factory:  factory,
		docStore: docStore,
	}
}

func ownerActor() authz.Actor {
	return authz.Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleColdRoomOwner}}
}

func validCreateInput() *usecase.CreateColdRoomInput {
	return &usecase.CreateColdRoomInput{
		Name:               "Harbor Cold Store",
		Address:            "12 Quay Road",
		Latitude:           35.0,
		Longitude:          -1.1,
		CapacityKg:         5000,
		PricePerKgPerMonth: 0.25,
		TempMin:            -20,
		TempMax:            -5,
		TempUnit:           "CELSIUS",
	}
}

func TestColdRoomService_Create_PairsPendingVerification(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	actor := ownerActor()

	room, err := fixture.service.Create(context.Background(), actor, validCreateInput())

	require.NoError(t, err)
	require.NotNil(t, room.Verification)
	assert.Equal(t, entity.VerificationPending, room.Verification.Status)
	assert.Equal(t, room.ID, room.Verification.ColdRoomID)
	assert.Equal(t, actor.UserID, room.OwnerID)
	assert.False(t, room.IsVerified())

	stored, err := fixture.factory.verificationRepo.FindByColdRoomID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationPending, stored.Status)
}

func TestColdRoomService_Create_RejectsNonOwnerRole(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	farmer := authz.Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleFarmer}}

	_, err := fixture.service.Create(context.Background(), farmer, validCreateInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestColdRoomService_Create_ValidatesAttributes(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	actor := ownerActor()

	cases := []struct {
		name   string
		mutate func(*usecase.CreateColdRoomInput)
	}{
		{"latitude out of range", func(in *usecase.CreateColdRoomInput) { in.Latitude = 91 }},
		{"longitude out of range", func(in *usecase.CreateColdRoomInput) { in.Longitude = -181 }},
		{"zero capacity", func(in *usecase.CreateColdRoomInput) { in.CapacityKg = 0 }},
		{"unknown temperature unit", func(in *usecase.CreateColdRoomInput) { in.TempUnit = "KELVIN" }},
		{"inverted temperature range", func(in *usecase.CreateColdRoomInput) { in.TempMin = 0; in.TempMax = -10 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(input)

			_, err := fixture.service.Create(context.Background(), actor, input)

			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestColdRoomService_Get_RejectsNonOwner(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	owner := ownerActor()
	room, err := fixture.service.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	stranger := ownerActor()
	_, err = fixture.service.Get(context.Background(), stranger, room.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestColdRoomService_Get_UnknownRoom(t *testing.T) {
	fixture := newColdRoomServiceFixture()

	_, err := fixture.service.Get(context.Background(), ownerActor(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrColdRoomNotFound)
}

func TestColdRoomService_Get_MissingVerificationIsConsistencyError(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	owner := ownerActor()
	room := &entity.ColdRoom{
		ID:         uuid.New(),
		OwnerID:    owner.UserID,
		Name:       "orphaned",
		CapacityKg: 100,
		TempMax:    1,
		TempUnit:   entity.TemperatureCelsius,
	}
	require.NoError(t, fixture.factory.coldRoomRepo.Create(context.Background(), room))

	_, err := fixture.service.Get(context.Background(), owner, room.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConsistency)
}

func TestColdRoomService_Update_AppliesPatchAndRevalidates(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	owner := ownerActor()
	room, err := fixture.service.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	newName := "Quayside Cold Store"
	newCapacity := 8000
	updated, err := fixture.service.Update(context.Background(), owner, room.ID, &usecase.UpdateColdRoomInput{
		Name:       &newName,
		CapacityKg: &newCapacity,
	})

	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newCapacity, updated.CapacityKg)
	assert.Equal(t, room.Address, updated.Address)

	badMin := 10.0
	_, err = fixture.service.Update(context.Background(), owner, room.ID, &usecase.UpdateColdRoomInput{
		TempMin: &badMin,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestColdRoomService_Delete_RemovesRoomAndBlobs(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	owner := ownerActor()
	room, err := fixture.service.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	image, err := fixture.service.AddImage(context.Background(), owner, room.ID, &usecase.AddImageInput{
		Caption:     "loading bay",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Delete(context.Background(), owner, room.ID))

	_, err = fixture.service.Get(context.Background(), owner, room.ID)
	assert.ErrorIs(t, err, domainerrors.ErrColdRoomNotFound)
	assert.Contains(t, fixture.docStore.deleted, image.BlobKey)
}

func TestColdRoomService_AddImage_StoresBlobAndRecord(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	owner := ownerActor()
	room, err := fixture.service.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	image, err := fixture.service.AddImage(context.Background(), owner, room.ID, &usecase.AddImageInput{
		Caption:     "exterior",
		IsPrimary:   true,
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, image.BlobKey)
	assert.Contains(t, fixture.docStore.blobs, image.BlobKey)

	images, err := fixture.service.ListImages(context.Background(), owner, room.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.True(t, images[0].IsPrimary)
}

func TestColdRoomService_ListOwn_ReturnsOnlyOwnRooms(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	alice := ownerActor()
	bob := ownerActor()

	_, err := fixture.service.Create(context.Background(), alice, validCreateInput())
	require.NoError(t, err)
	_, err = fixture.service.Create(context.Background(), bob, validCreateInput())
	require.NoError(t, err)

	rooms, err := fixture.service.ListOwn(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, alice.UserID, rooms[0].OwnerID)
}

func TestColdRoomService_ListImages_SignsReadURLs(t *testing.T) {
	fixture := newColdRoomServiceFixture()
	owner := ownerActor()
	room, err := fixture.service.Create(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	added, err := fixture.service.AddImage(context.Background(), owner, room.ID, &usecase.AddImageInput{
		Caption:     "loading dock",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)

	images, err := fixture.service.ListImages(context.Background(), owner, room.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, added.BlobKey, images[0].BlobKey)
	assert.Equal(t, "https://blobs.example.test/"+added.BlobKey, images[0].URL)

	stranger := ownerActor()
	_, err = fixture.service.ListImages(context.Background(), stranger, room.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
