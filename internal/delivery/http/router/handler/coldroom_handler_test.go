package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpmiddleware "coldstore/internal/delivery/http/middleware"
	"coldstore/internal/domain/authz"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/entity"
	"coldstore/internal/usecase"
)

type stubColdRoomUsecase struct {
	room   *entity.ColdRoom
	rooms  []*entity.ColdRoom
	image  *entity.ColdRoomImage
	images []*entity.ColdRoomImage
	err    error
}

func (s *stubColdRoomUsecase) Create(_ context.Context, _ authz.Actor, _ *usecase.CreateColdRoomInput) (*entity.ColdRoom, error) {
	return s.room, s.err
}

func (s *stubColdRoomUsecase) ListOwn(_ context.Context, _ authz.Actor) ([]*entity.ColdRoom, error) {
	return s.rooms, s.err
}

func (s *stubColdRoomUsecase) Get(_ context.Context, _ authz.Actor, _ uuid.UUID) (*entity.ColdRoom, error) {
	return s.room, s.err
}

func (s *stubColdRoomUsecase) Update(_ context.Context, _ authz.Actor, _ uuid.UUID, _ *usecase.UpdateColdRoomInput) (*entity.ColdRoom, error) {
	return s.room, s.err
}

func (s *stubColdRoomUsecase) Delete(_ context.Context, _ authz.Actor, _ uuid.UUID) error {
	return s.err
}

func (s *stubColdRoomUsecase) AddImage(_ context.Context, _ authz.Actor, _ uuid.UUID, _ *usecase.AddImageInput) (*entity.ColdRoomImage, error) {
	return s.image, s.err
}

func (s *stubColdRoomUsecase) ListImages(_ context.Context, _ authz.Actor, _ uuid.UUID) ([]*entity.ColdRoomImage, error) {
	return s.images, s.err
}

// withActor injects an authenticated actor the way AuthMiddleware does.
func withActor(actor authz.Actor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(httpmiddleware.ContextKeyActor, actor)
			c.Set(httpmiddleware.ContextKeyRoles, actor.Roles.ToStrings())

			return next(c)
		}
	}
}

func TestColdRoomHandler_GetRejectsNonOwnerWith403(t *testing.T) {
	uc := &stubColdRoomUsecase{err: domainerrors.ErrForbidden}
	h := NewColdRoomHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := newTestEcho()
	actor := authz.Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleColdRoomOwner}}
	e.GET("/cold-rooms/:id", h.Get, withActor(actor))

	req := httptest.NewRequest(http.MethodGet, "/cold-rooms/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestColdRoomHandler_GetUnknownRoomYields404(t *testing.T) {
	uc := &stubColdRoomUsecase{err: domainerrors.ErrColdRoomNotFound}
	h := NewColdRoomHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := newTestEcho()
	actor := authz.Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleColdRoomOwner}}
	e.GET("/cold-rooms/:id", h.Get, withActor(actor))

	req := httptest.NewRequest(http.MethodGet, "/cold-rooms/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestColdRoomHandler_RequiresAuthenticatedActor(t *testing.T) {
	uc := &stubColdRoomUsecase{rooms: []*entity.ColdRoom{}}
	h := NewColdRoomHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := newTestEcho()
	// No actor middleware: simulates a route mistakenly left unauthenticated.
	e.GET("/cold-rooms", h.ListOwn)

	req := httptest.NewRequest(http.MethodGet, "/cold-rooms", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestColdRoomHandler_GetRejectsMalformedID(t *testing.T) {
	uc := &stubColdRoomUsecase{room: verifiedRoom("X")}
	h := NewColdRoomHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := newTestEcho()
	actor := authz.Actor{UserID: uuid.New(), Roles: entity.Roles{entity.RoleColdRoomOwner}}
	e.GET("/cold-rooms/:id", h.Get, withActor(actor))

	req := httptest.NewRequest(http.MethodGet, "/cold-rooms/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestColdRoomHandler_ListOwnReturnsOwnListings(t *testing.T) {
	owned := verifiedRoom("Own Room")
	uc := &stubColdRoomUsecase{rooms: []*entity.ColdRoom{owned}}
	h := NewColdRoomHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := newTestEcho()
	actor := authz.Actor{UserID: owned.OwnerID, Roles: entity.Roles{entity.RoleColdRoomOwner}}
	e.GET("/cold-rooms", h.ListOwn, withActor(actor))

	req := httptest.NewRequest(http.MethodGet, "/cold-rooms", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			Name       string `json:"name"`
			IsVerified bool   `json:"is_verified"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Own Room", body.Data[0].Name)
	assert.True(t, body.Data[0].IsVerified)
}
