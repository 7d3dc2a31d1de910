package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"coldstore/internal/delivery/http/middleware"
	"coldstore/internal/delivery/http/response"
	"coldstore/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ColdRoomHandler holds dependencies for the owner-scoped listing handlers.
type ColdRoomHandler struct {
	uc     usecase.ColdRoomUsecase
	logger *slog.Logger
}

// NewColdRoomHandler is the constructor for ColdRoomHandler, injected by Fx.
func NewColdRoomHandler(uc usecase.ColdRoomUsecase, logger *slog.Logger) *ColdRoomHandler {
	return &ColdRoomHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create handles the creation of a new cold room listing. The PENDING
// verification record is created in the same transaction.
func (h *ColdRoomHandler) Create(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	var input usecase.CreateColdRoomInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cold room input")
	}

	room, err := h.uc.Create(c.Request().Context(), actor, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, ToColdRoomResponse(room), "Cold room created successfully")
}

// ListOwn handles listing the actor's own cold rooms, verified or not.
func (h *ColdRoomHandler) ListOwn(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	rooms, err := h.uc.ListOwn(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ToColdRoomResponses(rooms), "Cold rooms retrieved successfully")
}

// Get handles retrieving a single listing. Non-owners receive 403.
func (h *ColdRoomHandler) Get(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cold room ID")
	}

	room, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ToColdRoomResponse(room), "Cold room retrieved successfully")
}

// Update handles full and partial updates. Absent fields are left untouched,
// so a full PUT body and a sparse PATCH body go through the same path.
// Ownership and verification state can never be changed here.
func (h *ColdRoomHandler) Update(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cold room ID")
	}

	var input usecase.UpdateColdRoomInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cold room input")
	}

	room, err := h.uc.Update(c.Request().Context(), actor, id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ToColdRoomResponse(room), "Cold room updated successfully")
}

// Delete handles removing a listing along with its verification record and images.
func (h *ColdRoomHandler) Delete(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cold room ID")
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Cold room deleted"}, "Cold room deleted successfully")
}

// AddImage handles a multipart gallery upload for a listing.
func (h *ColdRoomHandler) AddImage(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cold room ID")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded image")
	}
	defer file.Close()

	isPrimary, _ := strconv.ParseBool(c.FormValue("is_primary"))
	input := &usecase.AddImageInput{
		Caption:     c.FormValue("caption"),
		IsPrimary:   isPrimary,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	}

	image, err := h.uc.AddImage(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, ToImageResponse(image), "Image uploaded successfully")
}

// ListImages handles retrieving a listing's gallery, primary image first.
func (h *ColdRoomHandler) ListImages(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cold room ID")
	}

	images, err := h.uc.ListImages(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	result := make([]*ImageResponse, len(images))
	for i, image := range images {
		result[i] = ToImageResponse(image)
	}

	return response.Success(c, http.StatusOK, result, "Images retrieved successfully")
}
