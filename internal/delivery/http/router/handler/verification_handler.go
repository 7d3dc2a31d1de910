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

// VerificationHandler holds dependencies for the administrator review handlers.
type VerificationHandler struct {
	uc     usecase.VerificationUsecase
	logger *slog.Logger
}

// NewVerificationHandler is the constructor for VerificationHandler, injected by Fx.
func NewVerificationHandler(uc usecase.VerificationUsecase, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		uc:     uc,
		logger: logger,
	}
}

// verificationPageResponse is one page of verification records on the wire.
type verificationPageResponse struct {
	Count      int64                   `json:"count"`
	Results    []*VerificationResponse `json:"results"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"total_pages"`
}

// List handles listing verification records, newest submissions first.
func (h *VerificationHandler) List(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	result, err := h.uc.List(c.Request().Context(), actor, page)
	if err != nil {
		return errors.WithStack(err)
	}

	records := make([]*VerificationResponse, len(result.Results))
	for i, v := range result.Results {
		records[i] = ToVerificationResponse(v)
	}

	return response.Success(c, http.StatusOK, verificationPageResponse{
		Count:      result.Count,
		Results:    records,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	}, "Verifications retrieved successfully")
}

// Get handles retrieving a single verification record.
func (h *VerificationHandler) Get(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid verification ID")
	}

	record, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ToVerificationResponse(record), "Verification retrieved successfully")
}

// Review handles a status transition on a verification record. Illegal
// transitions are rejected without any state change.
func (h *VerificationHandler) Review(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated identity")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid verification ID")
	}

	var input usecase.ReviewVerificationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	record, err := h.uc.Review(c.Request().Context(), actor, id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ToVerificationResponse(record), "Verification reviewed successfully")
}
