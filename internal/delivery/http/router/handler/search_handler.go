package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"coldstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SearchHandler holds dependencies for the public, unauthenticated read handlers.
type SearchHandler struct {
	uc     usecase.SearchUsecase
	logger *slog.Logger
}

// NewSearchHandler is the constructor for SearchHandler, injected by Fx.
func NewSearchHandler(uc usecase.SearchUsecase, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		uc:     uc,
		logger: logger,
	}
}

// searchResultResponse is a verified listing paired with its distance from the
// query point.
type searchResultResponse struct {
	*ColdRoomResponse
	DistanceKm float64 `json:"distance_km"`
}

// searchPageResponse is the success shape of a proximity search. The
// search_parameters echo confirms how defaults and clamping were applied.
type searchPageResponse struct {
	Count            int                     `json:"count"`
	Results          []*searchResultResponse `json:"results"`
	Page             int                     `json:"page"`
	TotalPages       int                     `json:"total_pages"`
	SearchParameters *usecase.SearchParams   `json:"search_parameters,omitempty"`
}

// noResultsResponse is the body of the 404 returned when a well-formed query
// matches nothing inside the radius.
type noResultsResponse struct {
	Detail      string   `json:"detail"`
	RadiusKm    float64  `json:"radius_km"`
	Suggestions []string `json:"suggestions"`
}

// Search handles the public proximity search.
//
// Three shapes come back: a malformed query point or radius yields an empty
// 200 page, a well-formed query with zero matches yields a 404 with
// suggestions, and anything else yields the paginated result set.
func (h *SearchHandler) Search(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	query := &usecase.SearchQuery{
		Lat:    c.QueryParam("lat"),
		Lon:    c.QueryParam("lon"),
		Radius: c.QueryParam("radius"),
		Page:   page,
	}

	output, err := h.uc.Search(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	if !output.QueryValid {
		return c.JSON(http.StatusOK, searchPageResponse{
			Count:      0,
			Results:    []*searchResultResponse{},
			Page:       output.Page,
			TotalPages: 0,
		})
	}

	if output.Count == 0 {
		return c.JSON(http.StatusNotFound, noResultsResponse{
			Detail:   fmt.Sprintf("No verified cold rooms found within %.1f km", output.Params.RadiusKm),
			RadiusKm: output.Params.RadiusKm,
			Suggestions: []string{
				"Try increasing the search radius",
				"Try searching around a different location",
			},
		})
	}

	results := make([]*searchResultResponse, len(output.Results))
	for i, result := range output.Results {
		results[i] = &searchResultResponse{
			ColdRoomResponse: ToColdRoomResponse(result.ColdRoom),
			DistanceKm:       result.DistanceKm,
		}
	}

	return c.JSON(http.StatusOK, searchPageResponse{
		Count:            output.Count,
		Results:          results,
		Page:             output.Page,
		TotalPages:       output.TotalPages,
		SearchParameters: &output.Params,
	})
}

// listingPageResponse is one page of the public verified-listings feed.
type listingPageResponse struct {
	Count      int64               `json:"count"`
	Results    []*ColdRoomResponse `json:"results"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
}

// ListVerified handles the public paginated feed of verified listings.
func (h *SearchHandler) ListVerified(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	output, err := h.uc.ListVerified(c.Request().Context(), page)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, listingPageResponse{
		Count:      output.Count,
		Results:    ToColdRoomResponses(output.Results),
		Page:       output.Page,
		TotalPages: output.TotalPages,
	})
}
