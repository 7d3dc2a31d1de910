package usecase

import (
	"context"

	"coldstore/internal/domain/entity"
)

// SearchQuery carries the raw query parameters of a proximity search.
// Values stay unparsed strings so that all fail-closed interpretation rules
// live in one place, the search engine itself.
type SearchQuery struct {
	Lat    string
	Lon    string
	Radius string
	Page   int
}

// SearchParams echoes back the effective parameters a search ran with, so a
// caller can confirm how defaults were interpreted.
type SearchParams struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
	Unit      string  `json:"unit"`
}

// SearchResult pairs a verified cold room with its geodesic distance from the
// query point.
type SearchResult struct {
	ColdRoom   *entity.ColdRoom
	DistanceKm float64
}

// SearchOutput is the result of a proximity search.
//
// QueryValid is false when the query point or radius failed to parse; the
// engine then returns an empty result set rather than an error, and the
// delivery layer renders a plain empty page instead of the no-results payload.
type SearchOutput struct {
	QueryValid bool
	Count      int
	Results    []SearchResult
	Page       int
	TotalPages int
	Params     SearchParams
}

// ListingPage is one page of the public verified-listings feed.
type ListingPage struct {
	Count      int64              `json:"count"`
	Results    []*entity.ColdRoom `json:"results"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
}

// SearchUsecase defines the public, unauthenticated read operations.
type SearchUsecase interface {
	// Search runs a radius-filtered proximity search over verified cold rooms,
	// ordered by ascending distance with ID as the deterministic tie-break.
	Search(ctx context.Context, query *SearchQuery) (*SearchOutput, error)

	// ListVerified retrieves a page of all verified cold rooms.
	ListVerified(ctx context.Context, page int) (*ListingPage, error)
}
