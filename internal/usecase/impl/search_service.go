package impl

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"coldstore/config"
	"coldstore/internal/domain/repository"
	"coldstore/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultPageSize                  = 10
	defaultRadiusKm                  = 5.0
	defaultMaxRadiusKm               = 100.0
	defaultPreFilterRadiusMultiplier = 1.3

	// Approximate kilometers per degree of latitude, used only for the
	// coarse bounding-box pre-filter. The exact geodesic check runs after.
	kmPerDegreeLat = 111.0

	distanceUnit = "kilometers"
)

// searchService implements the SearchUsecase interface: the public
// verified-listings feed and the radius-filtered proximity search.
type searchService struct {
	coldRoomRepo repository.ColdRoomRepository
	searchCfg    config.SearchConfig
	logger       *slog.Logger
}

// SearchServiceParams holds dependencies for SearchService, injected by Fx.
type SearchServiceParams struct {
	fx.In

	ColdRoomRepo repository.ColdRoomRepository
	Config       *config.Config
	Logger       *slog.Logger
}

// NewSearchService creates a new search service instance.
func NewSearchService(params SearchServiceParams) usecase.SearchUsecase {
	searchCfg := config.SearchConfig{
		DefaultRadiusKm:           defaultRadiusKm,
		MaxRadiusKm:               defaultMaxRadiusKm,
		PageSize:                  defaultPageSize,
		PreFilterRadiusMultiplier: defaultPreFilterRadiusMultiplier,
	}
	if params.Config != nil && params.Config.Search != nil {
		if params.Config.Search.DefaultRadiusKm > 0 {
			searchCfg.DefaultRadiusKm = params.Config.Search.DefaultRadiusKm
		}
		if params.Config.Search.MaxRadiusKm > 0 {
			searchCfg.MaxRadiusKm = params.Config.Search.MaxRadiusKm
		}
		if params.Config.Search.PageSize > 0 {
			searchCfg.PageSize = params.Config.Search.PageSize
		}
		if params.Config.Search.PreFilterRadiusMultiplier >= 1 {
			searchCfg.PreFilterRadiusMultiplier = params.Config.Search.PreFilterRadiusMultiplier
		}
	}

	return &searchService{
		coldRoomRepo: params.ColdRoomRepo,
		searchCfg:    searchCfg,
		logger:       params.Logger,
	}
}

// Search filters verified cold rooms to those within the requested radius of
// the query point and orders them nearest first.
//
// Interpretation of the raw parameters fails closed: a missing, unparseable,
// non-finite or out-of-range coordinate yields an empty result set instead of
// an error, as does a radius that is present but not a positive number. The
// default radius applies only when the radius parameter is absent entirely.
func (srv *searchService) Search(ctx context.Context, query *usecase.SearchQuery) (*usecase.SearchOutput, error) {
	lat, latOK := parseCoordinate(query.Lat, 90)
	lon, lonOK := parseCoordinate(query.Lon, 180)
	radiusKm, radiusOK := srv.parseRadius(query.Radius)

	if !latOK || !lonOK || !radiusOK {
		return &usecase.SearchOutput{
			QueryValid: false,
			Results:    []usecase.SearchResult{},
			Page:       1,
		}, nil
	}

	bounds := boundingBox(lat, lon, radiusKm*srv.searchCfg.PreFilterRadiusMultiplier)
	candidates, err := srv.coldRoomRepo.FindVerifiedWithinBounds(ctx, bounds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find verified cold rooms within bounds")
	}

	origin := orb.Point{lon, lat}
	matches := make([]usecase.SearchResult, 0, len(candidates))
	for _, room := range candidates {
		distanceKm := geo.DistanceHaversine(origin, orb.Point{room.Longitude, room.Latitude}) / 1000
		if distanceKm <= radiusKm {
			matches = append(matches, usecase.SearchResult{ColdRoom: room, DistanceKm: distanceKm})
		}
	}

	// Nearest first; equal distances fall back to ID order so pagination
	// stays reproducible.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}

		return matches[i].ColdRoom.ID.String() < matches[j].ColdRoom.ID.String()
	})

	page := query.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * srv.searchCfg.PageSize
	end := min(start+srv.searchCfg.PageSize, len(matches))
	if start > len(matches) {
		start = len(matches)
	}

	return &usecase.SearchOutput{
		QueryValid: true,
		Count:      len(matches),
		Results:    matches[start:end],
		Page:       page,
		TotalPages: totalPages(len(matches), srv.searchCfg.PageSize),
		Params: usecase.SearchParams{
			Latitude:  lat,
			Longitude: lon,
			RadiusKm:  radiusKm,
			Unit:      distanceUnit,
		},
	}, nil
}

// ListVerified retrieves a page of all verified cold rooms, newest first.
func (srv *searchService) ListVerified(ctx context.Context, page int) (*usecase.ListingPage, error) {
	if page < 1 {
		page = 1
	}

	count, err := srv.coldRoomRepo.CountVerified(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count verified cold rooms")
	}

	rooms, err := srv.coldRoomRepo.FindVerified(ctx, srv.searchCfg.PageSize, (page-1)*srv.searchCfg.PageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find verified cold rooms")
	}

	return &usecase.ListingPage{
		Count:      count,
		Results:    rooms,
		Page:       page,
		TotalPages: totalPages(int(count), srv.searchCfg.PageSize),
	}, nil
}

// parseCoordinate parses a raw latitude or longitude value. It reports false
// for missing, unparseable, non-finite, or out-of-range input.
func parseCoordinate(raw string, bound float64) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if value < -bound || value > bound {
		return 0, false
	}

	return value, true
}

// parseRadius parses the raw radius parameter. An absent radius falls back to
// the configured default; a present but unparseable or non-positive radius
// fails closed. Radii above the configured maximum are capped.
func (srv *searchService) parseRadius(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return srv.searchCfg.DefaultRadiusKm, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}

	return min(value, srv.searchCfg.MaxRadiusKm), true
}

// boundingBox computes a coarse latitude/longitude box around the query point.
// Boxes that would cross a pole or the antimeridian widen to the full
// longitude span; the exact distance check trims the excess afterwards.
func boundingBox(lat, lon, radiusKm float64) repository.BoundingBox {
	latDelta := radiusKm / kmPerDegreeLat
	bounds := repository.BoundingBox{
		MinLat: math.Max(lat-latDelta, -90),
		MaxLat: math.Min(lat+latDelta, 90),
		MinLon: -180,
		MaxLon: 180,
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat <= 0 {
		return bounds
	}

	lonDelta := radiusKm / (kmPerDegreeLat * cosLat)
	if lon-lonDelta >= -180 && lon+lonDelta <= 180 {
		bounds.MinLon = lon - lonDelta
		bounds.MaxLon = lon + lonDelta
	}

	return bounds
}

// totalPages returns the number of pages needed for count items.
func totalPages(count, pageSize int) int {
	if count == 0 {
		return 0
	}

	return (count + pageSize - 1) / pageSize
}
