package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/providers"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
	"github.com/vitalpoint/backend/pkg/retry"
)

const (
	earthRadiusMiles = 3959.0
	metersPerMile    = 1609.344

	// distanceEpsilon absorbs floating-point noise in the radius cutoff
	// so a radius of 0 still matches exactly coincident points
	distanceEpsilon = 1e-9

	resultSourceLocal  = "local"
	resultSourcePlaces = "google_places"
)

// ClinicSearchService ranks the stored clinic collection by proximity
// to a query point and merges in external nearby results.
type ClinicSearchService struct {
	clinics repositories.ClinicRepository
	geo     providers.GeolocationProvider
}

// NewClinicSearchService creates a new clinic search service
func NewClinicSearchService(clinics repositories.ClinicRepository, geo providers.GeolocationProvider) *ClinicSearchService {
	return &ClinicSearchService{
		clinics: clinics,
		geo:     geo,
	}
}

// DistanceMiles computes the haversine great-circle distance between
// two points in miles. Pure and symmetric; zero for coincident points.
func DistanceMiles(from, to entities.Location) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// SearchByLocation computes the distance from the query point to every
// stored clinic, keeps those within radiusMiles and returns them
// nearest-first. Equal distances preserve insertion order. An empty
// store yields an empty result, never an error; a clinic with
// malformed stored coordinates fails the whole query with an
// INVALID_COORDINATE error rather than being silently excluded.
func (s *ClinicSearchService) SearchByLocation(ctx context.Context, lat, lon, radiusMiles float64) ([]*entities.ClinicSearchResult, error) {
	if err := validateQueryPoint(lat, lon); err != nil {
		return nil, err
	}
	if radiusMiles < 0 {
		return nil, apperrors.NewValidationError("radius must not be negative")
	}

	clinics, err := s.clinics.List(ctx)
	if err != nil {
		return nil, err
	}

	origin := entities.Location{Latitude: lat, Longitude: lon}
	results := []*entities.ClinicSearchResult{}
	for _, clinic := range clinics {
		loc, err := clinic.Coordinates()
		if err != nil {
			return nil, err
		}

		distance := DistanceMiles(origin, loc)
		if distance <= radiusMiles+distanceEpsilon {
			results = append(results, &entities.ClinicSearchResult{
				Clinic:        clinic,
				DistanceMiles: distance,
				Source:        resultSourceLocal,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMiles < results[j].DistanceMiles
	})

	return results, nil
}

// SearchByText returns clinics whose name or address contains the query
// (case-insensitive), optionally restricted to an exact category match.
// Results keep the store's insertion order; there is no ranking.
func (s *ClinicSearchService) SearchByText(ctx context.Context, query, typeFilter string) ([]*entities.Clinic, error) {
	clinics, err := s.clinics.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := []*entities.Clinic{}
	for _, clinic := range clinics {
		if typeFilter != "" && clinic.Category != typeFilter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(clinic.Name), needle) &&
			!strings.Contains(strings.ToLower(clinic.Address), needle) {
			continue
		}
		matches = append(matches, clinic)
	}

	return matches, nil
}

// Nearby merges local clinics within radiusMeters with external places
// from the maps provider. Local results come first, nearest-first;
// external results follow in provider order. External lookup failures
// degrade to local-only results.
func (s *ClinicSearchService) Nearby(ctx context.Context, lat, lon, radiusMeters float64, placeType string) ([]*entities.ClinicSearchResult, error) {
	local, err := s.SearchByLocation(ctx, lat, lon, radiusMeters/metersPerMile)
	if err != nil {
		return nil, err
	}

	if s.geo == nil {
		return local, nil
	}

	center := providers.Coordinates{Latitude: lat, Longitude: lon}
	places, err := s.geo.GetNearbyPlaces(ctx, center, radiusMeters, placeType)
	if err != nil {
		log.Warn().Err(err).Msg("nearby places lookup failed, returning local results only")
		return local, nil
	}

	origin := entities.Location{Latitude: lat, Longitude: lon}
	for _, place := range places {
		clinic := &entities.Clinic{
			ID:        place.ID,
			Name:      place.Name,
			Address:   place.Address,
			Latitude:  strconv.FormatFloat(place.Coordinates.Latitude, 'f', -1, 64),
			Longitude: strconv.FormatFloat(place.Coordinates.Longitude, 'f', -1, 64),
			Category:  place.PlaceType,
			Rating:    place.Rating,
		}
		distance := DistanceMiles(origin, entities.Location{
			Latitude:  place.Coordinates.Latitude,
			Longitude: place.Coordinates.Longitude,
		})
		local = append(local, &entities.ClinicSearchResult{
			Clinic:        clinic,
			DistanceMiles: distance,
			Source:        resultSourcePlaces,
		})
	}

	return local, nil
}

// ResolveLocation geocodes a free-form location string into
// coordinates. Geocoding is an idempotent read, so transient upstream
// failures are retried with backoff.
func (s *ClinicSearchService) ResolveLocation(ctx context.Context, location string) (entities.Location, error) {
	if s.geo == nil {
		return entities.Location{}, apperrors.NewExternalError("no geolocation provider configured", nil)
	}

	var addr *providers.GeocodedAddress
	err := retry.DoWithLog(ctx, retry.GeocodeConfig(), "Geocode", func() error {
		var geoErr error
		addr, geoErr = s.geo.Geocode(ctx, location)
		return geoErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("geocode attempt failed")
	})
	if err != nil {
		return entities.Location{}, apperrors.NewExternalError(fmt.Sprintf("failed to geocode %q", location), err)
	}

	return entities.Location{
		Latitude:  addr.Coordinates.Latitude,
		Longitude: addr.Coordinates.Longitude,
	}, nil
}

func validateQueryPoint(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return apperrors.NewInvalidCoordinateError(fmt.Sprintf("latitude %g is not a valid coordinate", lat))
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return apperrors.NewInvalidCoordinateError(fmt.Sprintf("longitude %g is not a valid coordinate", lon))
	}
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
