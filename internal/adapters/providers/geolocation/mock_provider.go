package geolocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitalpoint/backend/internal/domain/providers"
)

// MockGeolocationProvider implements a mock geolocation provider for testing
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

// Geocode converts an address to coordinates (mock implementation)
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	mockCoordinates := map[string]providers.Coordinates{
		"New York":    {Latitude: 40.7128, Longitude: -74.0060},
		"Los Angeles": {Latitude: 34.0522, Longitude: -118.2437},
		"Chicago":     {Latitude: 41.8781, Longitude: -87.6298},
		"Houston":     {Latitude: 29.7604, Longitude: -95.3698},
		"Phoenix":     {Latitude: 33.4484, Longitude: -112.0740},
		"Lagos":       {Latitude: 6.5244, Longitude: 3.3792},
		"Abuja":       {Latitude: 9.0765, Longitude: 7.3986},
	}

	for city, coords := range mockCoordinates {
		if strings.Contains(address, city) {
			return &providers.GeocodedAddress{
				FormattedAddress: city,
				City:             city,
				Coordinates:      coords,
			}, nil
		}
	}

	// Default to San Francisco
	return &providers.GeocodedAddress{
		FormattedAddress: address,
		City:             "San Francisco",
		Coordinates:      providers.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
	}, nil
}

// ReverseGeocode converts coordinates to an address (mock implementation)
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	return &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%f, %f", lat, lon),
		City:             "San Francisco",
		State:            "CA",
		Country:          "USA",
		Coordinates: providers.Coordinates{
			Latitude:  lat,
			Longitude: lon,
		},
	}, nil
}

// GetNearbyPlaces finds places within a radius (mock implementation)
func (m *MockGeolocationProvider) GetNearbyPlaces(ctx context.Context, center providers.Coordinates, radiusMeters float64, placeType string) ([]*providers.Place, error) {
	if placeType == "" {
		placeType = "hospital"
	}
	return []*providers.Place{
		{
			ID:          "mock-place-1",
			Name:        "Mock Hospital 1",
			Address:     "123 Healthcare Blvd",
			Coordinates: providers.Coordinates{Latitude: center.Latitude + 0.01, Longitude: center.Longitude + 0.01},
			PlaceType:   placeType,
			Rating:      4.2,
		},
		{
			ID:          "mock-place-2",
			Name:        "Mock Clinic 2",
			Address:     "456 Medical Ave",
			Coordinates: providers.Coordinates{Latitude: center.Latitude - 0.01, Longitude: center.Longitude - 0.01},
			PlaceType:   placeType,
			Rating:      3.9,
		},
	}, nil
}
