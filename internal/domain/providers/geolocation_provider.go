package providers

import (
	"context"
)

// GeolocationProvider defines the interface for geolocation services
type GeolocationProvider interface {
	// Geocode converts an address to coordinates
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)

	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedAddress, error)

	// GetNearbyPlaces finds places of a given type within a radius in meters
	GetNearbyPlaces(ctx context.Context, center Coordinates, radiusMeters float64, placeType string) ([]*Place, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string
	City             string
	State            string
	Country          string
	Coordinates      Coordinates
}

// Place represents a geographical place returned by an external maps API
type Place struct {
	ID          string
	Name        string
	Address     string
	Coordinates Coordinates
	PlaceType   string
	Rating      float64
}
