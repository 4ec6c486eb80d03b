package entities

import (
	"fmt"
	"math"
	"strconv"
	"time"

	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// Clinic represents a healthcare clinic in the system.
//
// Latitude and Longitude are stored as text and parsed on read; callers
// that need numeric coordinates must go through Coordinates so malformed
// values surface as an INVALID_COORDINATE error instead of NaN distances.
type Clinic struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Latitude    string    `json:"latitude" db:"latitude"`
	Longitude   string    `json:"longitude" db:"longitude"`
	Category    string    `json:"category" db:"category"`
	Rating      float64   `json:"rating,omitempty" db:"rating"`
	Hours       string    `json:"hours,omitempty" db:"hours"`
	PhoneNumber string    `json:"phone_number,omitempty" db:"phone_number"`
	Website     string    `json:"website,omitempty" db:"website"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Location represents geographical coordinates in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates parses the stored latitude/longitude text into a Location.
// Values must be finite and within valid ranges.
func (c *Clinic) Coordinates() (Location, error) {
	lat, err := parseCoordinate(c.Latitude, 90, "latitude")
	if err != nil {
		return Location{}, err
	}
	lon, err := parseCoordinate(c.Longitude, 180, "longitude")
	if err != nil {
		return Location{}, err
	}
	return Location{Latitude: lat, Longitude: lon}, nil
}

func parseCoordinate(raw string, bound float64, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewInvalidCoordinateError(fmt.Sprintf("%s %q is not a number", field, raw))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperrors.NewInvalidCoordinateError(fmt.Sprintf("%s %q is not finite", field, raw))
	}
	if value < -bound || value > bound {
		return 0, apperrors.NewInvalidCoordinateError(fmt.Sprintf("%s %q is out of range [-%g, %g]", field, raw, bound, bound))
	}
	return value, nil
}

// ClinicSearchResult pairs a clinic with its computed distance from a
// query point. Constructed fresh per query, never persisted.
type ClinicSearchResult struct {
	Clinic        *Clinic `json:"clinic"`
	DistanceMiles float64 `json:"distance_miles"`
	Source        string  `json:"source,omitempty"`
}
