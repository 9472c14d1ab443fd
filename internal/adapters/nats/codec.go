package natsadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

var (
	ErrInvalidFix          = errors.New("invalid fix")
	ErrLocationUnavailable = errors.New("location unavailable")
)

// FixMessage is the wire form of a position sample.
type FixMessage struct {
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	HorizontalAccuracy float64   `json:"horizontal_accuracy"`
	VerticalAccuracy   float64   `json:"vertical_accuracy"`
	Timestamp          time.Time `json:"timestamp,omitempty"`
}

// FailureMessage reports that the device could not produce a fix.
type FailureMessage struct {
	Message string `json:"message"`
}

// NewFixMessage converts a fix to its wire form.
func NewFixMessage(f domain.Fix) FixMessage {
	return FixMessage{
		Lat:                f.Location.Lat,
		Lon:                f.Location.Lon,
		HorizontalAccuracy: f.HorizontalAccuracy,
		VerticalAccuracy:   f.VerticalAccuracy,
		Timestamp:          f.Timestamp,
	}
}

// Fix validates the message and converts it. Out-of-range coordinates and
// negative accuracies are rejected; the accuracy gate itself is applied later.
func (m FixMessage) Fix() (domain.Fix, error) {
	switch {
	case math.IsNaN(m.Lat) || m.Lat < -90 || m.Lat > 90:
		return domain.Fix{}, fmt.Errorf("%w: latitude %v", ErrInvalidFix, m.Lat)
	case math.IsNaN(m.Lon) || m.Lon < -180 || m.Lon > 180:
		return domain.Fix{}, fmt.Errorf("%w: longitude %v", ErrInvalidFix, m.Lon)
	case math.IsNaN(m.HorizontalAccuracy) || m.HorizontalAccuracy < 0:
		return domain.Fix{}, fmt.Errorf("%w: horizontal accuracy %v", ErrInvalidFix, m.HorizontalAccuracy)
	case math.IsNaN(m.VerticalAccuracy) || m.VerticalAccuracy < 0:
		return domain.Fix{}, fmt.Errorf("%w: vertical accuracy %v", ErrInvalidFix, m.VerticalAccuracy)
	}
	return domain.Fix{
		Location:           domain.GeoPoint{Lat: m.Lat, Lon: m.Lon},
		HorizontalAccuracy: m.HorizontalAccuracy,
		VerticalAccuracy:   m.VerticalAccuracy,
		Timestamp:          m.Timestamp,
	}, nil
}

// DecodeFix parses and validates a fix payload.
func DecodeFix(data []byte) (domain.Fix, error) {
	var m FixMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Fix{}, fmt.Errorf("%w: %v", ErrInvalidFix, err)
	}
	return m.Fix()
}

// DecodeFailure parses a failure payload. A payload that is not JSON is
// taken as the message text.
func DecodeFailure(data []byte) error {
	var m FailureMessage
	if err := json.Unmarshal(data, &m); err == nil {
		if m.Message == "" {
			return ErrLocationUnavailable
		}
		return errors.New(m.Message)
	}
	if len(data) == 0 {
		return ErrLocationUnavailable
	}
	return errors.New(string(data))
}
