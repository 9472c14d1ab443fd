package usecases

import (
	"fmt"
	"math"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/pkg/geospatial"
)

// WalkingSpeed is the assumed average walking speed in meters per second.
const WalkingSpeed = 1.2

// Estimate is the straight-line distance and walking time to a place.
type Estimate struct {
	Meters   float64 `json:"meters"`
	Minutes  int     `json:"minutes"`
	Distance string  `json:"distance"`
	ETA      string  `json:"eta"`
}

// Locale selects the unit labels used in ETA strings.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleChinese Locale = "zh"
)

// Distance is the great-circle distance in meters between two points.
func Distance(a, b domain.GeoPoint) float64 {
	return geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// FormatDistance renders meters as whole meters below 1 km and as
// kilometers with one decimal otherwise.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(meters))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// WalkingMinutes is the whole number of minutes needed to walk the distance.
func WalkingMinutes(meters float64) int {
	return int(math.Floor(meters / (WalkingSpeed * 60)))
}

// FormatETA renders a walking time in categorical buckets: whole hours above
// an hour (truncated), whole minutes from one minute, otherwise "within 1 minute".
func FormatETA(minutes int, locale Locale) string {
	switch {
	case minutes > 60:
		hours := minutes / 60
		if locale == LocaleChinese {
			return fmt.Sprintf("%d小时", hours)
		}
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	case minutes >= 1:
		if locale == LocaleChinese {
			return fmt.Sprintf("%d分钟", minutes)
		}
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	default:
		if locale == LocaleChinese {
			return "1分钟内"
		}
		return "within 1 minute"
	}
}

// EstimateWalk builds an Estimate for a known distance.
func EstimateWalk(meters float64, locale Locale) Estimate {
	minutes := WalkingMinutes(meters)
	return Estimate{
		Meters:   meters,
		Minutes:  minutes,
		Distance: FormatDistance(meters),
		ETA:      FormatETA(minutes, locale),
	}
}
