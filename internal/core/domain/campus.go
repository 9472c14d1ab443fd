package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCampus   = errors.New("unknown campus")
	ErrUnknownCategory = errors.New("unknown category")
	ErrPlaceNotFound   = errors.New("place not found")
)

// CampusSpanDegrees is the default viewport span for every campus.
const CampusSpanDegrees = 0.005

// Campus identifies one of the university campuses.
type Campus string

const (
	CampusJinpenling Campus = "jinpenling"
	CampusYuntang    Campus = "yuntang"
)

var campusNames = map[Campus]string{
	CampusJinpenling: "金盆岭校区",
	CampusYuntang:    "云塘校区",
}

var campusCenters = map[Campus]GeoPoint{
	CampusJinpenling: {Lat: 28.1560, Lon: 112.9765},
	CampusYuntang:    {Lat: 28.0668, Lon: 113.0095},
}

// Campuses lists every campus in display order.
func Campuses() []Campus {
	return []Campus{CampusJinpenling, CampusYuntang}
}

// ParseCampus validates a campus identifier.
func ParseCampus(s string) (Campus, error) {
	c := Campus(s)
	if _, ok := campusCenters[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCampus, s)
	}
	return c, nil
}

// Name is the campus display name.
func (c Campus) Name() string {
	return campusNames[c]
}

// Center is the fixed geographic center of the campus.
func (c Campus) Center() GeoPoint {
	return campusCenters[c]
}

// DefaultRegion is the viewport shown when the campus is selected.
func (c Campus) DefaultRegion() Region {
	return Region{Center: c.Center(), Span: SquareSpan(CampusSpanDegrees)}
}

// CampusInfo is the wire form of a campus.
type CampusInfo struct {
	ID     Campus `json:"id"`
	Name   string `json:"name"`
	Region Region `json:"region"`
}

// Info returns the campus wire form.
func (c Campus) Info() CampusInfo {
	return CampusInfo{ID: c, Name: c.Name(), Region: c.DefaultRegion()}
}
