package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category classifies a place. CategoryAll is a filter sentinel that matches every place.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryTeaching  Category = "teaching"
	CategoryDormitory Category = "dormitory"
	CategoryDining    Category = "dining"
	CategoryLibrary   Category = "library"
	CategorySports    Category = "sports"
	CategoryService   Category = "service"
	CategoryGate      Category = "gate"
)

// Categories lists every category, sentinel first.
func Categories() []Category {
	return []Category{
		CategoryAll,
		CategoryTeaching,
		CategoryDormitory,
		CategoryDining,
		CategoryLibrary,
		CategorySports,
		CategoryService,
		CategoryGate,
	}
}

// ParseCategory validates a category identifier.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Matches reports whether a place of category other passes a filter on c.
func (c Category) Matches(other Category) bool {
	return c == CategoryAll || c == other
}

// Place is a point of interest on a campus.
type Place struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
	Campus   Campus   `json:"campus"`
	Category Category `json:"category"`
}

// Fix is a single reported position sample. Accuracies are in meters.
type Fix struct {
	Location           GeoPoint  `json:"location"`
	HorizontalAccuracy float64   `json:"horizontal_accuracy"`
	VerticalAccuracy   float64   `json:"vertical_accuracy"`
	Timestamp          time.Time `json:"timestamp,omitempty"`
}

// TransitionReason tells the rendering surface why the camera moves.
type TransitionReason string

const (
	ReasonCampusSelected TransitionReason = "campus_selected"
	ReasonPlaceSelected  TransitionReason = "place_selected"
	ReasonUserLocated    TransitionReason = "user_located"
)

// CameraTransition is a request for the map surface to animate to a region.
// Duration zero means an immediate move.
type CameraTransition struct {
	Region   Region
	Duration time.Duration
	Reason   TransitionReason
}

type cameraTransitionJSON struct {
	Region     Region           `json:"region"`
	DurationMS int64            `json:"duration_ms"`
	Reason     TransitionReason `json:"reason"`
}

// MarshalJSON encodes the duration in milliseconds.
func (t CameraTransition) MarshalJSON() ([]byte, error) {
	return json.Marshal(cameraTransitionJSON{
		Region:     t.Region,
		DurationMS: t.Duration.Milliseconds(),
		Reason:     t.Reason,
	})
}

func (t *CameraTransition) UnmarshalJSON(data []byte) error {
	var w cameraTransitionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.Region = w.Region
	t.Duration = time.Duration(w.DurationMS) * time.Millisecond
	t.Reason = w.Reason
	return nil
}

// Camera is the current camera target. Automatic means the surface frames
// content itself and Region is meaningless.
type Camera struct {
	Automatic bool   `json:"automatic"`
	Region    Region `json:"region"`
}

// TravelMode is the transport mode handed to the navigation launcher.
type TravelMode string

const TravelModeWalking TravelMode = "walking"

// NavigationRequest is a hand-off to an external turn-by-turn application.
type NavigationRequest struct {
	Destination GeoPoint   `json:"destination"`
	Name        string     `json:"name"`
	Mode        TravelMode `json:"mode"`
}

// ViewState is the observable presentation state of one session.
type ViewState struct {
	Camera            Camera   `json:"camera"`
	SelectedCampus    Campus   `json:"selected_campus"`
	SelectedCategory  Category `json:"selected_category"`
	SelectedPlace     *Place   `json:"selected_place,omitempty"`
	UserPosition      *Fix     `json:"user_position,omitempty"`
	HasCenteredOnUser bool     `json:"has_centered_on_user"`
}

// NewViewState returns the session-start state: automatic camera, all categories.
func NewViewState(campus Campus) *ViewState {
	return &ViewState{
		Camera:           Camera{Automatic: true},
		SelectedCampus:   campus,
		SelectedCategory: CategoryAll,
	}
}

// Snapshot returns a copy that shares no pointers with s.
func (s *ViewState) Snapshot() ViewState {
	out := *s
	if s.SelectedPlace != nil {
		p := *s.SelectedPlace
		out.SelectedPlace = &p
	}
	if s.UserPosition != nil {
		f := *s.UserPosition
		out.UserPosition = &f
	}
	return out
}
