package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ccsustmap/campusmap/internal/adapters/navigation"
	natsadapter "github.com/ccsustmap/campusmap/internal/adapters/nats"
	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/usecases"
)

// PlacesResponse is the filtered place list with the filter that produced it.
type PlacesResponse struct {
	Campus   domain.Campus   `json:"campus"`
	Category domain.Category `json:"category"`
	Places   []domain.Place  `json:"places"`
}

// EstimateResponse reports distance and walking time. Available is false
// until the user position is known.
type EstimateResponse struct {
	Available bool   `json:"available"`
	PlaceID   string `json:"place_id"`
	*usecases.Estimate
}

// FixesResponse summarises a batch of reported fixes.
type FixesResponse struct {
	Received int              `json:"received"`
	Accepted int              `json:"accepted"`
	State    domain.ViewState `json:"state"`
}

// NavigateResponse confirms a hand-off.
type NavigateResponse struct {
	Status   string `json:"status"`
	Launcher string `json:"launcher"`
	Link     string `json:"link,omitempty"`
}

type campusRequest struct {
	Campus string `json:"campus"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

// stateOf reads a snapshot on the session loop.
func stateOf(ctx context.Context, deps *Dependencies) (domain.ViewState, error) {
	var st domain.ViewState
	err := deps.Session.Do(ctx, func(_ context.Context, sc *usecases.SelectionController) error {
		st = sc.State()
		return nil
	})
	return st, err
}

// ListCampusesHandler returns every campus with its default region.
func ListCampusesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		campuses := domain.Campuses()
		out := make([]domain.CampusInfo, 0, len(campuses))
		for _, campus := range campuses {
			out = append(out, campus.Info())
		}
		return c.JSON(out)
	}
}

// ListCategoriesHandler returns every category, sentinel first.
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(domain.Categories())
	}
}

// GetStateHandler returns the current view state.
func GetStateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := stateOf(c.UserContext(), deps)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(st)
	}
}

// SelectCampusHandler switches campus and resets the camera to its default region.
func SelectCampusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req campusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		campus, err := domain.ParseCampus(req.Campus)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		var st domain.ViewState
		err = deps.Session.Do(c.UserContext(), func(ctx context.Context, sc *usecases.SelectionController) error {
			sc.SelectCampus(ctx, campus)
			st = sc.State()
			return nil
		})
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(st)
	}
}

// SelectCategoryHandler changes the category filter.
func SelectCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		cat, err := domain.ParseCategory(req.Category)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		var st domain.ViewState
		err = deps.Session.Do(c.UserContext(), func(_ context.Context, sc *usecases.SelectionController) error {
			sc.SelectCategory(cat)
			st = sc.State()
			return nil
		})
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(st)
	}
}

// ListPlacesHandler returns places matching the current selection. The
// campus and category query parameters override the selection for this
// request only.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			campus   domain.Campus
			category domain.Category
			err      error
		)
		if q := c.Query("campus"); q != "" {
			if campus, err = domain.ParseCampus(q); err != nil {
				return errBadRequest(c, err.Error())
			}
		}
		if q := c.Query("category"); q != "" {
			if category, err = domain.ParseCategory(q); err != nil {
				return errBadRequest(c, err.Error())
			}
		}

		if campus == "" || category == "" {
			st, err := stateOf(c.UserContext(), deps)
			if err != nil {
				return errFrom(c, err)
			}
			if campus == "" {
				campus = st.SelectedCampus
			}
			if category == "" {
				category = st.SelectedCategory
			}
		}

		places := usecases.CollectPlaces(usecases.FilterPlaces(deps.Catalog.Places(), campus, category))
		return c.JSON(PlacesResponse{Campus: campus, Category: category, Places: places})
	}
}

// GetPlaceHandler returns one place.
func GetPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := deps.Catalog.ByID(c.Params("id"))
		if !ok {
			return errNotFound(c, "place not found")
		}
		return c.JSON(p)
	}
}

// SelectPlaceHandler selects a place and frames the camera on it.
func SelectPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var st domain.ViewState
		err := deps.Session.Do(c.UserContext(), func(ctx context.Context, sc *usecases.SelectionController) error {
			p, err := sc.PlaceByID(id)
			if err != nil {
				return err
			}
			sc.SelectPlace(ctx, p)
			st = sc.State()
			return nil
		})
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(st)
	}
}

// EstimateHandler returns distance and walking time from the user to a place.
func EstimateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		resp := EstimateResponse{PlaceID: id}
		err := deps.Session.Do(c.UserContext(), func(_ context.Context, sc *usecases.SelectionController) error {
			p, err := sc.PlaceByID(id)
			if err != nil {
				return err
			}
			if est, ok := sc.DistanceAndETA(p); ok {
				resp.Available = true
				resp.Estimate = &est
			}
			return nil
		})
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(resp)
	}
}

// NavigateHandler hands the place to the navigation launcher. The hand-off
// never fails from the caller's point of view.
func NavigateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var dest domain.Place
		err := deps.Session.Do(c.UserContext(), func(ctx context.Context, sc *usecases.SelectionController) error {
			p, err := sc.PlaceByID(id)
			if err != nil {
				return err
			}
			sc.Navigate(ctx, p)
			dest = p
			return nil
		})
		if err != nil {
			return errFrom(c, err)
		}

		resp := NavigateResponse{Status: "handed_off", Launcher: deps.Launcher}
		if deps.LinkBase != "" {
			link, err := navigation.DeepLink(deps.LinkBase, usecases.NavigationRequestFor(dest))
			if err == nil {
				resp.Link = link
			}
		}
		return c.Status(fiber.StatusAccepted).JSON(resp)
	}
}

// decodeFixes accepts a single fix object or an array of them.
func decodeFixes(body []byte) ([]domain.Fix, error) {
	body = bytes.TrimSpace(body)
	var msgs []natsadapter.FixMessage
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &msgs); err != nil {
			return nil, err
		}
	} else {
		var m natsadapter.FixMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return nil, errors.New("no fixes in request")
	}

	fixes := make([]domain.Fix, 0, len(msgs))
	for _, m := range msgs {
		f, err := m.Fix()
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, f)
	}
	return fixes, nil
}

// PostFixesHandler feeds reported fixes to the session in order. Fixes that
// fail the accuracy gate are received but not accepted. A fix that cannot be
// queued fails the request.
func PostFixesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fixes, err := decodeFixes(c.Body())
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		ctx := c.UserContext()
		resp := FixesResponse{Received: len(fixes)}
		for _, f := range fixes {
			if err := deps.Session.EnqueueFix(ctx, f); err != nil {
				return errFrom(c, err)
			}
			if usecases.Accepted(f) {
				resp.Accepted++
			}
		}

		// Queued behind the fixes, so the snapshot reflects them.
		if resp.State, err = stateOf(ctx, deps); err != nil {
			return errFrom(c, err)
		}
		return c.JSON(resp)
	}
}

// PostFailureHandler reports that the device could not acquire a position.
func PostFailureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Session.AcquisitionFailed(c.UserContext(), natsadapter.DecodeFailure(c.Body()))
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "recorded"})
	}
}
