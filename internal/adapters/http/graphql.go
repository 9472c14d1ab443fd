package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/usecases"
)

// Values are converted to maps so named string types serialize predictably.

func geoPointMap(p domain.GeoPoint) map[string]interface{} {
	return map[string]interface{}{"lat": p.Lat, "lon": p.Lon}
}

func regionMap(r domain.Region) map[string]interface{} {
	return map[string]interface{}{
		"center":    geoPointMap(r.Center),
		"lat_delta": r.Span.LatDelta,
		"lon_delta": r.Span.LonDelta,
	}
}

func placeMap(p domain.Place) map[string]interface{} {
	return map[string]interface{}{
		"id":       p.ID,
		"name":     p.Name,
		"location": geoPointMap(p.Location),
		"campus":   string(p.Campus),
		"category": string(p.Category),
	}
}

func placeList(places []domain.Place) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(places))
	for _, p := range places {
		out = append(out, placeMap(p))
	}
	return out
}

func stateMap(st domain.ViewState) map[string]interface{} {
	m := map[string]interface{}{
		"camera_automatic":     st.Camera.Automatic,
		"selected_campus":      string(st.SelectedCampus),
		"selected_category":    string(st.SelectedCategory),
		"has_centered_on_user": st.HasCenteredOnUser,
	}
	if !st.Camera.Automatic {
		m["camera_region"] = regionMap(st.Camera.Region)
	}
	if st.SelectedPlace != nil {
		m["selected_place"] = placeMap(*st.SelectedPlace)
	}
	if st.UserPosition != nil {
		m["user_position"] = geoPointMap(st.UserPosition.Location)
	}
	return m
}

// buildSchema creates the GraphQL schema over the session.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"center":    &graphql.Field{Type: geoPointType},
			"lat_delta": &graphql.Field{Type: graphql.Float},
			"lon_delta": &graphql.Field{Type: graphql.Float},
		},
	})

	campusType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Campus",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"name":   &graphql.Field{Type: graphql.String},
			"region": &graphql.Field{Type: regionType},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
			"campus":   &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{Type: graphql.String},
		},
	})

	stateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ViewState",
		Fields: graphql.Fields{
			"camera_automatic":     &graphql.Field{Type: graphql.Boolean},
			"camera_region":        &graphql.Field{Type: regionType},
			"selected_campus":      &graphql.Field{Type: graphql.String},
			"selected_category":    &graphql.Field{Type: graphql.String},
			"selected_place":       &graphql.Field{Type: placeType},
			"user_position":        &graphql.Field{Type: geoPointType},
			"has_centered_on_user": &graphql.Field{Type: graphql.Boolean},
		},
	})

	estimateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Estimate",
		Fields: graphql.Fields{
			"available": &graphql.Field{Type: graphql.Boolean},
			"meters":    &graphql.Field{Type: graphql.Float},
			"minutes":   &graphql.Field{Type: graphql.Int},
			"distance":  &graphql.Field{Type: graphql.String},
			"eta":       &graphql.Field{Type: graphql.String},
		},
	})

	currentState := func(ctx context.Context) (interface{}, error) {
		st, err := stateOf(ctx, deps)
		if err != nil {
			return nil, err
		}
		return stateMap(st), nil
	}

	// mutate runs fn on the session loop and returns the resulting state.
	mutate := func(ctx context.Context, fn func(ctx context.Context, sc *usecases.SelectionController) error) (interface{}, error) {
		var st domain.ViewState
		err := deps.Session.Do(ctx, func(ctx context.Context, sc *usecases.SelectionController) error {
			if err := fn(ctx, sc); err != nil {
				return err
			}
			st = sc.State()
			return nil
		})
		if err != nil {
			return nil, err
		}
		return stateMap(st), nil
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"campuses": &graphql.Field{
				Type:        graphql.NewList(campusType),
				Description: "List campuses with their default regions",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []map[string]interface{}
					for _, c := range domain.Campuses() {
						out = append(out, map[string]interface{}{
							"id":     string(c),
							"name":   c.Name(),
							"region": regionMap(c.DefaultRegion()),
						})
					}
					return out, nil
				},
			},
			"categories": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "List place categories",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []string
					for _, c := range domain.Categories() {
						out = append(out, string(c))
					}
					return out, nil
				},
			},
			"state": &graphql.Field{
				Type:        stateType,
				Description: "Current view state",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return currentState(p.Context)
				},
			},
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Places matching the current selection, or the given campus and category",
				Args: graphql.FieldConfigArgument{
					"campus":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					st, err := stateOf(p.Context, deps)
					if err != nil {
						return nil, err
					}
					campus, category := st.SelectedCampus, st.SelectedCategory
					if s, ok := p.Args["campus"].(string); ok {
						if campus, err = domain.ParseCampus(s); err != nil {
							return nil, err
						}
					}
					if s, ok := p.Args["category"].(string); ok {
						if category, err = domain.ParseCategory(s); err != nil {
							return nil, err
						}
					}
					return placeList(usecases.CollectPlaces(usecases.FilterPlaces(deps.Catalog.Places(), campus, category))), nil
				},
			},
			"place": &graphql.Field{
				Type:        placeType,
				Description: "Get a place by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					place, ok := deps.Catalog.ByID(p.Args["id"].(string))
					if !ok {
						return nil, domain.ErrPlaceNotFound
					}
					return placeMap(place), nil
				},
			},
			"estimate": &graphql.Field{
				Type:        estimateType,
				Description: "Distance and walking time from the user to a place",
				Args: graphql.FieldConfigArgument{
					"place_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["place_id"].(string)
					out := map[string]interface{}{"available": false}
					err := deps.Session.Do(p.Context, func(_ context.Context, sc *usecases.SelectionController) error {
						place, err := sc.PlaceByID(id)
						if err != nil {
							return err
						}
						if est, ok := sc.DistanceAndETA(place); ok {
							out["available"] = true
							out["meters"] = est.Meters
							out["minutes"] = est.Minutes
							out["distance"] = est.Distance
							out["eta"] = est.ETA
						}
						return nil
					})
					if err != nil {
						return nil, err
					}
					return out, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"selectCampus": &graphql.Field{
				Type: stateType,
				Args: graphql.FieldConfigArgument{
					"campus": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					campus, err := domain.ParseCampus(p.Args["campus"].(string))
					if err != nil {
						return nil, err
					}
					return mutate(p.Context, func(ctx context.Context, sc *usecases.SelectionController) error {
						sc.SelectCampus(ctx, campus)
						return nil
					})
				},
			},
			"selectCategory": &graphql.Field{
				Type: stateType,
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cat, err := domain.ParseCategory(p.Args["category"].(string))
					if err != nil {
						return nil, err
					}
					return mutate(p.Context, func(_ context.Context, sc *usecases.SelectionController) error {
						sc.SelectCategory(cat)
						return nil
					})
				},
			},
			"selectPlace": &graphql.Field{
				Type: stateType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return mutate(p.Context, func(ctx context.Context, sc *usecases.SelectionController) error {
						place, err := sc.PlaceByID(id)
						if err != nil {
							return err
						}
						sc.SelectPlace(ctx, place)
						return nil
					})
				},
			},
			"navigate": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					err := deps.Session.Do(p.Context, func(ctx context.Context, sc *usecases.SelectionController) error {
						place, err := sc.PlaceByID(id)
						if err != nil {
							return err
						}
						sc.Navigate(ctx, place)
						return nil
					})
					return err == nil, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		if result.HasErrors() && result.Data == nil {
			return c.Status(fiber.StatusBadRequest).JSON(result)
		}
		return c.JSON(result)
	}
}
