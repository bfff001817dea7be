package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/arcline/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeometryStats",
		Fields: graphql.Fields{
			"distance_m":    &graphql.Field{Type: graphql.Float},
			"point_count":   &graphql.Field{Type: graphql.Int},
			"segment_count": &graphql.Field{Type: graphql.Int},
		},
	})

	optionsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PathOptions",
		Fields: graphql.Fields{
			"steps": &graphql.Field{Type: graphql.Int},
			"dash":  &graphql.Field{Type: graphql.Float},
			"wrap":  &graphql.Field{Type: graphql.Boolean},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"color":       &graphql.Field{Type: graphql.String},
			"waypoints":   &graphql.Field{Type: graphql.NewList(geoPointType)},
			"options":     &graphql.Field{Type: optionsType},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
			"updated_at":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	lineStringType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LineString",
		Fields: graphql.Fields{
			"coordinates": &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	multiPolylineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MultiPolyline",
		Fields: graphql.Fields{
			"segments": &graphql.Field{Type: graphql.NewList(lineStringType)},
		},
	})

	geometryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteGeometry",
		Fields: graphql.Fields{
			"route_id": &graphql.Field{Type: graphql.String},
			"geometry": &graphql.Field{Type: multiPolylineType},
			"encoded":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"stats":    &graphql.Field{Type: statsType},
			"options":  &graphql.Field{Type: optionsType},
			"built_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	inverseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "InverseResult",
		Fields: graphql.Fields{
			"distance_m":      &graphql.Field{Type: graphql.Float},
			"initial_bearing": &graphql.Field{Type: graphql.Float},
			"final_bearing":   &graphql.Field{Type: graphql.Float},
			"coincident":      &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"route": &graphql.Field{
				Type:        routeType,
				Description: "Get a route by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Routes.GetByID(p.Context, id)
				},
			},
			"routes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "List stored routes",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					offset := p.Args["offset"].(int)
					return deps.Routes.List(p.Context, limit, offset)
				},
			},
			"routeGeometry": &graphql.Field{
				Type:        geometryType,
				Description: "Built geodesic geometry of a route",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Routes.Geometry(p.Context, id)
				},
			},
			"routeStats": &graphql.Field{
				Type:        statsType,
				Description: "Geometry stats of a route",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Routes.Stats(p.Context, id)
				},
			},
			"inverse": &graphql.Field{
				Type:        inverseType,
				Description: "Distance and bearings between two points",
				Args: graphql.FieldConfigArgument{
					"from_lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"from_lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"to_lat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"to_lon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from := domain.GeoPoint{Lat: p.Args["from_lat"].(float64), Lon: p.Args["from_lon"].(float64)}
					to := domain.GeoPoint{Lat: p.Args["to_lat"].(float64), Lon: p.Args["to_lon"].(float64)}
					return deps.Paths.Inverse(p.Context, from, to)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
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

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
