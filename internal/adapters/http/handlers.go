package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	geojsonadapter "github.com/samirrijal/arcline/internal/adapters/geojson"
	"github.com/samirrijal/arcline/internal/core/domain"
	"github.com/samirrijal/arcline/internal/pkg/metrics"
	"github.com/samirrijal/arcline/internal/pkg/polyline"
)

// optionsBody carries path options in request bodies. Wrap is a pointer so
// that an omitted field keeps its default of true.
type optionsBody struct {
	Steps int     `json:"steps"`
	Dash  float64 `json:"dash"`
	Wrap  *bool   `json:"wrap"`
}

func (b *optionsBody) toOptions() domain.PathOptions {
	if b == nil {
		return domain.DefaultPathOptions()
	}
	opts := domain.PathOptions{Steps: b.Steps, Dash: b.Dash, Wrap: true}
	if b.Wrap != nil {
		opts.Wrap = *b.Wrap
	}
	return opts.Normalize()
}

// clampSteps enforces the per-request step budget on ad-hoc builds.
func clampSteps(opts domain.PathOptions, max int) domain.PathOptions {
	if max > 0 && opts.Steps > max {
		opts.Steps = max
	}
	return opts
}

// InverseHandler solves the inverse geodesic problem: distance and bearings
// between two points. Also serves the deprecated /v1/distance alias.
func InverseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, key := range []string{"from_lat", "from_lon", "to_lat", "to_lon"} {
			if c.Query(key) == "" {
				return errBadRequest(c, key+" query parameter is required")
			}
		}

		from := domain.GeoPoint{Lat: c.QueryFloat("from_lat"), Lon: c.QueryFloat("from_lon")}
		to := domain.GeoPoint{Lat: c.QueryFloat("to_lat"), Lon: c.QueryFloat("to_lon")}

		result, err := deps.Paths.Inverse(c.Context(), from, to)
		if err != nil {
			return mapDomainErr(c, err)
		}
		return c.JSON(result)
	}
}

// DirectHandler solves the direct geodesic problem: destination point after
// travelling a distance along an initial bearing.
func DirectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, key := range []string{"lat", "lon", "bearing", "distance_m"} {
			if c.Query(key) == "" {
				return errBadRequest(c, key+" query parameter is required")
			}
		}

		origin := domain.GeoPoint{Lat: c.QueryFloat("lat"), Lon: c.QueryFloat("lon")}
		bearing := c.QueryFloat("bearing")
		distance := c.QueryFloat("distance_m")
		wrap := c.QueryBool("wrap", true)

		result, err := deps.Paths.Direct(c.Context(), origin, bearing, distance, wrap)
		if err != nil {
			return mapDomainErr(c, err)
		}
		return c.JSON(result)
	}
}

// pathRequest is the body of POST /v1/paths. Lines and GeoJSON are
// alternative inputs; GeoJSON may be a bare geometry, a Feature or a
// FeatureCollection.
type pathRequest struct {
	Lines   [][]domain.GeoPoint `json:"lines"`
	GeoJSON json.RawMessage     `json:"geojson"`
	Options *optionsBody        `json:"options"`
	Encode  bool                `json:"encode"`
}

// pathResponse is the built geometry plus its stats.
type pathResponse struct {
	MultiPolyline domain.MultiPolyline `json:"multi_polyline"`
	Stats         domain.GeometryStats `json:"stats"`
	Encoded       []string             `json:"encoded,omitempty"`
	Skipped       []string             `json:"skipped,omitempty"`
}

// BuildPathHandler computes a geodesic multi-polyline through the given
// waypoint sequences.
func BuildPathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pathRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		lines := req.Lines
		var skipped []string
		if len(lines) == 0 && len(req.GeoJSON) > 0 {
			var err error
			lines, skipped, err = geojsonadapter.ExtractLines(req.GeoJSON)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
		}
		if len(lines) == 0 {
			return errBadRequest(c, "provide lines or geojson with at least one line")
		}

		opts := clampSteps(req.Options.toOptions(), deps.MaxSteps)
		mp, err := deps.Paths.BuildPath(c.Context(), lines, opts)
		if err != nil {
			return mapDomainErr(c, err)
		}
		stats, err := deps.Paths.Stats(c.Context(), mp)
		if err != nil {
			return mapDomainErr(c, err)
		}
		metrics.ObserveBuild("path", len(mp.Segments), mp.PointCount())

		resp := pathResponse{MultiPolyline: mp, Stats: stats, Skipped: skipped}
		if req.Encode {
			resp.Encoded = polyline.EncodeSegments(mp)
		}
		return c.JSON(resp)
	}
}

// circleRequest is the body of POST /v1/circles.
type circleRequest struct {
	Center  domain.GeoPoint `json:"center"`
	RadiusM float64         `json:"radius_m"`
	Options *optionsBody    `json:"options"`
	Encode  bool            `json:"encode"`
}

// BuildCircleHandler computes a geodesic circle around a center point.
func BuildCircleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req circleRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		opts := clampSteps(req.Options.toOptions(), deps.MaxSteps)
		mp, err := deps.Paths.BuildCircle(c.Context(), req.Center, req.RadiusM, opts)
		if err != nil {
			return mapDomainErr(c, err)
		}
		stats, err := deps.Paths.Stats(c.Context(), mp)
		if err != nil {
			return mapDomainErr(c, err)
		}
		metrics.ObserveBuild("circle", len(mp.Segments), mp.PointCount())

		resp := pathResponse{MultiPolyline: mp, Stats: stats}
		if req.Encode {
			resp.Encoded = polyline.EncodeSegments(mp)
		}
		return c.JSON(resp)
	}
}

// ListRoutesHandler returns stored routes with offset pagination.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		routes, err := deps.Routes.List(c.Context(), limit, offset)
		if err != nil {
			return mapDomainErr(c, err)
		}
		total, err := deps.Routes.Count(c.Context())
		if err != nil {
			return mapDomainErr(c, err)
		}
		if routes == nil {
			routes = []domain.Route{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: routes, Pagination: pg})
	}
}

// routeBody is the body of POST and PUT /v1/routes.
type routeBody struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Waypoints   []domain.GeoPoint `json:"waypoints"`
	Options     *optionsBody      `json:"options"`
}

func (b *routeBody) toRoute() *domain.Route {
	return &domain.Route{
		Name:        b.Name,
		Description: b.Description,
		Color:       b.Color,
		Waypoints:   b.Waypoints,
		Options:     b.Options.toOptions(),
	}
}

// CreateRouteHandler stores a new route.
func CreateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body routeBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		route := body.toRoute()
		if err := deps.Routes.Create(c.Context(), route); err != nil {
			return mapDomainErr(c, err)
		}
		return c.Status(201).JSON(route)
	}
}

// GetRouteHandler returns a single route by ID.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapDomainErr(c, err)
		}
		return c.JSON(route)
	}
}

// UpdateRouteHandler replaces a stored route and queues a geometry rebuild.
func UpdateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body routeBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		route := body.toRoute()
		route.ID = c.Params("id")
		if err := deps.Routes.Update(c.Context(), route); err != nil {
			return mapDomainErr(c, err)
		}
		return c.JSON(route)
	}
}

// DeleteRouteHandler removes a route and its geometry.
func DeleteRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Routes.Delete(c.Context(), c.Params("id")); err != nil {
			return mapDomainErr(c, err)
		}
		return c.SendStatus(204)
	}
}

// RouteGeometryHandler returns the stored geometry of a route. Any steps,
// dash or wrap query parameter switches to a preview build with those
// overrides, leaving the stored geometry untouched.
func RouteGeometryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var geom *domain.RouteGeometry
		var err error
		if c.Query("steps") != "" || c.Query("dash") != "" || c.Query("wrap") != "" {
			opts := clampSteps(domain.PathOptions{
				Steps: c.QueryInt("steps", 0),
				Dash:  c.QueryFloat("dash", 0),
				Wrap:  c.QueryBool("wrap", true),
			}.Normalize(), deps.MaxSteps)
			geom, err = deps.Routes.Preview(c.Context(), id, opts)
		} else {
			geom, err = deps.Routes.Geometry(c.Context(), id)
		}
		if err != nil {
			return mapDomainErr(c, err)
		}

		if c.Query("format") == "geojson" {
			route, err := deps.Routes.GetByID(c.Context(), id)
			if err != nil {
				return mapDomainErr(c, err)
			}
			return c.JSON(geojsonadapter.GeometryFeatureCollection(route, geom))
		}

		if !c.QueryBool("encode", false) && geom.Encoded != nil {
			// Strip on a copy, the cached value keeps its encoded form.
			stripped := *geom
			stripped.Encoded = nil
			geom = &stripped
		}
		return c.JSON(geom)
	}
}

// RouteStatsHandler returns the geometry stats of a route.
func RouteStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Routes.Stats(c.Context(), c.Params("id"))
		if err != nil {
			return mapDomainErr(c, err)
		}
		return c.JSON(stats)
	}
}

// RebuildRouteHandler queues an asynchronous geometry rebuild.
func RebuildRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Routes.RequestRebuild(c.Context(), id, "api"); err != nil {
			return mapDomainErr(c, err)
		}
		metrics.GeometryRebuilds.WithLabelValues("api").Inc()
		return c.Status(202).JSON(fiber.Map{
			"status":   "queued",
			"route_id": id,
		})
	}
}
