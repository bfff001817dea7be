package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a stored entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks input that fails validation. Wrap it so transport layers
// can map the failure to a client error.
var ErrInvalid = errors.New("invalid input")

// ErrConflict is returned when a write collides with an existing entity,
// typically a duplicate route name.
var ErrConflict = errors.New("conflict")

// Route is a stored, named waypoint sequence together with the options used
// to build its geodesic geometry.
type Route struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color,omitempty"` // display pass-through, never interpreted
	Waypoints   []GeoPoint  `json:"waypoints"`
	Options     PathOptions `json:"options"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RouteGeometry is the computed geodesic geometry of a route.
type RouteGeometry struct {
	RouteID  string        `json:"route_id"`
	Geometry MultiPolyline `json:"geometry"`
	// Encoded holds one Google encoded polyline per segment.
	Encoded []string      `json:"encoded,omitempty"`
	Stats   GeometryStats `json:"stats"`
	Options PathOptions   `json:"options"`
	BuiltAt time.Time     `json:"built_at"`
}

// GeometryEvent announces a rebuilt route geometry.
type GeometryEvent struct {
	RouteID string        `json:"route_id"`
	Stats   GeometryStats `json:"stats"`
	Reason  string        `json:"reason,omitempty"`
	BuiltAt time.Time     `json:"built_at"`
}

// RecomputeRequest asks the geometry worker to rebuild a route.
type RecomputeRequest struct {
	RouteID     string    `json:"route_id"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// RefreshSummary reports the outcome of a fleet-wide geometry refresh.
type RefreshSummary struct {
	Total       int       `json:"total"`
	Rebuilt     int       `json:"rebuilt"`
	Failed      []string  `json:"failed,omitempty"` // route IDs that could not be rebuilt
	Reason      string    `json:"reason,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
