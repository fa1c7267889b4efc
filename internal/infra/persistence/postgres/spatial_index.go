package postgres

import (
	"rutopia/config"
	"rutopia/internal/domain/constants"
	"rutopia/internal/domain/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// SpatialIndex is the indexed "points within radius, ordered by distance" primitive
// the alert repository builds its proximity queries on.
type SpatialIndex interface {
	// Name identifies the backend in logs.
	Name() string

	// SchemaFile names the embedded DDL that creates the columns, extensions and indexes the backend needs.
	SchemaFile() string

	// WithinRadius matches rows whose location lies within radiusMeters of center.
	WithinRadius(center entity.GeoPoint, radiusMeters float64) clause.Expression

	// NearestFirst orders rows by distance to center, breaking ties by newest first.
	NearestFirst(center entity.GeoPoint) clause.Expression
}

// NewSpatialIndex selects the spatial backend configured in storage.geoIndex.
func NewSpatialIndex(cfg *config.Config) (SpatialIndex, error) {
	switch cfg.Storage.GeoIndex {
	case "", constants.GeoIndexPostGIS:
		return postgisIndex{}, nil
	case constants.GeoIndexEarthDistance:
		return earthDistanceIndex{}, nil
	default:
		return nil, errors.Errorf("unknown geo index: %s", cfg.Storage.GeoIndex)
	}
}

// postgisIndex queries the generated geography column, giving spheroid distances in meters.
type postgisIndex struct{}

func (postgisIndex) Name() string { return constants.GeoIndexPostGIS }

func (postgisIndex) SchemaFile() string { return "schema/postgis.sql" }

func (postgisIndex) WithinRadius(center entity.GeoPoint, radiusMeters float64) clause.Expression {
	return clause.Expr{
		SQL:  "ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)",
		Vars: []any{center.Longitude, center.Latitude, radiusMeters},
	}
}

func (postgisIndex) NearestFirst(center entity.GeoPoint) clause.Expression {
	return clause.Expr{
		SQL:  "ST_Distance(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) ASC, created_at DESC",
		Vars: []any{center.Longitude, center.Latitude},
	}
}

// earthDistanceIndex uses the cube/earthdistance extensions on a spherical earth.
// earth_box prefilters through the GiST index; earth_distance trims the box corners.
type earthDistanceIndex struct{}

func (earthDistanceIndex) Name() string { return constants.GeoIndexEarthDistance }

func (earthDistanceIndex) SchemaFile() string { return "schema/earthdistance.sql" }

func (earthDistanceIndex) WithinRadius(center entity.GeoPoint, radiusMeters float64) clause.Expression {
	return clause.Expr{
		SQL: "earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(latitude, longitude)" +
			" AND earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) <= ?",
		Vars: []any{
			center.Latitude, center.Longitude, radiusMeters,
			center.Latitude, center.Longitude, radiusMeters,
		},
	}
}

func (earthDistanceIndex) NearestFirst(center entity.GeoPoint) clause.Expression {
	return clause.Expr{
		SQL:  "earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) ASC, created_at DESC",
		Vars: []any{center.Latitude, center.Longitude},
	}
}
