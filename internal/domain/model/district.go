package model

import "github.com/paulmach/orb"

// District is one administrative district with its own coordinates.
// Records are loaded once at startup and never mutated afterwards.
type District struct {
	DistrictName string  `json:"district_name"`
	CityName     string  `json:"city_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	// IsCityCenter is derived from CityCenterMarker at catalog load time.
	IsCityCenter bool `json:"-"`
}

// Point returns the district coordinates in orb's lon/lat order.
func (d *District) Point() orb.Point {
	return orb.Point{d.Longitude, d.Latitude}
}

// HasCoordinates reports whether the catalog carried usable coordinates.
// The zero point never occurs for a real Turkish district.
func (d *District) HasCoordinates() bool {
	return d.Latitude != 0 && d.Longitude != 0
}

// Coordinates is the lat/lng pair as exposed in JSON responses.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistrictChoice is one selectable district inside a city_search response.
type DistrictChoice struct {
	DistrictName string      `json:"district_name"`
	Coordinates  Coordinates `json:"coordinates"`
}

// CityAmbiguity is the structured multi-choice outcome returned when a query
// names a whole city and no single district could be picked. It is not an
// error; the caller is expected to offer disambiguation.
type CityAmbiguity struct {
	City            string           `json:"city"`
	Districts       []DistrictChoice `json:"districts"`
	DefaultDistrict string           `json:"default_district"`
}
