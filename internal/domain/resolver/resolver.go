// Package resolver maps free-text Turkish place names onto district records.
// Matching strategies run in a strict order so that exact structural matches
// can never be shadowed by the looser fallbacks.
package resolver

import (
	"strings"

	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/normalize"
	"VakitApp/internal/domain/registry"
)

// Resolution is the successful outcome of a lookup. Exactly one field is set:
// District for a single match, Ambiguity when the query named a whole city
// and the caller has to disambiguate.
type Resolution struct {
	District  *model.District
	Ambiguity *model.CityAmbiguity
}

// Resolver runs the matching strategies against a loaded registry.
type Resolver struct {
	reg *registry.Registry
}

func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

var centerSuffix = " " + normalize.Normalize(model.CityCenterMarker)

// Resolve applies the strategies in order and returns the first hit. When no
// strategy matches, a query that names a known city yields a CityAmbiguity;
// everything else is a *model.NotFoundError.
func (r *Resolver) Resolve(query string) (*Resolution, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, &model.NotFoundError{Query: query}
	}
	norm := normalize.Normalize(trimmed)

	// 1) "<city> merkez" picks that city's center district, even though
	//    several cities share the bare MERKEZ district name.
	if strings.HasSuffix(norm, centerSuffix) {
		city := strings.TrimSpace(strings.TrimSuffix(norm, centerSuffix))
		if city != "" {
			if d := r.reg.CityCenter(city); d != nil {
				return &Resolution{District: d}, nil
			}
		}
	}

	// 2) Two-part compound: try (city=prefix, district=last word) and the
	//    swapped order, as exact district-under-city matches.
	if parts := strings.Fields(trimmed); len(parts) >= 2 {
		first := strings.Join(parts[:len(parts)-1], " ")
		last := parts[len(parts)-1]

		if d := r.matchCityDistrict(normalize.Normalize(first), normalize.Normalize(last)); d != nil {
			return &Resolution{District: d}, nil
		}
		if d := r.matchCityDistrict(normalize.Normalize(last), normalize.Normalize(first)); d != nil {
			return &Resolution{District: d}, nil
		}
	}

	// 3) Exact index lookups: normalized, raw lower, raw upper.
	for _, key := range []string{norm, strings.ToLower(trimmed), strings.ToUpper(trimmed)} {
		if d := r.reg.LookupExact(key); d != nil {
			return &Resolution{District: d}, nil
		}
	}

	// 4) A bare city name resolves to its center district when one exists.
	if d := r.reg.CityCenter(norm); d != nil {
		return &Resolution{District: d}, nil
	}

	// 5) Full-equality scan. Covers records whose normalized key collided in
	//    the index but whose raw form still matches the query exactly.
	if d := r.scanFirst(func(d *model.District) bool {
		return normalize.Normalize(d.DistrictName) == norm ||
			strings.EqualFold(d.DistrictName, trimmed)
	}); d != nil {
		return &Resolution{District: d}, nil
	}

	// 6) Either-direction substring containment. Last resort; may yield a
	//    loose match for short names.
	if d := r.scanFirst(func(d *model.District) bool {
		normDistrict := normalize.Normalize(d.DistrictName)
		return strings.Contains(normDistrict, norm) || strings.Contains(norm, normDistrict)
	}); d != nil {
		return &Resolution{District: d}, nil
	}

	if amb := r.cityAmbiguity(norm); amb != nil {
		return &Resolution{Ambiguity: amb}, nil
	}

	return nil, &model.NotFoundError{Query: query}
}

// matchCityDistrict finds the exact district with the given normalized name
// under the given normalized city.
func (r *Resolver) matchCityDistrict(normCity, normDistrict string) *model.District {
	for _, d := range r.reg.CityDistricts(normCity) {
		if normalize.Normalize(d.DistrictName) == normDistrict {
			return d
		}
	}
	return nil
}

// scanFirst walks the whole catalog in order and returns the first district
// matching the predicate.
func (r *Resolver) scanFirst(match func(*model.District) bool) *model.District {
	all := r.reg.All()
	for i := range all {
		if match(&all[i]) {
			return &all[i]
		}
	}
	return nil
}

// cityAmbiguity builds the disambiguation payload for a query that names a
// city. The default district is the city center when one exists, otherwise
// the first district in catalog order.
func (r *Resolver) cityAmbiguity(normCity string) *model.CityAmbiguity {
	districts := r.reg.CityDistricts(normCity)
	if len(districts) == 0 {
		return nil
	}

	choices := make([]model.DistrictChoice, 0, len(districts))
	for _, d := range districts {
		choices = append(choices, model.DistrictChoice{
			DistrictName: d.DistrictName,
			Coordinates:  model.Coordinates{Latitude: d.Latitude, Longitude: d.Longitude},
		})
	}

	def := districts[0]
	for _, d := range districts {
		if d.IsCityCenter {
			def = d
			break
		}
	}

	return &model.CityAmbiguity{
		City:            districts[0].CityName,
		Districts:       choices,
		DefaultDistrict: def.DistrictName,
	}
}
