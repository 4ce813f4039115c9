// Package registry holds the in-memory district catalog. It is built once at
// process start and is read-only afterwards, so concurrent readers need no
// locking.
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"VakitApp/internal/domain/model"
	"VakitApp/internal/domain/normalize"
)

// Registry is the immutable catalog of districts with its lookup indexes.
type Registry struct {
	districts []model.District

	// byKey maps three name variants per district (normalized, raw lower,
	// raw upper) to the record. First insert wins: duplicate normalized
	// names (several MERKEZ districts) must not shadow each other here;
	// disambiguation is the resolver's job.
	byKey map[string]*model.District

	// byCity maps the normalized city name to its districts in catalog order.
	byCity map[string][]*model.District
}

// Load reads the district catalog from r and builds all indexes.
func Load(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &model.LoadError{Source: "catalog", Err: err}
	}

	var districts []model.District
	if err := json.Unmarshal(raw, &districts); err != nil {
		return nil, &model.LoadError{Source: "catalog", Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if len(districts) == 0 {
		return nil, &model.LoadError{Source: "catalog", Err: fmt.Errorf("catalog is empty")}
	}

	reg := &Registry{
		districts: districts,
		byKey:     make(map[string]*model.District, len(districts)*3),
		byCity:    make(map[string][]*model.District, 81),
	}

	for i := range reg.districts {
		d := &reg.districts[i]
		d.IsCityCenter = normalize.Normalize(d.DistrictName) == normalize.Normalize(model.CityCenterMarker)

		reg.insertKey(normalize.Normalize(d.DistrictName), d)
		reg.insertKey(strings.ToLower(d.DistrictName), d)
		reg.insertKey(strings.ToUpper(d.DistrictName), d)

		city := normalize.Normalize(d.CityName)
		reg.byCity[city] = append(reg.byCity[city], d)
	}

	return reg, nil
}

// LoadFile loads the catalog from a JSON file on disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.LoadError{Source: path, Err: err}
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, &model.LoadError{Source: path, Err: err}
	}
	return reg, nil
}

func (r *Registry) insertKey(key string, d *model.District) {
	if key == "" {
		return
	}
	if _, exists := r.byKey[key]; !exists {
		r.byKey[key] = d
	}
}

// Count returns the number of catalog records.
func (r *Registry) Count() int { return len(r.districts) }

// All returns every district in catalog order. The slice must be treated as
// read-only.
func (r *Registry) All() []model.District { return r.districts }

// LookupExact returns the district indexed under the given key, or nil.
func (r *Registry) LookupExact(key string) *model.District { return r.byKey[key] }

// CityDistricts returns all districts of the city with the given normalized
// name, in catalog order.
func (r *Registry) CityDistricts(normCity string) []*model.District {
	return r.byCity[normCity]
}

// CityCenter returns the city-center district of the given normalized city
// name, or nil when the city is unknown or has no designated center.
func (r *Registry) CityCenter(normCity string) *model.District {
	for _, d := range r.byCity[normCity] {
		if d.IsCityCenter {
			return d
		}
	}
	return nil
}

// Search returns up to limit districts whose district or city name contains
// the term, compared under normalization. Used by the lookup endpoints.
func (r *Registry) Search(term string, limit int) []model.District {
	normTerm := normalize.Normalize(term)
	if normTerm == "" {
		return nil
	}

	var matches []model.District
	for i := range r.districts {
		d := &r.districts[i]
		if strings.Contains(normalize.Normalize(d.DistrictName), normTerm) ||
			strings.Contains(normalize.Normalize(d.CityName), normTerm) {
			matches = append(matches, *d)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches
}
