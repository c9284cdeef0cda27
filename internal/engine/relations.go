package engine

import (
	"errors"
	"slices"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// CitiesOf returns the cities of a state.
func (r *Repository) CitiesOf(stateID string) ([]*types.City, error) {
	return allOf(r, types.KindCity, func(c *types.City) bool { return c.StateID == stateID })
}

// PlacesOf returns the places of a city.
func (r *Repository) PlacesOf(cityID string) ([]*types.Place, error) {
	return allOf(r, types.KindPlace, func(p *types.Place) bool { return p.CityID == cityID })
}

// PlacesOfUser returns the places hosted by a user.
func (r *Repository) PlacesOfUser(userID string) ([]*types.Place, error) {
	return allOf(r, types.KindPlace, func(p *types.Place) bool { return p.UserID == userID })
}

// ReviewsOf returns the reviews of a place.
func (r *Repository) ReviewsOf(placeID string) ([]*types.Review, error) {
	return allOf(r, types.KindReview, func(rv *types.Review) bool { return rv.PlaceID == placeID })
}

// ReviewsOfUser returns the reviews written by a user.
func (r *Repository) ReviewsOfUser(userID string) ([]*types.Review, error) {
	return allOf(r, types.KindReview, func(rv *types.Review) bool { return rv.UserID == userID })
}

// AmenitiesOf returns the stored amenities linked to a place. Links to
// amenities that no longer exist are skipped.
func (r *Repository) AmenitiesOf(p *types.Place) ([]*types.Amenity, error) {
	return allOf(r, types.KindAmenity, func(a *types.Amenity) bool { return p.HasAmenity(a.ID) })
}

// LinkAmenity adds the amenity to the place and saves the place. Linking
// twice is a no-op.
func (r *Repository) LinkAmenity(p *types.Place, a *types.Amenity) error {
	if p == nil || a == nil {
		return types.ErrNilEntity
	}
	if !p.AddAmenity(a.ID) {
		return nil
	}
	return r.Save(p)
}

// UnlinkAmenity removes the amenity from the place and saves the place.
// Returns ErrNotFound when the amenity was not linked.
func (r *Repository) UnlinkAmenity(p *types.Place, a *types.Amenity) error {
	if p == nil || a == nil {
		return types.ErrNilEntity
	}
	if !p.RemoveAmenity(a.ID) {
		return types.ErrNotFound
	}
	return r.Save(p)
}

// SearchFilter narrows SearchPlaces. Empty lists impose no constraint.
type SearchFilter struct {
	States    []string `json:"states,omitempty"`
	Cities    []string `json:"cities,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// Empty reports whether the filter has no constraint.
func (f SearchFilter) Empty() bool {
	return len(f.States) == 0 && len(f.Cities) == 0 && len(f.Amenities) == 0
}

// SearchPlaces returns the places located in any listed state or city
// (every place when neither is listed) that carry every listed amenity.
// Unknown state or city ids are ignored; an unknown amenity id matches no
// place. When amenities are listed and the locations match no place, the
// amenities are checked against every place.
func (r *Repository) SearchPlaces(f SearchFilter) ([]*types.Place, error) {
	cities := make(map[string]bool)
	for _, id := range f.Cities {
		if _, err := r.store.Get(types.KindCity, id); errors.Is(err, types.ErrNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}
		cities[id] = true
	}
	for _, id := range f.States {
		if _, err := r.store.Get(types.KindState, id); errors.Is(err, types.ErrNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}
		cs, err := r.CitiesOf(id)
		if err != nil {
			return nil, err
		}
		for _, c := range cs {
			cities[c.ID] = true
		}
	}

	for _, id := range f.Amenities {
		if _, err := r.store.Get(types.KindAmenity, id); errors.Is(err, types.ErrNotFound) {
			return []*types.Place{}, nil
		} else if err != nil {
			return nil, err
		}
	}

	places, err := allOf[*types.Place](r, types.KindPlace, nil)
	if err != nil {
		return nil, err
	}
	if len(f.States) > 0 || len(f.Cities) > 0 {
		located := slices.DeleteFunc(slices.Clone(places), func(p *types.Place) bool { return !cities[p.CityID] })
		if len(located) > 0 || len(f.Amenities) == 0 {
			places = located
		}
	}

	out := []*types.Place{}
	for _, p := range places {
		if hasAll(p, f.Amenities) {
			out = append(out, p)
		}
	}
	return out, nil
}

func hasAll(p *types.Place, amenityIDs []string) bool {
	for _, id := range amenityIDs {
		if !p.HasAmenity(id) {
			return false
		}
	}
	return true
}
