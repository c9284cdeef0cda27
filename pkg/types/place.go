package types

import "slices"

// Place is a listing in one City owned by one User (the host). Amenities
// are linked through AmenityIDs; their order carries no meaning.
type Place struct {
	Base            `mapstructure:",squash"`
	CityID          string   `mapstructure:"city_id"`
	UserID          string   `mapstructure:"user_id"`
	Name            string   `mapstructure:"name"`
	Description     string   `mapstructure:"description"`
	NumberRooms     int      `mapstructure:"number_rooms"`
	NumberBathrooms int      `mapstructure:"number_bathrooms"`
	MaxGuest        int      `mapstructure:"max_guest"`
	PriceByNight    int      `mapstructure:"price_by_night"`
	Latitude        float64  `mapstructure:"latitude"`
	Longitude       float64  `mapstructure:"longitude"`
	AmenityIDs      []string `mapstructure:"amenity_ids"`
}

// NewPlace returns a fresh Place in the given city, hosted by userID.
func NewPlace(cityID, userID, name string) *Place {
	return &Place{Base: newBase(), CityID: cityID, UserID: userID, Name: name}
}

// HasAmenity reports whether the amenity is linked to the place.
func (p *Place) HasAmenity(amenityID string) bool {
	return slices.Contains(p.AmenityIDs, amenityID)
}

// AddAmenity links an amenity. Returns false if it was already linked.
func (p *Place) AddAmenity(amenityID string) bool {
	if p.HasAmenity(amenityID) {
		return false
	}
	p.AmenityIDs = append(p.AmenityIDs, amenityID)
	return true
}

// RemoveAmenity unlinks an amenity. Returns false if it was not linked.
func (p *Place) RemoveAmenity(amenityID string) bool {
	i := slices.Index(p.AmenityIDs, amenityID)
	if i < 0 {
		return false
	}
	p.AmenityIDs = slices.Delete(p.AmenityIDs, i, i+1)
	return true
}

// Kind returns KindPlace.
func (p *Place) Kind() Kind { return KindPlace }

// ToMap implements Entity.
func (p *Place) ToMap(redactSecret bool) map[string]any { return toMap(p, redactSecret) }

func (p *Place) fields() map[string]any {
	ids := make([]string, len(p.AmenityIDs))
	copy(ids, p.AmenityIDs)
	return map[string]any{
		"city_id":          p.CityID,
		"user_id":          p.UserID,
		"name":             p.Name,
		"description":      p.Description,
		"number_rooms":     p.NumberRooms,
		"number_bathrooms": p.NumberBathrooms,
		"max_guest":        p.MaxGuest,
		"price_by_night":   p.PriceByNight,
		"latitude":         p.Latitude,
		"longitude":        p.Longitude,
		"amenity_ids":      ids,
	}
}
