package types

// Amenity is a feature a Place can offer. Places and amenities are linked
// many-to-many through Place.AmenityIDs.
type Amenity struct {
	Base `mapstructure:",squash"`
	Name string `mapstructure:"name"`
}

// NewAmenity returns a fresh Amenity with the given name.
func NewAmenity(name string) *Amenity {
	return &Amenity{Base: newBase(), Name: name}
}

// Kind returns KindAmenity.
func (a *Amenity) Kind() Kind { return KindAmenity }

// ToMap implements Entity.
func (a *Amenity) ToMap(redactSecret bool) map[string]any { return toMap(a, redactSecret) }

func (a *Amenity) fields() map[string]any {
	return map[string]any{"name": a.Name}
}
