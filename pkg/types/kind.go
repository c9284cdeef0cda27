package types

import "fmt"

// Kind identifies one of the entity variants. The zero value AnyKind is
// used as "no filter" by All and Count.
type Kind int

// Entity kinds.
const (
	AnyKind Kind = iota
	KindState
	KindCity
	KindAmenity
	KindUser
	KindPlace
	KindReview
)

// kindNames holds the wire names carried in the "type" field.
var kindNames = [...]string{
	AnyKind:     "",
	KindState:   "State",
	KindCity:    "City",
	KindAmenity: "Amenity",
	KindUser:    "User",
	KindPlace:   "Place",
	KindReview:  "Review",
}

// Kinds lists every concrete kind in table-creation order.
var Kinds = []Kind{
	KindState,
	KindCity,
	KindAmenity,
	KindUser,
	KindPlace,
	KindReview,
}

// String returns the wire name of the kind ("State", "City", ...).
func (k Kind) String() string {
	if k < AnyKind || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k names a concrete entity variant.
func (k Kind) Valid() bool {
	return k > AnyKind && int(k) < len(kindNames)
}

// Matches reports whether e passes the kind filter. AnyKind matches
// every entity.
func (k Kind) Matches(e Entity) bool {
	if e == nil {
		return false
	}
	return k == AnyKind || e.Kind() == k
}

// ParseKind maps a wire name back to its Kind.
// Returns ErrUnknownKind for anything else.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return AnyKind, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
