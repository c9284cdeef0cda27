package types

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

// TimeFormat is the fixed-width text form of every timestamp
// (YYYY-MM-DDTHH:MM:SS.ffffff).
const TimeFormat = "2006-01-02T15:04:05.000000"

// Reserved mapping fields.
const (
	// TypeField carries the variant name in serialized mappings.
	TypeField = "type"
	// legacyTypeField is accepted on input for documents written by
	// older tooling; it is never emitted.
	legacyTypeField = "__class__"
	// PasswordField is omitted from redacted mappings.
	PasswordField = "password"
)

// Entity is implemented by every persisted variant.
type Entity interface {
	// Kind returns the variant of the entity.
	Kind() Kind

	// Meta returns the identity and timestamps shared by every variant.
	Meta() *Base

	// ToMap returns every attribute with timestamps in TimeFormat and the
	// variant name under TypeField. When redactSecret is true the
	// password attribute is left out.
	ToMap(redactSecret bool) map[string]any

	// fields returns the attributes declared by the variant itself.
	fields() map[string]any
}

// Base holds identity and lifecycle timestamps. ID and CreatedAt never
// change once the entity is constructed.
type Base struct {
	ID        string    `mapstructure:"id"`
	CreatedAt time.Time `mapstructure:"created_at"`
	UpdatedAt time.Time `mapstructure:"updated_at"`

	// Extra holds attributes the variant does not declare. The file
	// backend keeps them; the database backend has no column for them.
	Extra map[string]any `mapstructure:"-"`
}

// Meta returns b. Variants embed Base, which gives them this method.
func (b *Base) Meta() *Base { return b }

// Now returns the current UTC time truncated to the precision of
// TimeFormat, so a timestamp survives a text round trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewID generates an entity ID (UUID v7, falling back to v4).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func newBase() Base {
	now := Now()
	return Base{ID: NewID(), CreatedAt: now, UpdatedAt: now}
}

// Touch moves UpdatedAt of e forward to at. It never moves backwards.
func Touch(e Entity, at time.Time) {
	if b := e.Meta(); at.After(b.UpdatedAt) {
		b.UpdatedAt = at
	}
}

// FormatTime renders t in TimeFormat (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses text in TimeFormat as a UTC timestamp.
// Returns an error wrapping ErrParse on malformed input.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrParse, s, err)
	}
	return t, nil
}

// Key returns the composite key "<Type>.<id>" of e.
func Key(e Entity) string {
	return KeyOf(e.Kind(), e.Meta().ID)
}

// KeyOf returns the composite key for a kind and ID.
func KeyOf(kind Kind, id string) string {
	return kind.String() + "." + id
}

// New returns a fresh entity of the given kind with a generated ID and
// CreatedAt equal to UpdatedAt. Returns nil for an invalid kind.
func New(kind Kind) Entity {
	e := zero(kind)
	if e == nil {
		return nil
	}
	*e.Meta() = newBase()
	return e
}

// zero returns an empty entity of the given kind, or nil.
func zero(kind Kind) Entity {
	switch kind {
	case KindState:
		return &State{}
	case KindCity:
		return &City{}
	case KindAmenity:
		return &Amenity{}
	case KindUser:
		return &User{}
	case KindPlace:
		return &Place{}
	case KindReview:
		return &Review{}
	default:
		return nil
	}
}

// FromMap reconstructs an entity of the given kind from an attribute
// mapping, as read back from storage. The type tag is ignored. Text
// timestamps are parsed with TimeFormat; time.Time values are taken as
// is; absent timestamps default to now and an absent id is generated.
// Attributes the variant does not declare are kept in Base.Extra. Names
// match exactly, so "Name" is an undeclared attribute of a State.
//
// Returns an error wrapping ErrParse when a timestamp is present but is
// not valid text, and ErrUnknownKind for an invalid kind. A password
// attribute is copied as stored; it is never hashed again.
func FromMap(kind Kind, attrs map[string]any) (Entity, error) {
	e := zero(kind)
	if e == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}

	input := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if k == TypeField || k == legacyTypeField {
			continue
		}
		input[k] = v
	}

	now := Now()
	created, err := timestampAttr(input, "created_at", now)
	if err != nil {
		return nil, err
	}
	updated, err := timestampAttr(input, "updated_at", created)
	if err != nil {
		return nil, err
	}
	input["created_at"] = created
	input["updated_at"] = updated

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Squash:           true,
		Metadata:         &md,
		Result:           e,
		MatchName:        func(key, field string) bool { return key == field },
	})
	if err != nil {
		return nil, fmt.Errorf("building %s decoder: %w", kind, err)
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}

	b := e.Meta()
	if b.ID == "" {
		b.ID = NewID()
	}
	for _, k := range md.Unused {
		if b.Extra == nil {
			b.Extra = make(map[string]any)
		}
		b.Extra[k] = input[k]
	}
	return e, nil
}

// FromMapAuto reconstructs an entity whose kind is named by the type tag
// of the mapping.
func FromMapAuto(attrs map[string]any) (Entity, error) {
	tag, ok := TypeTag(attrs)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q tag", ErrUnknownKind, TypeField)
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return nil, err
	}
	return FromMap(kind, attrs)
}

// TypeTag returns the variant name carried by a mapping, accepting the
// legacy tag as well.
func TypeTag(attrs map[string]any) (string, bool) {
	if tag, ok := attrs[TypeField].(string); ok {
		return tag, true
	}
	tag, ok := attrs[legacyTypeField].(string)
	return tag, ok
}

// timestampAttr reads a timestamp attribute, falling back to def when the
// attribute is absent or nil.
func timestampAttr(input map[string]any, field string, def time.Time) (time.Time, error) {
	v, ok := input[field]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		parsed, err := ParseTime(t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", field, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("%s: %w: unexpected %T", field, ErrParse, v)
	}
}

// rawAttributes returns every attribute with timestamps as time.Time.
func rawAttributes(e Entity) map[string]any {
	b := e.Meta()
	fields := e.fields()
	m := make(map[string]any, len(b.Extra)+len(fields)+3)
	for k, v := range b.Extra {
		m[k] = v
	}
	for k, v := range fields {
		m[k] = v
	}
	m["id"] = b.ID
	m["created_at"] = b.CreatedAt
	m["updated_at"] = b.UpdatedAt
	return m
}

func toMap(e Entity, redactSecret bool) map[string]any {
	b := e.Meta()
	m := rawAttributes(e)
	m["created_at"] = FormatTime(b.CreatedAt)
	m["updated_at"] = FormatTime(b.UpdatedAt)
	m[TypeField] = e.Kind().String()
	if redactSecret {
		delete(m, PasswordField)
	}
	return m
}

// Describe returns a diagnostic string "[<Type>] (<id>) <attributes>".
// It is not a persisted format.
func Describe(e Entity) string {
	return fmt.Sprintf("[%s] (%s) %v", e.Kind(), e.Meta().ID, rawAttributes(e))
}
