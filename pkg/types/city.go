package types

// City belongs to exactly one State through StateID.
type City struct {
	Base    `mapstructure:",squash"`
	StateID string `mapstructure:"state_id"`
	Name    string `mapstructure:"name"`
}

// NewCity returns a fresh City in the given state.
func NewCity(stateID, name string) *City {
	return &City{Base: newBase(), StateID: stateID, Name: name}
}

// Kind returns KindCity.
func (c *City) Kind() Kind { return KindCity }

// ToMap implements Entity.
func (c *City) ToMap(redactSecret bool) map[string]any { return toMap(c, redactSecret) }

func (c *City) fields() map[string]any {
	return map[string]any{
		"state_id": c.StateID,
		"name":     c.Name,
	}
}
