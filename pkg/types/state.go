package types

// State is a top-level region that groups cities.
type State struct {
	Base `mapstructure:",squash"`
	Name string `mapstructure:"name"`
}

// NewState returns a fresh State with the given name.
func NewState(name string) *State {
	return &State{Base: newBase(), Name: name}
}

// Kind returns KindState.
func (s *State) Kind() Kind { return KindState }

// ToMap implements Entity.
func (s *State) ToMap(redactSecret bool) map[string]any { return toMap(s, redactSecret) }

func (s *State) fields() map[string]any {
	return map[string]any{"name": s.Name}
}
