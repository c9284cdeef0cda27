package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	for _, name := range []string{"", "BaseModel", "state", "Kind(9)"} {
		_, err := ParseKind(name)
		assert.True(t, errors.Is(err, ErrUnknownKind), "ParseKind(%q) = %v", name, err)
	}
}

func TestKindValidAndMatches(t *testing.T) {
	assert.False(t, AnyKind.Valid())
	assert.False(t, Kind(42).Valid())
	assert.Equal(t, "Kind(42)", Kind(42).String())

	s := NewState("Nevada")
	assert.True(t, AnyKind.Matches(s))
	assert.True(t, KindState.Matches(s))
	assert.False(t, KindCity.Matches(s))
	assert.False(t, KindState.Matches(nil))
}

func TestNewReturnsNilForInvalidKind(t *testing.T) {
	assert.Nil(t, New(AnyKind))
	assert.Nil(t, New(Kind(-1)))
	for _, k := range Kinds {
		e := New(k)
		require.NotNil(t, e)
		assert.Equal(t, k, e.Kind())
	}
}
