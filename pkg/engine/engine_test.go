package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/pkg/engine"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func TestOpenAndSave(t *testing.T) {
	store, err := engine.Open(types.Config{StorageType: types.StorageFile, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer store.Detach()

	repo := engine.NewRepository(store)
	st := types.NewState("California")
	require.NoError(t, repo.Save(st))

	places, err := repo.SearchPlaces(engine.SearchFilter{States: []string{st.ID}})
	require.NoError(t, err)
	assert.Empty(t, places)

	n, err := store.Count(types.KindState)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
