package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// console runs commands against one config and data directory.
type console struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newConsole(t *testing.T) *console {
	t.Helper()
	for _, name := range []string{"HBNB_TYPE_STORAGE", "HBNB_ENV", "HBNB_DATA_DIR", "HBNB_CONFIG_DIR", "HBNB_FILE_PATH", "HBNB_DB_NAME", "HBNB_DB_DRIVER"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return &console{t: t, configDir: t.TempDir(), dataDir: t.TempDir()}
}

// sqliteConsole configures the database backend with a sqlite file.
func sqliteConsole(t *testing.T) *console {
	c := newConsole(t)
	yml := "type_storage: db\ndb_driver: sqlite\ndb_name: hbnb.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(c.configDir, "config.yaml"), []byte(yml), 0o644))
	return c
}

func (c *console) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", c.configDir, "--data-dir", c.dataDir}, args...)
	err := Run(full, &stdout, &stderr)
	return stdout.String(), err
}

func (c *console) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "hbnb %s", strings.Join(args, " "))
	return out
}

func (c *console) create(args ...string) string {
	c.t.Helper()
	return strings.TrimSpace(c.mustRun(append([]string{"create"}, args...)...))
}

func (c *console) showMap(kind, id string) map[string]any {
	c.t.Helper()
	var m map[string]any
	require.NoError(c.t, json.Unmarshal([]byte(c.mustRun("show", kind, id)), &m))
	return m
}

func TestVersion(t *testing.T) {
	out := newConsole(t).mustRun("version")
	assert.Contains(t, out, "hbnb v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInitWritesConfigAndDocument(t *testing.T) {
	c := newConsole(t)
	out := c.mustRun("init")
	assert.Contains(t, out, "hbnb initialized")
	assert.FileExists(t, filepath.Join(c.configDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(c.dataDir, types.DefaultFileName))

	out = c.mustRun("init")
	assert.NotContains(t, out, "wrote")
}

func TestCreateShowDestroy(t *testing.T) {
	for name, c := range map[string]*console{"file": newConsole(t), "sqlite": sqliteConsole(t)} {
		t.Run(name, func(t *testing.T) {
			id := c.create("State", `name="New_Mexico"`)
			require.NotEmpty(t, id)

			m := c.showMap("State", id)
			assert.Equal(t, "New Mexico", m["name"])
			assert.Equal(t, "State", m["type"])
			assert.NotEmpty(t, m["created_at"])

			assert.Equal(t, "1\n", c.mustRun("count", "State"))

			c.mustRun("destroy", "State", id)
			_, err := c.run("show", "State", id)
			assert.ErrorIs(t, err, types.ErrNotFound)
			assert.Equal(t, "0\n", c.mustRun("count"))
		})
	}
}

func TestCreateParsesValueTypes(t *testing.T) {
	c := newConsole(t)
	id := c.create("Place", "city_id=c1", "user_id=u1", `name="Tiny_house"`,
		"number_rooms=4", "price_by_night=120", "latitude=37.773972", "bogus")
	m := c.showMap("Place", id)
	assert.Equal(t, "Tiny house", m["name"])
	assert.Equal(t, "c1", m["city_id"])
	assert.Equal(t, float64(4), m["number_rooms"])
	assert.Equal(t, float64(120), m["price_by_night"])
	assert.InDelta(t, 37.773972, m["latitude"], 1e-9)
}

func TestCreateUserHashesPassword(t *testing.T) {
	c := newConsole(t)
	id := c.create("User", `email="a@b.c"`, `password="s3cret"`)

	m := c.showMap("User", id)
	assert.NotContains(t, m, "password")

	data, err := os.ReadFile(filepath.Join(c.dataDir, types.DefaultFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret")
	assert.Contains(t, string(data), `"password":"$2a$`)
}

func TestCreateUnknownType(t *testing.T) {
	_, err := newConsole(t).run("create", "Castle")
	assert.ErrorIs(t, err, types.ErrUnknownKind)
}

func TestUpdate(t *testing.T) {
	for name, c := range map[string]*console{"file": newConsole(t), "sqlite": sqliteConsole(t)} {
		t.Run(name, func(t *testing.T) {
			id := c.create("Amenity", `name="Wifi"`)
			before := c.showMap("Amenity", id)

			c.mustRun("update", "Amenity", id, `name="Fast_wifi"`, "id=hijack", "created_at=2000-01-01T00:00:00.000000")

			after := c.showMap("Amenity", id)
			assert.Equal(t, "Fast wifi", after["name"])
			assert.Equal(t, before["created_at"], after["created_at"])
			assert.GreaterOrEqual(t, after["updated_at"].(string), before["updated_at"].(string))

			_, err := c.run("show", "Amenity", "hijack")
			assert.ErrorIs(t, err, types.ErrNotFound)
		})
	}
}

func TestUpdateMissing(t *testing.T) {
	_, err := newConsole(t).run("update", "City", "nope", "name=x")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAllListsRedactedEntities(t *testing.T) {
	c := newConsole(t)
	c.create("State", `name="Ohio"`)
	c.create("User", `email="u@x.y"`, `password="pw"`)

	var all []map[string]any
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("all")), &all))
	assert.Len(t, all, 2)
	for _, m := range all {
		assert.NotContains(t, m, "password")
	}

	var states []map[string]any
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("all", "State")), &states))
	require.Len(t, states, 1)
	assert.Equal(t, "Ohio", states[0]["name"])
}

func TestLinkAndSearch(t *testing.T) {
	for name, c := range map[string]*console{"file": newConsole(t), "sqlite": sqliteConsole(t)} {
		t.Run(name, func(t *testing.T) {
			state := c.create("State", `name="Nevada"`)
			city := c.create("City", "state_id="+state, `name="Reno"`)
			user := c.create("User", `email="h@x.y"`)
			place := c.create("Place", "city_id="+city, "user_id="+user, `name="Cabin"`)
			wifi := c.create("Amenity", `name="Wifi"`)

			c.mustRun("link", place, wifi)

			var found []map[string]any
			require.NoError(t, json.Unmarshal([]byte(c.mustRun("search", "--state", state, "--amenity", wifi)), &found))
			require.Len(t, found, 1)
			assert.Equal(t, place, found[0]["id"])

			c.mustRun("link", "--remove", place, wifi)
			require.NoError(t, json.Unmarshal([]byte(c.mustRun("search", "--amenity", wifi)), &found))
			assert.Empty(t, found)
		})
	}
}
