package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// clearEnv unsets every variable Load consults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"HBNB_TYPE_STORAGE", "HBNB_ENV", "HBNB_DATA_DIR", "HBNB_FILE_PATH",
		"HBNB_DB_DRIVER", "HBNB_DB_USER", "HBNB_DB_PWD", "HBNB_DB_HOST", "HBNB_DB_NAME",
		"HBNB_MYSQL_USER", "HBNB_MYSQL_PWD", "HBNB_MYSQL_HOST", "HBNB_MYSQL_DB",
		"HBNB_LOG_LEVEL", "HBNB_LOG_FORMAT", "HBNB_LOG_OUTPUT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := `type_storage: db
db_driver: sqlite
db_name: hbnb.db
env: test
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, types.StorageDB, s.StorageType)
	assert.Equal(t, types.DriverSQLite, s.Database.Driver)
	assert.Equal(t, "hbnb.db", s.Database.Name)
	assert.True(t, s.TestMode())
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format, "unset keys keep defaults")
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("type_storage: file\n"), 0o644))

	t.Setenv("HBNB_TYPE_STORAGE", "db")
	t.Setenv("HBNB_DB_NAME", "hbnb_dev_db")
	t.Setenv("HBNB_MYSQL_USER", "hbnb_dev")
	t.Setenv("HBNB_MYSQL_PWD", "hbnb_dev_pwd")
	t.Setenv("HBNB_DB_HOST", "db.internal")
	t.Setenv("HBNB_MYSQL_HOST", "ignored")
	t.Setenv("HBNB_ENV", "test")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, types.StorageDB, s.StorageType)
	assert.Equal(t, "hbnb_dev_db", s.Database.Name)
	assert.Equal(t, "hbnb_dev", s.Database.User)
	assert.Equal(t, "hbnb_dev_pwd", s.Database.Password)
	assert.Equal(t, "db.internal", s.Database.Host, "HBNB_DB_HOST wins over the legacy name")
	assert.Equal(t, types.EnvTest, s.Env)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("type_storage: [unclosed\n"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "nested")
	want := Defaults()
	want.DataDir = "/var/lib/hbnb"

	wrote, err := WriteDefault(dir, want)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.FileExists(t, Path(dir))

	wrote, err = WriteDefault(dir, Defaults())
	require.NoError(t, err)
	assert.False(t, wrote, "existing config.yaml is kept")

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
