// Package config loads CLI settings from config.yaml and HBNB_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/internal/logging"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "HBNB"
)

// Settings is everything the CLI reads from configuration.
type Settings struct {
	types.Config `mapstructure:",squash" yaml:",inline"`
	Log          logging.Config `mapstructure:",squash" yaml:",inline"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Config: types.Config{
			StorageType: types.StorageFile,
			Database: types.DatabaseConfig{
				Driver: types.DriverPostgres,
			},
		},
		Log: logging.Config{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}

// legacyEnv lists extra environment names accepted for a key, in
// precedence order after HBNB_<KEY>.
var legacyEnv = map[string][]string{
	"db_user": {"HBNB_MYSQL_USER"},
	"db_pwd":  {"HBNB_MYSQL_PWD"},
	"db_host": {"HBNB_MYSQL_HOST"},
	"db_name": {"HBNB_MYSQL_DB"},
}

// Path returns the location of config.yaml in configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}

// Load reads config.yaml from configDir and applies HBNB_* environment
// overrides. A missing config.yaml is not an error.
func Load(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		bind := append([]string{key, envPrefix + "_" + strings.ToUpper(key)}, names...)
		if err := v.BindEnv(bind...); err != nil {
			return Settings{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// setDefaults registers every key so environment overrides apply even
// when config.yaml does not mention it.
func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("type_storage", d.StorageType)
	v.SetDefault("env", d.Env)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("file_path", d.FilePath)
	v.SetDefault("db_driver", d.Database.Driver)
	v.SetDefault("db_user", d.Database.User)
	v.SetDefault("db_pwd", d.Database.Password)
	v.SetDefault("db_host", d.Database.Host)
	v.SetDefault("db_name", d.Database.Name)
	v.SetDefault("log_level", d.Log.Level)
	v.SetDefault("log_format", d.Log.Format)
	v.SetDefault("log_output", d.Log.Output)
}

// defaultHeader precedes the generated config.yaml.
const defaultHeader = `# hbnb configuration
# type_storage: file | db
# db_driver: postgres | sqlite
# Every key can be overridden with HBNB_<KEY> (HBNB_TYPE_STORAGE, HBNB_DB_NAME, ...).
`

// WriteDefault writes s to config.yaml in configDir unless the file
// already exists. It reports whether a file was written.
func WriteDefault(configDir string, s Settings) (bool, error) {
	path := Path(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
