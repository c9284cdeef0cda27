package types

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config selects and parameterizes the storage backend. It is passed
// explicitly to the storage selector; nothing reads it from the
// environment behind the caller's back. StorageType "db" selects the
// database backend and any other value the file backend.
type Config struct {
	StorageType string         `mapstructure:"type_storage" yaml:"type_storage"`
	Env         string         `mapstructure:"env" yaml:"env,omitempty"`
	DataDir     string         `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	FilePath    string         `mapstructure:"file_path" yaml:"file_path,omitempty"`
	Database    DatabaseConfig `mapstructure:",squash" yaml:",inline"`
}

// DatabaseConfig holds the connection parameters of the database backend.
type DatabaseConfig struct {
	Driver   string `mapstructure:"db_driver" yaml:"db_driver,omitempty" validate:"omitempty,oneof=postgres sqlite"`
	User     string `mapstructure:"db_user" yaml:"db_user,omitempty"`
	Password string `mapstructure:"db_pwd" yaml:"db_pwd,omitempty"`
	Host     string `mapstructure:"db_host" yaml:"db_host,omitempty"`
	Name     string `mapstructure:"db_name" yaml:"db_name,omitempty" validate:"required"`
}

// Storage types.
const (
	StorageFile = "file"
	StorageDB   = "db"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// EnvTest is the Env value that makes the database backend drop every
// table when it opens.
const EnvTest = "test"

// DefaultFileName is the document name of the file backend.
const DefaultFileName = "file.json"

// Config validation errors.
var (
	ErrDriverUnknown = errors.New("unknown database driver")
	ErrDatabaseName  = errors.New("database name must not be empty")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the Config is well-formed. Database parameters are
// only checked when the database backend is selected.
func (c Config) Validate() error {
	if err := validate.StructExcept(c, "Database"); err != nil {
		return translateValidation(err)
	}
	if !c.UsesDatabase() {
		return nil
	}
	if err := validate.Struct(c.Database); err != nil {
		return translateValidation(err)
	}
	return nil
}

// UsesDatabase reports whether the database backend is selected.
func (c Config) UsesDatabase() bool {
	return c.StorageType == StorageDB
}

// TestMode reports whether the destructive test environment is active.
func (c Config) TestMode() bool {
	return c.Env == EnvTest
}

// DocumentPath returns the path of the file backend document.
func (c Config) DocumentPath() string {
	if c.FilePath != "" {
		return c.FilePath
	}
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, DefaultFileName)
}

// DriverName returns the configured driver, defaulting to postgres.
func (d DatabaseConfig) DriverName() string {
	if d.Driver == "" {
		return DriverPostgres
	}
	return d.Driver
}

// translateValidation maps validator failures onto the sentinel errors
// of this package.
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Driver":
		return fmt.Errorf("%w: %q", ErrDriverUnknown, fe.Value())
	case "Name":
		return ErrDatabaseName
	default:
		return fmt.Errorf("invalid config field %s: %w", fe.Namespace(), err)
	}
}
