package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty storage type defaults to file",
			config:  Config{},
			wantErr: nil,
		},
		{
			name:    "file storage",
			config:  Config{StorageType: StorageFile, DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "unknown storage type falls back to file",
			config:  Config{StorageType: "mongo"},
			wantErr: nil,
		},
		{
			name:    "db storage without database name returns ErrDatabaseName",
			config:  Config{StorageType: StorageDB},
			wantErr: ErrDatabaseName,
		},
		{
			name: "db storage with unknown driver returns ErrDriverUnknown",
			config: Config{StorageType: StorageDB, Database: DatabaseConfig{
				Driver: "mysql", Name: "hbnb_dev_db",
			}},
			wantErr: ErrDriverUnknown,
		},
		{
			name: "valid postgres config",
			config: Config{StorageType: StorageDB, Database: DatabaseConfig{
				User: "hbnb_dev", Password: "hbnb_dev_pwd", Host: "localhost", Name: "hbnb_dev_db",
			}},
			wantErr: nil,
		},
		{
			name: "valid sqlite config",
			config: Config{StorageType: StorageDB, Database: DatabaseConfig{
				Driver: DriverSQLite, Name: "hbnb.db",
			}},
			wantErr: nil,
		},
		{
			name:    "database parameters ignored for file storage",
			config:  Config{StorageType: StorageFile, Database: DatabaseConfig{Driver: "mysql"}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDocumentPath(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default", Config{}, filepath.Join(".", DefaultFileName)},
		{"data dir", Config{DataDir: "/var/lib/hbnb"}, filepath.Join("/var/lib/hbnb", DefaultFileName)},
		{"explicit file", Config{DataDir: "/var/lib/hbnb", FilePath: "/tmp/objects.json"}, "/tmp/objects.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.DocumentPath(); got != tt.want {
				t.Errorf("DocumentPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDatabaseConfigDriverName(t *testing.T) {
	if got := (DatabaseConfig{}).DriverName(); got != DriverPostgres {
		t.Errorf("DriverName() = %q, want %q", got, DriverPostgres)
	}
	if got := (DatabaseConfig{Driver: DriverSQLite}).DriverName(); got != DriverSQLite {
		t.Errorf("DriverName() = %q, want %q", got, DriverSQLite)
	}
}
