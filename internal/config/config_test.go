package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_ThresholdOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		cfg  SelectionConfig
	}{
		{"null_too_high", SelectionConfig{NullThreshold: 1.5, CorrThreshold: 0.95}},
		{"null_negative", SelectionConfig{NullThreshold: -0.1, CorrThreshold: 0.95}},
		{"corr_too_high", SelectionConfig{NullThreshold: 0.95, CorrThreshold: 1.5}},
		{"corr_negative", SelectionConfig{NullThreshold: 0.95, CorrThreshold: -0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				HTTP:      HTTPConfig{Port: 8080},
				Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
				Selection: tc.cfg,
			}
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error for out-of-range threshold")
			}
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Selection: SelectionConfig{NullThreshold: 0.95, CorrThreshold: 0.95},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver='valkey', got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Storage.KeyPrefix != "tabprep:" {
		t.Errorf("expected KeyPrefix='tabprep:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Ingest.DataDir != "data" {
		t.Errorf("expected DataDir='data', got %q", cfg.Ingest.DataDir)
	}
	if cfg.Selection.NullThreshold != 0.95 {
		t.Errorf("expected NullThreshold=0.95, got %v", cfg.Selection.NullThreshold)
	}
	if cfg.Selection.CorrThreshold != 0.95 {
		t.Errorf("expected CorrThreshold=0.95, got %v", cfg.Selection.CorrThreshold)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Storage:   StorageConfig{KeyPrefix: "custom:"},
		Ingest:    IngestConfig{DataDir: "/srv/datasets"},
		Selection: SelectionConfig{NullThreshold: 0.8, CorrThreshold: 0.9},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver='redis', got %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Ingest.DataDir != "/srv/datasets" {
		t.Errorf("expected DataDir='/srv/datasets', got %q", cfg.Ingest.DataDir)
	}
	if cfg.Selection.NullThreshold != 0.8 {
		t.Errorf("expected NullThreshold=0.8, got %v", cfg.Selection.NullThreshold)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TABPREP_TEST_PASSWORD", "s3cret")

	in := []byte("password: ${TABPREP_TEST_PASSWORD}\nprefix: ${TABPREP_TEST_PREFIX:-tabprep:}\n")
	out := string(expandEnvVars(in))

	want := "password: s3cret\nprefix: tabprep:\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
