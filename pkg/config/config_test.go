package config

import "testing"

func TestValidate_Provider(t *testing.T) {
	cfg := &Config{}
	cfg.MLS.Provider = "zillow"
	cfg.Import.BatchSize = 100

	if err := cfg.validate(); err == nil {
		t.Error("expected error for unknown MLS provider")
	}

	cfg.MLS.Provider = "simplyrets"
	if err := cfg.validate(); err != nil {
		t.Errorf("unexpected error for valid provider: %v", err)
	}

	cfg.MLS.Provider = "bridge"
	if err := cfg.validate(); err != nil {
		t.Errorf("unexpected error for valid provider: %v", err)
	}
}

func TestValidate_BatchSize(t *testing.T) {
	cfg := &Config{}
	cfg.MLS.Provider = "simplyrets"
	cfg.Import.BatchSize = 0

	if err := cfg.validate(); err == nil {
		t.Error("expected error for zero batch size")
	}
}

func TestDatabaseConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "agentbase",
		Password: "secret",
		Database: "agentbase_engine",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=agentbase password=secret dbname=agentbase_engine sslmode=require"
	if got := db.ConnectionString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSimplyRETSIsConfigured(t *testing.T) {
	c := SimplyRETSConfig{}
	if c.IsConfigured() {
		t.Error("expected unconfigured with empty credentials")
	}
	c.APIKey = "key"
	if c.IsConfigured() {
		t.Error("expected unconfigured with missing secret")
	}
	c.APISecret = "secret"
	if !c.IsConfigured() {
		t.Error("expected configured with key and secret")
	}
}
