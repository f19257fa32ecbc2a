package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	c := Config{}
	c.HTTP.Port = 8080
	c.Database.Addrs = []string{"127.0.0.1:6379"}
	c.ApplyDefaults()
	return c
}

func TestApplyDefaults(t *testing.T) {
	c := validConfig()

	if c.Search.SemanticK != 50 || c.Search.DefaultPageSize != 12 || c.Search.MaxPageSize != 100 {
		t.Errorf("search defaults = %+v", c.Search)
	}
	if c.Training.CFFactors != 50 || c.Training.CFEpochs != 30 {
		t.Errorf("training defaults = %+v", c.Training)
	}
	if c.Training.CFLearningRate != 0.005 || c.Training.CFRegularization != 0.04 {
		t.Errorf("training defaults = %+v", c.Training)
	}
	if c.Database.KeyPrefix != "recohub:" {
		t.Errorf("key prefix = %q", c.Database.KeyPrefix)
	}
	if c.Embedding.TimeoutSec != 30 || c.Embedding.BatchSize != 64 {
		t.Errorf("embedding defaults = %+v", c.Embedding)
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := c
	bad.HTTP.Port = 0
	if err := bad.Validate(); err == nil {
		t.Error("port 0 must be rejected")
	}

	bad = c
	bad.Database.Addrs = nil
	if err := bad.Validate(); err == nil {
		t.Error("empty database.addrs must be rejected")
	}

	bad = c
	bad.Search.DefaultPageSize = 200
	bad.Search.MaxPageSize = 100
	if err := bad.Validate(); err == nil {
		t.Error("default page size above max must be rejected")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RECOHUB_TEST_VAR", "from-env")

	out := string(expandEnvVars([]byte("addr: ${RECOHUB_TEST_VAR}")))
	if !strings.Contains(out, "from-env") {
		t.Errorf("expanded = %q", out)
	}

	out = string(expandEnvVars([]byte("addr: ${RECOHUB_UNSET_VAR:-fallback}")))
	if !strings.Contains(out, "fallback") {
		t.Errorf("default not applied: %q", out)
	}

	out = string(expandEnvVars([]byte("addr: ${RECOHUB_UNSET_VAR}")))
	if out != "addr: " {
		t.Errorf("unset variable without default should expand empty, got %q", out)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("default env = %q, want local", env)
	}

	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("env = %q, want prod", env)
	}
}
