package recagent

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := defaultConfig()
		cfg.API.BaseURL = "https://api.recagent.example"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "ftp scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://x" }, wantErr: true},
		{name: "relative url", mutate: func(c *Config) { c.API.BaseURL = "api.recagent.example" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: true},
		{name: "negative refetch delay", mutate: func(c *Config) { c.Profile.RefetchDelay = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithBaseURL("https://api.recagent.example")

	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second build succeeded")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("build without a base URL succeeded")
	}
}

func TestBuilderDefaults(t *testing.T) {
	client, err := New().WithBaseURL("https://api.recagent.example").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(client.Close)

	if client.http.Timeout != 15*time.Second {
		t.Fatalf("Timeout = %v", client.http.Timeout)
	}
	if client.audit != nil {
		t.Fatal("audit dispatcher wired without a sink")
	}
	// The default navigator and in-memory backend are exercised enough that
	// a panic here would fail the test.
	client.Navigation().OnAuthRejected()
}
