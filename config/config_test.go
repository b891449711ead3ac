package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/root-ali/iris-console/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iris-console.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.URL != "http://localhost:9090" {
		t.Errorf("unexpected default url: %q", c.URL)
	}
	if c.SessionPath == "" {
		t.Error("expected a default session path")
	}
	if c.SkipVerify {
		t.Error("skip-verify should default to false")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
url = "https://iris.example.com:9443"
timeout = "30s"
skip-verify = true
session-path = "/tmp/iris-session.db"
`)
	c, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.URL != "https://iris.example.com:9443" {
		t.Errorf("unexpected url: %q", c.URL)
	}
	if time.Duration(c.Timeout) != 30*time.Second {
		t.Errorf("unexpected timeout: %v", c.Timeout)
	}
	if !c.SkipVerify {
		t.Error("expected skip-verify true")
	}
	if c.SessionPath != "/tmp/iris-session.db" {
		t.Errorf("unexpected session path: %q", c.SessionPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `url = "http://from-file:9090"`)
	t.Setenv(config.EnvURL, "http://from-env:9090")
	t.Setenv(config.EnvSkipVerify, "1")
	t.Setenv(config.EnvSessionPath, "/tmp/env-session.db")

	c, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.URL != "http://from-env:9090" {
		t.Errorf("environment should win over the file, got %q", c.URL)
	}
	if !c.SkipVerify {
		t.Error("expected skip-verify from environment")
	}
	if c.SessionPath != "/tmp/env-session.db" {
		t.Errorf("unexpected session path: %q", c.SessionPath)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		alter func(*config.Config)
		valid bool
	}{
		{name: "defaults", alter: func(c *config.Config) {}, valid: true},
		{name: "empty url", alter: func(c *config.Config) { c.URL = "" }},
		{name: "bad scheme", alter: func(c *config.Config) { c.URL = "udp://host:9090" }},
		{name: "https ok", alter: func(c *config.Config) { c.URL = "https://host:9443" }, valid: true},
		{name: "empty session path", alter: func(c *config.Config) { c.SessionPath = "" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := config.NewConfig()
			tc.alter(&c)
			err := c.Validate()
			if tc.valid && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
