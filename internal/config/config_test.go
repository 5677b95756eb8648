package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	body = strings.ReplaceAll(body, "UPLOADS", filepath.ToSlash(uploads))
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
jwt:
  secret: short
storage:
  local_path: UPLOADS
app:
  timezone: UTC
`)
	t.Setenv("PORT", "")
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Fatalf("ExpireTime = %v, want 24h", cfg.JWT.ExpireTime)
	}
	if cfg.Server.Port != "5000" || cfg.App.MinResourcesPerTopic != 3 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Log.File != "logs/app.log" || cfg.Redis.PoolSize != 20 {
		t.Fatalf("log/redis defaults = %+v %+v", cfg.Log, cfg.Redis)
	}
	if cfg.App.CatalogCacheTTL() != 10*time.Minute {
		t.Fatalf("CatalogCacheTTL = %v", cfg.App.CatalogCacheTTL())
	}
	if cfg.App.Location().String() != "UTC" {
		t.Fatalf("Location = %v", cfg.App.Location())
	}
	if cfg.File() != filepath.Join(dir, "config.yaml") {
		t.Fatalf("File = %q", cfg.File())
	}
	if _, err := os.Stat(cfg.Storage.LocalPath); err != nil {
		t.Fatalf("upload dir not created: %v", err)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: short
storage:
  local_path: UPLOADS
app:
  min_resources_per_topic: 3
`)
	t.Setenv("APP_MIN_RESOURCES_PER_TOPIC", "5")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.App.MinResourcesPerTopic != 5 || cfg.Server.Port != "8080" {
		t.Fatalf("env not applied: app=%+v server=%+v", cfg.App, cfg.Server)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "short secret in release",
			body: "server:\n  mode: release\njwt:\n  secret: short\nstorage:\n  local_path: UPLOADS\n",
			want: "JWT secret is too short",
		},
		{
			name: "zero minimum resources",
			body: "jwt:\n  secret: short\nstorage:\n  local_path: UPLOADS\napp:\n  min_resources_per_topic: 0\n",
			want: "min_resources_per_topic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	if loc := (AppConfig{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Fatalf("Location = %v, want Local", loc)
	}
}
