package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Foursquare: FoursquareConfig{
			ClientID:     "id",
			ClientSecret: "secret",
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, expected longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Session.Backend != BackendPostgres {
		t.Fatalf("backend = %q, expected postgres", cfg.Session.Backend)
	}
}

func TestNormalizeWebhookDefaultsPort(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook.URL = "https://example.com/bot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Webhook.Port != DefaultWebhookPort {
		t.Fatalf("port = %d, expected %d", cfg.Webhook.Port, DefaultWebhookPort)
	}
	if cfg.Webhook.Listen == "" {
		t.Fatal("listen address must default")
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRejectsMissingFoursquareCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Foursquare.ClientSecret = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing foursquare credentials")
	}
}

func TestNormalizeRedisRequiresAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Backend = "redis"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for redis backend without addr")
	}
	cfg.Session.RedisAddr = "localhost:6379"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestLoadMissingFileUsesEnvOnly(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "123:abc")
	t.Setenv("FOURSQUARE_CLIENT_ID", "id")
	t.Setenv("FOURSQUARE_CLIENT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := "" +
		"telegram:\n" +
		"  token: from-file\n" +
		"foursquare:\n" +
		"  client_id: id\n" +
		"  client_secret: secret\n" +
		"session:\n" +
		"  backend: memory\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TELEGRAM_API_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, expected env to win", cfg.Telegram.Token)
	}
	if cfg.Session.Backend != BackendMemory {
		t.Fatalf("backend = %q", cfg.Session.Backend)
	}
}
