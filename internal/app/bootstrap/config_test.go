package bootstrap

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "shop_hub_test",
		SessionKey:    "test-session-key",
		SessionName:   "shophub-session",
		CSRFKey:       "0123456789abcdef0123456789abcdef",
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "http://not-a-mongo-uri"

	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for non-mongodb URI")
	}
}

func TestValidateConfig_CSRFKeyLength(t *testing.T) {
	cfg := validAppConfig()
	cfg.CSRFKey = "too-short"

	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for short CSRF key")
	}
	if !strings.Contains(err.Error(), "csrf_key") {
		t.Errorf("expected csrf_key error, got: %v", err)
	}
}
