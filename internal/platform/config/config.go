package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName     string
	HTTPPort        string
	PostgresDSN     string
	AdminAccount    string
	HederaNetwork   string
	HederaBridgeURL string
	AuditTopic      string
	SweepInterval   time.Duration

	EnableAuditRelay      bool
	EnableDeadlineSweeper bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "parkpulse"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	network := strings.TrimSpace(os.Getenv("HEDERA_NETWORK"))
	if network == "" {
		network = "testnet"
	}

	topic := strings.TrimSpace(os.Getenv("AUDIT_TOPIC"))
	if topic == "" {
		topic = "governance.audit"
	}

	return Config{
		ServiceName:     service,
		HTTPPort:        port,
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		AdminAccount:    strings.TrimSpace(os.Getenv("ADMIN_ACCOUNT_ID")),
		HederaNetwork:   network,
		HederaBridgeURL: strings.TrimSpace(os.Getenv("HEDERA_BRIDGE_URL")),
		AuditTopic:      topic,
		SweepInterval:   envDuration("SWEEP_INTERVAL", 30*time.Second),

		EnableAuditRelay:      envBool("ENABLE_AUDIT_RELAY", true),
		EnableDeadlineSweeper: envBool("ENABLE_DEADLINE_SWEEPER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
