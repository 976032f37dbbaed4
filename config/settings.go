package config

import (
	"strconv"
	"time"
)

// Settings groups the runtime knobs that used to live as module-level
// globals in older deployments. Loaded once at startup and injected into
// whatever needs them.
type Settings struct {
	JWTSecret string

	PrinterHost        string
	PrinterPort        int
	PrinterDialTimeout time.Duration
	PrinterRetries     int
}

func LoadSettings() Settings {
	return Settings{
		JWTSecret:          EnvOrDefault("JWT_SECRET", "change-me-in-production"),
		PrinterHost:        EnvOrDefault("PRINTER_HOST", "192.168.1.100"),
		PrinterPort:        envInt("PRINTER_PORT", 9100),
		PrinterDialTimeout: time.Duration(envInt("PRINTER_TIMEOUT_SECONDS", 5)) * time.Second,
		PrinterRetries:     envInt("PRINTER_RETRIES", 2),
	}
}

func envInt(key string, def int) int {
	raw := EnvOrDefault(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
