package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the client binary needs from the environment.
type Config struct {
	APIURL    string
	WSURL     string
	AuthToken string

	OrderID       string
	CustomerEmail string
	DeliveryID    string

	PollMin        time.Duration
	PollMax        time.Duration
	RequestTimeout time.Duration

	// TerminalRequiresDelivery gates polling termination on the order being
	// delivered, not just the negotiation being accepted.
	TerminalRequiresDelivery bool

	SandboxAddr string
}

// Load reads the configuration from the environment, applying defaults that
// point at a locally running sandbox server.
func Load() Config {
	return Config{
		APIURL:    getEnv("API_URL", "http://localhost:8080"),
		WSURL:     getEnv("WS_URL", "ws://localhost:8080/ws"),
		AuthToken: getEnv("AUTH_TOKEN", ""),

		OrderID:       getEnv("ORDER_ID", ""),
		CustomerEmail: getEnv("CUSTOMER_EMAIL", ""),
		DeliveryID:    getEnv("DELIVERY_ID", ""),

		PollMin:        getEnvDuration("POLL_MIN_MS", 15*time.Second),
		PollMax:        getEnvDuration("POLL_MAX_MS", 20*time.Second),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT_MS", 10*time.Second),

		TerminalRequiresDelivery: getEnvBool("SYNC_TERMINAL_REQUIRES_DELIVERY", false),

		SandboxAddr: getEnv("SANDBOX_ADDR", ":8080"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
