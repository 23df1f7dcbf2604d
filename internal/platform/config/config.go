package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	EventBus     string
	KafkaBrokers []string

	PlatformOwner string
	FeeRecipient  string
	FeeBps        int64

	EnableBookingOutcomeConsumer bool
}

func Load() (Config, error) {
	// Local runs keep infra values in a .env file; a missing file is fine.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "voyago"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	bus := strings.TrimSpace(strings.ToLower(os.Getenv("EVENT_BUS")))
	if bus == "" {
		bus = "inproc"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	owner := os.Getenv("PLATFORM_OWNER")
	if owner == "" {
		owner = "platform-owner"
	}
	feeRecipient := os.Getenv("FEE_RECIPIENT")
	if feeRecipient == "" {
		feeRecipient = owner
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		EventBus:     bus,
		KafkaBrokers: brokers,

		PlatformOwner: owner,
		FeeRecipient:  feeRecipient,
		FeeBps:        envInt64("FEE_BPS", 250),

		EnableBookingOutcomeConsumer: envBool("ENABLE_BOOKING_OUTCOME_CONSUMER", true),
	}, nil
}

func envInt64(name string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
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
