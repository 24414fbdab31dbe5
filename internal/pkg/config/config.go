package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Device       DeviceConfig  `envPrefix:"AKSM_"`
	Mqtt         MqttConfig    `envPrefix:"MQTT_"`
	Building     string        `env:"AKSM_BUILDING" envDefault:"site"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	ListenAddr   string        `env:"LISTEN_ADDR" envDefault:"0.0.0.0:8000"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"INFO"`
}

// DeviceConfig identifies the controller this process talks to and how
// long one exchange may take.
type DeviceConfig struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"443"`
	Username string        `env:"USER"`
	Password string        `env:"PASS"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type MqttConfig struct {
	Host     string `env:"HOST"`
	Username string `env:"USER"`
	Password string `env:"PASS"`
}

// FromEnv loads configuration from the environment; CLI flags override
// individual fields afterwards.
func FromEnv() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
