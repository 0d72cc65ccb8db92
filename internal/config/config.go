// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/fairyhunter13/storefront-simulator/internal/simulator"
)

// Config holds configuration knobs for the HTTP server, the storefront
// engine, the simulator and the external collaborators.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	CatalogPath     string        `yaml:"catalog_path" env:"CATALOG_PATH"`

	Storefront Storefront `yaml:"storefront"`
	Simulator  Simulator  `yaml:"simulator"`
	Advisor    Advisor    `yaml:"advisor"`
	RabbitMQ   RabbitMQ   `yaml:"rabbitmq"`
}

type Storefront struct {
	AddToCartDelay  time.Duration `yaml:"add_to_cart_delay" env:"ADD_TO_CART_DELAY" env-default:"600ms"`
	CheckoutDelay   time.Duration `yaml:"checkout_delay" env:"CHECKOUT_DELAY" env-default:"2s"`
	NotificationTTL time.Duration `yaml:"notification_ttl" env:"NOTIFICATION_TTL" env-default:"3s"`
	MailboxBuffer   int           `yaml:"mailbox_buffer" env:"MAILBOX_BUFFER" env-default:"128"`
}

type Simulator struct {
	Interval      time.Duration `yaml:"interval" env:"SIM_INTERVAL" env-default:"2s"`
	Seed          uint64        `yaml:"seed" env:"SIM_SEED" env-default:"0"`
	TrafficWindow int           `yaml:"traffic_window" env:"SIM_TRAFFIC_WINDOW" env-default:"20"`
}

type Advisor struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	Model   string        `yaml:"model" env:"ADVISOR_MODEL" env-default:"gpt-4o-mini"`
	BaseURL string        `yaml:"base_url" env:"ADVISOR_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"ADVISOR_TIMEOUT" env-default:"10s"`
}

type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"orders_topic"`
}

// Load reads CONFIG_PATH (when set) and then the environment, applying
// defaults for anything left unset.
func Load() (Config, error) {
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SimulatorSeed returns the configured seed, or one derived from the clock
// when the seed is zero.
func (c Config) SimulatorSeed() uint64 {
	if c.Simulator.Seed != 0 {
		return c.Simulator.Seed
	}
	return uint64(time.Now().UnixNano())
}

func (c Config) validate() error {
	switch {
	case c.Storefront.AddToCartDelay < 0, c.Storefront.CheckoutDelay < 0:
		return fmt.Errorf("invalid config: delays must be >= 0")
	case c.Storefront.NotificationTTL <= 0:
		return fmt.Errorf("invalid config: NOTIFICATION_TTL must be > 0")
	case c.Simulator.Interval <= 0:
		return fmt.Errorf("invalid config: SIM_INTERVAL must be > 0")
	case c.Simulator.TrafficWindow <= 0:
		return fmt.Errorf("invalid config: SIM_TRAFFIC_WINDOW must be > 0")
	case c.Simulator.TrafficWindow > simulator.MaxTrafficWindow:
		return fmt.Errorf("invalid config: SIM_TRAFFIC_WINDOW must be <= %d", simulator.MaxTrafficWindow)
	}
	return nil
}
