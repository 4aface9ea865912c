package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
)

type DBConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
}

type LimiterConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

type EventsConfig struct {
	Websocket    bool   `yaml:"websocket"`
	RedisAddr    string `yaml:"redis_addr"`
	RedisChannel string `yaml:"redis_channel"`
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTTopic    string `yaml:"mqtt_topic"`
}

type Config struct {
	DB           DBConfig      `yaml:"db"`
	HttpHostPort string        `yaml:"http_host_port"`
	GrpcHostPort string        `yaml:"grpc_host_port"`
	Limiter      LimiterConfig `yaml:"limiter"`
	// TickInterval drives the simulation tick from cmd/server, zero disables it.
	TickInterval time.Duration `yaml:"tick_interval"`
	Events       EventsConfig  `yaml:"events"`
}

func Default() Config {
	return Config{
		DB:           DBConfig{Type: "file", Path: "fleet.db"},
		HttpHostPort: ":1080",
		Limiter:      LimiterConfig{Rate: 10, Burst: 20},
		Events: EventsConfig{
			Websocket:    true,
			RedisChannel: "battery-fleet.events",
			MQTTTopic:    "battery-fleet/events",
		},
	}
}

// Load builds the config from defaults, then the YAML file named by CONFIG_FILE,
// then environment variables. A .env file in the working directory is loaded
// into the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(common.EnvKeyConfigFile)); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DB.Type, common.EnvKeyFleetDBType)
	setString(&cfg.DB.Path, common.EnvKeyFleetDbPath)
	setString(&cfg.DB.DSN, common.EnvKeyFleetDbDSN)
	setString(&cfg.HttpHostPort, common.EnvKeyFleetHttpHostPort)
	setString(&cfg.GrpcHostPort, common.EnvKeyFleetGrpcHostPort)
	setString(&cfg.Events.RedisAddr, common.EnvKeyFleetRedisAddr)
	setString(&cfg.Events.RedisChannel, common.EnvKeyFleetRedisChannel)
	setString(&cfg.Events.MQTTBroker, common.EnvKeyFleetMQTTBroker)
	setString(&cfg.Events.MQTTTopic, common.EnvKeyFleetMQTTTopic)

	if raw, ok := lookup(common.EnvKeyFleetDefaultRate); ok {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("config: invalid %s, should be a float64 value: %w", common.EnvKeyFleetDefaultRate, err)
		}
		cfg.Limiter.Rate = rate
	}

	if raw, ok := lookup(common.EnvKeyFleetDefaultBurst); ok {
		burst, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s, should be an int value: %w", common.EnvKeyFleetDefaultBurst, err)
		}
		cfg.Limiter.Burst = burst
	}

	if raw, ok := lookup(common.EnvKeyFleetTickInterval); ok {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s, should be a duration like 30s: %w", common.EnvKeyFleetTickInterval, err)
		}
		cfg.TickInterval = interval
	}

	if raw, ok := lookup(common.EnvKeyFleetWebsocket); ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s, should be a bool value: %w", common.EnvKeyFleetWebsocket, err)
		}
		cfg.Events.Websocket = enabled
	}

	return nil
}

func lookup(key string) (string, bool) {
	raw, found := os.LookupEnv(key)
	raw = strings.TrimSpace(raw)
	return raw, found && raw != ""
}

func setString(target *string, key string) {
	if raw, ok := lookup(key); ok {
		*target = raw
	}
}

func (c *Config) Validate() error {
	switch c.DB.Type {
	case "file", "memory":
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("config: %s is required for postgres", common.EnvKeyFleetDbDSN)
		}
	default:
		return fmt.Errorf("config: unknown %s: %q", common.EnvKeyFleetDBType, c.DB.Type)
	}

	if c.HttpHostPort == "" {
		return errors.New("config: http host port must not be empty")
	}
	if c.Limiter.Rate < 0 || c.Limiter.Burst < 0 {
		return errors.New("config: limiter rate and burst must not be negative")
	}
	if c.TickInterval < 0 {
		return errors.New("config: tick interval must not be negative")
	}
	return nil
}
