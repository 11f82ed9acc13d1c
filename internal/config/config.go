package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort  string    `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	PublicURL string    `yaml:"public-url" env:"PUBLIC_URL" env-default:"http://localhost:8080"`
	Limits    Limits    `yaml:"limits"`
	Lifetimes Lifetimes `yaml:"lifetimes"`
}

type Limits struct {
	RoomConnections   int           `yaml:"room-connections" env-default:"4"`
	GlobalConnections int           `yaml:"global-connections" env-default:"256"`
	RoomsPerIP        int           `yaml:"rooms-per-ip" env-default:"5"`
	RoomsPerIPWindow  time.Duration `yaml:"rooms-per-ip-window" env-default:"60s"`
	MaxBodyBytes      int64         `yaml:"max-body-bytes" env-default:"1024"`
}

type Lifetimes struct {
	RoomTTL       time.Duration `yaml:"room-ttl" env-default:"2h"`
	IdleTTL       time.Duration `yaml:"idle-ttl" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env-default:"1m"`
	PingInterval  time.Duration `yaml:"ping-interval" env-default:"30s"`
}

// MustLoad - load all configurations from the given yaml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}
