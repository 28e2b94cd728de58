package auth

import (
	"fmt"
	"github.com/spf13/viper"
)

type Config struct {
	AuthAddr string `mapstructure:"AuthAddr"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.BindEnv("AuthAddr", "AUTH_ADDR")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: using only environment variables: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	if cfg.AuthAddr == "" {
		cfg.AuthAddr = v.GetString("AUTH_ADDR")
	}
	if cfg.AuthAddr == "" {
		return nil, fmt.Errorf("AuthAddr is required")
	}

	return &cfg, nil
}
