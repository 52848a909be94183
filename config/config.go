package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

type RemoteConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type StorageConfig struct {
	Folder string `toml:"folder"`
}

type AuthConfig struct {
	HashScheme string `toml:"hash_scheme"` // "sha256" or "bcrypt"
}

type I18nConfig struct {
	DefaultLanguage string `toml:"default_language"`
}

type RateLimitConfig struct {
	Requests        int `toml:"requests"`
	WindowSeconds   int `toml:"window_seconds"`
	LoginRequests   int `toml:"login_requests"`
	LoginWindowSecs int `toml:"login_window_seconds"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Remote    RemoteConfig    `toml:"remote"`
	Storage   StorageConfig   `toml:"storage"`
	Auth      AuthConfig      `toml:"auth"`
	I18n      I18nConfig      `toml:"i18n"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Set default values
	config.Server.Port = 3000
	config.Remote.TimeoutSeconds = 15
	config.Storage.Folder = "./data"
	config.Auth.HashScheme = "sha256"
	config.I18n.DefaultLanguage = "en"
	config.RateLimit.Requests = 100
	config.RateLimit.WindowSeconds = 60
	config.RateLimit.LoginRequests = 10
	config.RateLimit.LoginWindowSecs = 60

	// Load config file
	_, err := toml.DecodeFile(filepath, &config)
	if err != nil {
		return nil, err
	}

	if config.Remote.BaseURL == "" {
		return nil, fmt.Errorf("remote.base_url is required")
	}

	return &config, nil
}
