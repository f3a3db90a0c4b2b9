package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port    string // listen port, defaults to 3000
	BaseURL string // public base URL Efí calls back on

	EfiClientID      string
	EfiClientSecret  string
	EfiCertPath      string // PEM bundle with client certificate + key
	EfiSandbox       bool
	EfiSkipMTLSCheck bool
	EfiPixKey        string // receiving PIX key

	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string
}

func Load() (Config, error) {
	cfg := Config{
		Port:    os.Getenv("PORT"),
		BaseURL: os.Getenv("BASE_URL"),

		EfiClientID:      os.Getenv("EFI_CLIENT_ID"),
		EfiClientSecret:  os.Getenv("EFI_CLIENT_SECRET"),
		EfiCertPath:      os.Getenv("EFI_CERT_PATH"),
		EfiSandbox:       os.Getenv("EFI_SANDBOX") == "true",
		EfiSkipMTLSCheck: os.Getenv("EFI_SKIP_MTLS_CHECK") == "true",
		EfiPixKey:        os.Getenv("EFI_PIX_KEY"),

		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseClientEmail: os.Getenv("FIREBASE_CLIENT_EMAIL"),
		FirebasePrivateKey:  os.Getenv("FIREBASE_PRIVATE_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("BASE_URL is required")
	}
	if cfg.EfiClientID == "" {
		return Config{}, fmt.Errorf("EFI_CLIENT_ID is required")
	}
	if cfg.EfiClientSecret == "" {
		return Config{}, fmt.Errorf("EFI_CLIENT_SECRET is required")
	}
	if cfg.EfiPixKey == "" {
		return Config{}, fmt.Errorf("EFI_PIX_KEY is required")
	}
	if cfg.FirebaseProjectID == "" {
		return Config{}, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseClientEmail == "" {
		return Config{}, fmt.Errorf("FIREBASE_CLIENT_EMAIL is required")
	}
	if cfg.FirebasePrivateKey == "" {
		return Config{}, fmt.Errorf("FIREBASE_PRIVATE_KEY is required")
	}

	return cfg, nil
}
