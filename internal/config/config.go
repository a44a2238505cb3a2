package config

import (
	"os"
	"strconv"
	"time"
)

// Интервалы опроса по умолчанию: входящие запросы водителя каждые 5 секунд,
// активная поездка и наблюдатель SOS — каждые 10 секунд.
const (
	DefaultPendingPollInterval = 5 * time.Second
	DefaultActivePollInterval  = 10 * time.Second
)

// Client — настройки клиентской части (SDK)
type Client struct {
	BaseURL             string
	RequestTimeout      time.Duration
	PendingPollInterval time.Duration
	ActivePollInterval  time.Duration
	SOSPollInterval     time.Duration
}

// LoadClient читает настройки клиента из окружения,
// подставляя значения по умолчанию
func LoadClient() Client {
	cfg := Client{
		BaseURL:             "http://localhost:8080/api",
		RequestTimeout:      10 * time.Second,
		PendingPollInterval: DefaultPendingPollInterval,
		ActivePollInterval:  DefaultActivePollInterval,
		SOSPollInterval:     DefaultActivePollInterval,
	}

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if val, err := strconv.Atoi(os.Getenv("API_REQUEST_TIMEOUT_SECONDS")); err == nil && val > 0 {
		cfg.RequestTimeout = time.Duration(val) * time.Second
	}
	if val, err := strconv.Atoi(os.Getenv("POLL_PENDING_INTERVAL_MS")); err == nil && val > 0 {
		cfg.PendingPollInterval = time.Duration(val) * time.Millisecond
	}
	if val, err := strconv.Atoi(os.Getenv("POLL_ACTIVE_INTERVAL_MS")); err == nil && val > 0 {
		cfg.ActivePollInterval = time.Duration(val) * time.Millisecond
	}
	if val, err := strconv.Atoi(os.Getenv("POLL_SOS_INTERVAL_MS")); err == nil && val > 0 {
		cfg.SOSPollInterval = time.Duration(val) * time.Millisecond
	}

	return cfg
}

// Server — настройки справочного сервера
type Server struct {
	Port string
	// Возраст запроса, после которого сервер переводит его в no_driver_found
	NoDriverTimeout time.Duration
}

func LoadServer() Server {
	cfg := Server{
		Port:            "8080",
		NoDriverTimeout: 5 * time.Minute,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if val, err := strconv.Atoi(os.Getenv("NO_DRIVER_TIMEOUT_MINUTES")); err == nil && val > 0 {
		cfg.NoDriverTimeout = time.Duration(val) * time.Minute
	}

	return cfg
}
