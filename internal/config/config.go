// Package config loads the engine's key=value settings file: one
// setting per line, blank lines and lines starting with '#' ignored.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDashboardPort   = 8080
	defaultServerPort      = 9090
	defaultMaxClients      = 100
	defaultMaxOrderSize    = 10000
	defaultMaxPositionSize = 50000
	defaultMaxDailyLoss    = 100000.0
	defaultLoggingLevel    = "info"
	defaultLoggingFile     = ""
	defaultEnableProfiling = false
)

// Config is the typed view over the recognized settings keys. Raw
// holds every key seen in the file, including ones Config doesn't
// recognize, so callers needing an unrecognized key can still read it.
type Config struct {
	DashboardPort    int
	ServerPort       int
	ServerMaxClients int
	MaxOrderSize     uint64
	MaxPositionSize  uint64
	MaxDailyLoss     float64
	LoggingLevel     string
	LoggingFile      string
	EnableProfiling  bool

	Raw map[string]string
}

// Default returns a Config populated with built-in fallbacks, the
// same values an empty settings file would produce.
func Default() Config {
	return Config{
		DashboardPort:    defaultDashboardPort,
		ServerPort:       defaultServerPort,
		ServerMaxClients: defaultMaxClients,
		MaxOrderSize:     defaultMaxOrderSize,
		MaxPositionSize:  defaultMaxPositionSize,
		MaxDailyLoss:     defaultMaxDailyLoss,
		LoggingLevel:     defaultLoggingLevel,
		LoggingFile:      defaultLoggingFile,
		EnableProfiling:  defaultEnableProfiling,
		Raw:              make(map[string]string),
	}
}

// Load parses path into a Config, applying built-in fallbacks for any
// key that is absent or fails to parse as its expected type.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	raw := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		raw[key] = value
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	cfg.Raw = raw
	cfg.DashboardPort = getInt(raw, "dashboard.port", cfg.DashboardPort)
	cfg.ServerPort = getInt(raw, "server.port", cfg.ServerPort)
	cfg.ServerMaxClients = getInt(raw, "server.max_clients", cfg.ServerMaxClients)
	cfg.MaxOrderSize = getUint(raw, "risk.max_order_size", cfg.MaxOrderSize)
	cfg.MaxPositionSize = getUint(raw, "risk.max_position_size", cfg.MaxPositionSize)
	cfg.MaxDailyLoss = getFloat(raw, "risk.max_daily_loss", cfg.MaxDailyLoss)
	cfg.LoggingLevel = getString(raw, "logging.level", cfg.LoggingLevel)
	cfg.LoggingFile = getString(raw, "logging.file", cfg.LoggingFile)
	cfg.EnableProfiling = getBool(raw, "matching.enable_profiling", cfg.EnableProfiling)

	return cfg, nil
}

func getString(raw map[string]string, key, fallback string) string {
	if v, ok := raw[key]; ok && v != "" {
		return v
	}
	return fallback
}

func getInt(raw map[string]string, key string, fallback int) int {
	v, ok := raw[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getUint(raw map[string]string, key string, fallback uint64) uint64 {
	v, ok := raw[key]
	if !ok {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(raw map[string]string, key string, fallback float64) float64 {
	v, ok := raw[key]
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(raw map[string]string, key string, fallback bool) bool {
	v, ok := raw[key]
	if !ok || v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
