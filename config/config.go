package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
)

// Config holds the application configuration
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	SentryDSN   string

	// Output
	ExportDir   string
	MIDIOutPort string

	// Generation defaults
	Tempo               int
	Pattern             string
	ProgressionLength   int
	SusProbability      float64
	MaxGenerateAttempts int
	HarmonyPolicy       string

	// HTTP
	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		ExportDir:           getEnv("EXPORT_DIR", "./out"),
		MIDIOutPort:         getEnv("MIDI_OUT_PORT", ""),
		Tempo:               getInt("TEMPO_BPM", constants.DefaultTempo),
		Pattern:             getEnv("RHYTHM_PATTERN", constants.DefaultPattern),
		ProgressionLength:   getInt("PROGRESSION_LENGTH", constants.ShortProgression),
		SusProbability:      getFloat("SUS_PROBABILITY", constants.DefaultSusProbability),
		MaxGenerateAttempts: getInt("MAX_GENERATE_ATTEMPTS", constants.DefaultMaxGenerateAttempts),
		HarmonyPolicy:       getEnv("HARMONY_POLICY", "classic"),
		CORSOrigins:         strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("ignoring invalid integer config value", logger.Fields{"key": key, "value": value})
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn("ignoring invalid float config value", logger.Fields{"key": key, "value": value})
		return defaultValue
	}
	return f
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
