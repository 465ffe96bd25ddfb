package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Output
	OutputDir    string
	BaseFilename string

	// Export endpoint
	NPDVURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	RequestBurst      int
	FetchWorkers      int

	// Description normalization
	AcronymsCSVPath string

	// Archive (empty path disables)
	SQLiteDBPath string

	// AMQP (empty URL disables)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets (empty ID disables)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	return &Config{
		OutputDir:    getEnv("OUTPUT_DIR", "data"),
		BaseFilename: getEnv("OUTPUT_BASE_FILENAME", "nasa_contracts"),

		NPDVURL:           getEnv("NPDV_URL", "https://prod.nais.nasa.gov/cgibin/npdv/usmap05.cgi"),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 2.0),
		RequestBurst:      getEnvInt("REQUEST_BURST", 1),
		FetchWorkers:      getEnvInt("FETCH_WORKERS", 1),

		AcronymsCSVPath: getEnv("ACRONYMS_CSV_PATH", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "awardstats"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "state_summaries"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Grand Totals"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.OutputDir) == "" {
		errors = append(errors, "output directory cannot be empty")
	}
	if strings.TrimSpace(c.BaseFilename) == "" {
		errors = append(errors, "output base filename cannot be empty")
	}

	if parsedURL, err := url.Parse(c.NPDVURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid NPDV URL '%s': %v", c.NPDVURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid NPDV URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.RequestTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	} else if c.RequestTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at most 5 minutes", c.RequestTimeout))
	}

	if c.RequestsPerSecond <= 0 {
		errors = append(errors, fmt.Sprintf("invalid request rate %v: must be positive", c.RequestsPerSecond))
	} else if c.RequestsPerSecond > 100 {
		errors = append(errors, fmt.Sprintf("invalid request rate %v: must be at most 100", c.RequestsPerSecond))
	}

	if c.RequestBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid request burst %d: must be at least 1", c.RequestBurst))
	}

	if c.FetchWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid fetch workers %d: must be at least 1", c.FetchWorkers))
	} else if c.FetchWorkers > 16 {
		errors = append(errors, fmt.Sprintf("invalid fetch workers %d: must be at most 16", c.FetchWorkers))
	}

	if c.AcronymsCSVPath != "" {
		if _, err := os.Stat(c.AcronymsCSVPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("acronyms reference file does not exist: %s", c.AcronymsCSVPath))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
