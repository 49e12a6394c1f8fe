package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"strings-toolkit/internal/document"
	"strings-toolkit/internal/escape"
)

type Config struct {
	Newlines           int
	DropDuplicates     bool
	UntranslatedMarker string
	DefaultLocale      string
	HeaderPatterns     []string
	DatabaseURL        string
	Neo4jURI           string
	Neo4jUser          string
	Neo4jPassword      string
	WorkerCount        int
	PublishBatchSize   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Newlines:           getEnvInt("STRINGS_NEWLINES", document.DefaultNewlines),
		DropDuplicates:     getEnvBool("STRINGS_DROP_DUPLICATES", false),
		UntranslatedMarker: getEnv("STRINGS_UNTRANSLATED_MARKER", escape.DefaultUntranslatedMarker),
		DefaultLocale:      getEnv("STRINGS_DEFAULT_LOCALE", "en"),
		HeaderPatterns:     getEnvList("STRINGS_HEADER_PATTERNS", ";;"),
		DatabaseURL:        getEnv("DATABASE_URL", "postgres://localhost:5432/strings_toolkit?sslmode=disable"),
		Neo4jURI:           getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:          getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", "password"),
		WorkerCount:        getEnvInt("WORKER_COUNT", 8),
		PublishBatchSize:   getEnvInt("PUBLISH_BATCH_SIZE", 500),
	}
}

// DocumentOptions converts the configuration for the document parser.
func (c *Config) DocumentOptions() (document.Options, error) {
	opts := document.DefaultOptions()
	opts.NewEntryNewlines = c.Newlines
	opts.DropDuplicates = c.DropDuplicates
	if len(c.HeaderPatterns) > 0 {
		patterns, err := document.CompileHeaderPatterns(c.HeaderPatterns)
		if err != nil {
			return document.Options{}, fmt.Errorf("compile header patterns: %w", err)
		}
		opts.HeaderPatterns = patterns
	}
	return opts, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvList(key, sep string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
