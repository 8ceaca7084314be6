package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"patrician/core/database"
	"patrician/core/logger"
	"patrician/core/storage"
	"patrician/feature/lastfm"
	"patrician/feature/rym"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Collection locates the local collection and the audit dump.
	Collection CollectionConfig `mapstructure:"collection"`
	// Sources holds the enabled source adapters and their settings.
	Sources SourcesConfig `mapstructure:"sources"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the run archive.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the run history.
	Database database.Config `mapstructure:"database"`
}

// CollectionConfig locates the collection file and the audit dump.
type CollectionConfig struct {
	// File is the collection CSV read at the start of a run.
	File string `mapstructure:"file" default:"albums.csv"`
	// OutputFile receives the merged collection. Empty rewrites File.
	OutputFile string `mapstructure:"output_file" default:""`
	// AuditFile receives the proposed changes of every run.
	AuditFile string `mapstructure:"audit_file" default:"item-updates.json"`
	// AuditFormat is json or yaml.
	AuditFormat string `mapstructure:"audit_format" default:"json"`
}

// Target returns the path the merged collection is written to.
func (c CollectionConfig) Target() string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	return c.File
}

// SourcesConfig lists the source adapters run by default.
type SourcesConfig struct {
	// Enabled are the adapters run, in order, when none is named.
	Enabled []string `mapstructure:"enabled" default:"rym,lastfm"`
	// RYM configures the catalog export source.
	RYM rym.Config `mapstructure:"rym"`
	// LastFM configures the scrobble source.
	LastFM lastfm.Config `mapstructure:"lastfm"`
}

// LoadConfig loads configuration from path/.env, an optional
// path/patrician.yaml and the environment, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetConfigName("patrician")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// SOURCES_LASTFM_API_KEY -> sources.lastfm.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues registers every tagged field with its default so that
// AutomaticEnv can resolve nested keys.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Registered even when empty
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
