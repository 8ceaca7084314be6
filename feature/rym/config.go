package rym

// Config holds configuration for the catalog export source.
type Config struct {
	// File is the path of the catalog CSV export.
	File string `mapstructure:"file" default:"user_albums_export.txt"`
}
