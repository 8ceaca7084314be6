package lastfm

// Config holds configuration for the scrobble source.
type Config struct {
	// Username is the account whose top albums are fetched.
	Username string `mapstructure:"username" default:""`
	// APIKey is the Last.fm API key.
	APIKey string `mapstructure:"api_key" default:""`
	// PlaysThreshold stops fetching after the page containing an album below it.
	PlaysThreshold int `mapstructure:"plays_threshold" default:"100"`
	// PageSize is the number of albums requested per page.
	PageSize int `mapstructure:"page_size" default:"50"`
	// RequestsPerSecond limits API calls. Zero or less disables the limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://ws.audioscrobbler.com/2.0"`
	// TimeoutSeconds is the HTTP timeout per request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
