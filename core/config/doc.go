// Package config loads the patrician configuration.
//
// Values come from struct tag defaults, an optional patrician.yaml in the
// given directory, a .env file and the environment. Environment variables
// use the nested key with dots replaced by underscores:
//
//	COLLECTION_FILE=~/music/albums.csv
//	SOURCES_ENABLED=lastfm
//	SOURCES_LASTFM_USERNAME=someone
//	SOURCES_LASTFM_API_KEY=...
//	STORAGE_ENABLED=true
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Collection.File)
package config
