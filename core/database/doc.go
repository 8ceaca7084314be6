// Package database handles database connections for run history.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that opens
// either an embedded SQLite file (the default) or a MySQL server based on the
// application's configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("failed to connect to database: %w", err)
//	}
package database
