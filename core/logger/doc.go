// Package logger provides a structured logging facility based on Zap.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error (debug selects the development preset)
//   - Format: console (colored) or json
//   - File: optional JSON copy of every entry, rotated by lumberjack
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Run completed", zap.Int("updates", n))
package logger
