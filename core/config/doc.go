// Package config provides configuration management for ceiba.
//
// It utilizes Viper for loading configuration from environment variables and
// a .env file, with defaults taken from struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Warehouse: MySQL warehouse connection details
//   - Storage: S3/MinIO credentials and bucket for spec snapshots
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
