// Package config provides configuration loading and validation for Eirserver.
//
// The package reads YAML, JSON, TOML and classic key=value files, environment
// variables, and CLI flags, then merges and validates them with
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (EIR_ prefix)
//  4. CLI flags
//
// # Classic Files
//
// Files ending in .conf, or with no extension, use the flat key=value format:
//
//	# comment
//	ip=127.0.0.1
//	port=8080
//	root_dir=/srv/www
//	cache_time=3600
//	verbosity=minimal
//	log_type=console
//	off_address=/shutdown
//
// Flat keys are mapped onto their structured equivalents (port becomes
// server.port, cache_time becomes cache.time, and so on).
//
// # Environment Variables
//
// All config keys map to environment variables with EIR_ prefix:
//   - server.port → EIR_SERVER_PORT
//   - cache.time → EIR_CACHE_TIME
//   - log.verbosity → EIR_LOG_VERBOSITY
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 0-65535 and ip a valid address
//   - root_dir must be an existing directory
//   - off_address must start with /
//   - Verbosity must be none, minimal, or verbose
//   - Log type must be console, file, or syslog; file requires log.file
package config
