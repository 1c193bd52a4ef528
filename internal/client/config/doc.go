// Package config loads runtime configuration for the profilekeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the SQLite database file
//	-kv string  key-value backend: sqlite | redis
//	-r string   redis address (host:port)
//	-m string   credential backend: local | remote
//	-a string   address:port of the credential server
//	-t int      operation timeout (seconds)
//	-ui string  user interface: cli | tui
//	-l string   log level
//	-lf string  log file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5s" or integer nanoseconds. Keys that are absent keep their
// previous value:
//
//	{
//	  "database_path": "profilekeeper.db",
//	  "kv_backend": "sqlite",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_prefix": "profilekeeper:",
//	  "credential_backend": "local",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "operation_timeout": "5s",
//	  "ui": "cli",
//	  "log_level": "info",
//	  "log_file": ""
//	}
package config
