package config

import "time"

// Config holds runtime settings for the profilekeeper client.
//
// Fields:
//   - DatabasePath: SQLite file backing the key-value store and the local users table.
//   - KVBackend: "sqlite" or "redis".
//   - RedisAddr, RedisPrefix: Redis connection and key namespace (redis backend only).
//   - CredentialBackend: "local" (users table next to the KV store) or "remote" (gRPC).
//   - ServerEndpointAddr: host:port of the credential server (remote backend only).
//   - OperationTimeout: upper bound for every store call made by the session manager.
//   - UI: "cli" (line REPL) or "tui" (full-screen).
//   - LogLevel, LogFile: client logging; an empty LogFile sends logs to stderr.
type Config struct {
	DatabasePath       string
	KVBackend          string
	RedisAddr          string
	RedisPrefix        string
	CredentialBackend  string
	ServerEndpointAddr string
	OperationTimeout   time.Duration
	UI                 string
	LogLevel           string
	LogFile            string
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	CredentialsLocal  = "local"
	CredentialsRemote = "remote"

	UICLI = "cli"
	UITUI = "tui"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "profilekeeper.db"
	c.KVBackend = BackendSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "profilekeeper:"
	c.CredentialBackend = CredentialsLocal
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OperationTimeout = 5 * time.Second
	c.UI = UICLI
	c.LogLevel = "info"
	c.LogFile = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
