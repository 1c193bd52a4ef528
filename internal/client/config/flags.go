package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs so flags owned by other loaders (-c) do not
// break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-kv", "-r", "-m", "-a", "-t", "-ui", "-l", "-lf"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database file")
	fs.StringVar(&cfg.KVBackend, "kv", cfg.KVBackend, "key-value backend (sqlite|redis)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.CredentialBackend, "m", cfg.CredentialBackend, "credential backend (local|remote)")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.OperationTimeout.Seconds()), "operation timeout (in seconds)")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "user interface (cli|tui)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "lf", cfg.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OperationTimeout = time.Duration(*timeout) * time.Second
}
