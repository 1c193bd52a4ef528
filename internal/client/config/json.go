package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
	"github.com/dmitrijs2005/profilekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from "empty".
type JsonConfig struct {
	DatabasePath       *string         `json:"database_path"`
	KVBackend          *string         `json:"kv_backend"`
	RedisAddr          *string         `json:"redis_addr"`
	RedisPrefix        *string         `json:"redis_prefix"`
	CredentialBackend  *string         `json:"credential_backend"`
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	OperationTimeout   *timex.Duration `json:"operation_timeout"`
	UI                 *string         `json:"ui"`
	LogLevel           *string         `json:"log_level"`
	LogFile            *string         `json:"log_file"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.KVBackend, jc.KVBackend)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.CredentialBackend, jc.CredentialBackend)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.UI, jc.UI)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
	if jc.OperationTimeout != nil {
		cfg.OperationTimeout = time.Duration(jc.OperationTimeout.Duration)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
