package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/todovault/todovault/internal/flagx"
	"github.com/todovault/todovault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	FilesDir                    string         `json:"files_dir"`
	UploadsDir                  string         `json:"uploads_dir"`
	ConvertCommand              string         `json:"convert_command"`
	ConvertTimeout              timex.Duration `json:"convert_timeout"`
	MaxTaskTextLength           int            `json:"max_task_text_length"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.FilesDir = c.FilesDir
	config.UploadsDir = c.UploadsDir
	config.ConvertCommand = c.ConvertCommand
	config.ConvertTimeout = time.Duration(c.ConvertTimeout.Duration)
	config.MaxTaskTextLength = c.MaxTaskTextLength
}
