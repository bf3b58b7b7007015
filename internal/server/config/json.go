package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/flagx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/timex"
)

// JsonConfig is the DTO for reading JSON config files. Durations accept both
// string values such as "15m" and integer nanoseconds; after unmarshalling
// the fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP              string         `json:"endpoint_addr_http"`
	DatabaseDSN                   string         `json:"database_dsn"`
	SecretKey                     string         `json:"secret_key"`
	DownloadTokenValidityDuration timex.Duration `json:"download_token_validity_duration"`
	S3RootUser                    string         `json:"s3_root_user"`
	S3RootPassword                string         `json:"s3_root_password"`
	S3Bucket                      string         `json:"s3_bucket"`
	S3Region                      string         `json:"s3_region"`
	S3BaseEndpoint                string         `json:"s3_base_endpoint"`
	ChromePath                    string         `json:"chrome_path"`
	RenderTimeout                 timex.Duration `json:"render_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags. When neither flag is set, nothing is loaded. An unreadable
// or invalid file panics: a config file that was asked for but cannot be
// used is a startup error.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.DownloadTokenValidityDuration = time.Duration(c.DownloadTokenValidityDuration.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.ChromePath = c.ChromePath
	config.RenderTimeout = time.Duration(c.RenderTimeout.Duration)
}
