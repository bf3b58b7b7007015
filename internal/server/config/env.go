package config

import (
	"os"
	"time"
)

// parseEnv overlays values from environment variables. cmd/server loads a
// local .env file (godotenv) before this runs, so both real environments and
// dotenv development setups end up here.
func parseEnv(config *Config) {
	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.DownloadTokenValidityDuration, "DOWNLOAD_TOKEN_VALIDITY")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.ChromePath, "CHROME_PATH")
	setDuration(&config.RenderTimeout, "RENDER_TIMEOUT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
