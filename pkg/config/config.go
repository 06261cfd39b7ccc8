package config

import "os"

type Config struct {
	Port               string
	Env                string
	PostgresConnStr    string
	GCSBucket          string
	GCSCredentialsPath string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		PostgresConnStr:    getEnv("POSTGRES_CONN_STR", ""),
		GCSBucket:          getEnv("GCS_BUCKET", "voices"),
		GCSCredentialsPath: getEnv("GCS_CREDENTIALS_PATH", "./gcs_credentials.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
