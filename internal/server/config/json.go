package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/thriftedhq/thrifted/internal/flagx"
	"github.com/thriftedhq/thrifted/internal/timex"
)

// JsonConfig is the DTO used when reading a JSON configuration file. It uses
// timex.Duration for interval fields, which allows parsing both string
// values such as "15m" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr      string         `json:"endpoint_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	RedisURL          string         `json:"redis_url"`
	PublicBaseURL     string         `json:"public_base_url"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	LoginRateAttempts int            `json:"login_rate_attempts"`
	LoginRateWindow   timex.Duration `json:"login_rate_window"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3PublicBaseURL   string         `json:"s3_public_base_url"`
	SMTPHost          string         `json:"smtp_host"`
	SMTPPort          int            `json:"smtp_port"`
	SMTPUsername      string         `json:"smtp_username"`
	SMTPPassword      string         `json:"smtp_password"`
	MailFrom          string         `json:"mail_from"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
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
	config.RedisURL = c.RedisURL
	config.PublicBaseURL = c.PublicBaseURL
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.LoginRateAttempts = c.LoginRateAttempts
	config.LoginRateWindow = time.Duration(c.LoginRateWindow.Duration)
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3PublicBaseURL = c.S3PublicBaseURL
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUsername = c.SMTPUsername
	config.SMTPPassword = c.SMTPPassword
	config.MailFrom = c.MailFrom
}
