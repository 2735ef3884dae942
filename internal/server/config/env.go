package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the server reads, e.g.
// JOBBOARD_DATABASE_DSN.
const EnvPrefix = "JOBBOARD"

// parseEnv overlays JOBBOARD_* environment variables onto config. Keys match
// the JSON config keys; unset or empty variables are ignored.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	set := func(key string) bool {
		_ = v.BindEnv(key)
		return v.IsSet(key)
	}

	if set("endpoint_addr_http") {
		config.EndpointAddrHTTP = v.GetString("endpoint_addr_http")
	}
	if set("endpoint_addr_grpc") {
		config.EndpointAddrGRPC = v.GetString("endpoint_addr_grpc")
	}
	if set("database_dsn") {
		config.DatabaseDSN = v.GetString("database_dsn")
	}
	if set("secret_key") {
		config.SecretKey = v.GetString("secret_key")
	}
	if set("auth_cookie_name") {
		config.AuthCookieName = v.GetString("auth_cookie_name")
	}
	if set("token_validity_duration") {
		config.TokenValidityDuration = v.GetDuration("token_validity_duration")
	}
	if set("s3_root_user") {
		config.S3RootUser = v.GetString("s3_root_user")
	}
	if set("s3_root_password") {
		config.S3RootPassword = v.GetString("s3_root_password")
	}
	if set("s3_bucket") {
		config.S3Bucket = v.GetString("s3_bucket")
	}
	if set("s3_region") {
		config.S3Region = v.GetString("s3_region")
	}
	if set("s3_base_endpoint") {
		config.S3BaseEndpoint = v.GetString("s3_base_endpoint")
	}
	if set("s3_public_url") {
		config.S3PublicURL = v.GetString("s3_public_url")
	}
	if set("resume_max_bytes") {
		config.ResumeMaxBytes = v.GetInt64("resume_max_bytes")
	}
	if set("resume_staging_dir") {
		config.ResumeStagingDir = v.GetString("resume_staging_dir")
	}
	if set("upload_timeout") {
		config.UploadTimeout = v.GetDuration("upload_timeout")
	}
	if set("presign_ttl") {
		config.PresignTTL = v.GetDuration("presign_ttl")
	}
	if set("cors_allowed_origins") {
		config.CORSAllowedOrigins = splitList(v.GetString("cors_allowed_origins"))
	}
	if set("log_format") {
		config.LogFormat = v.GetString("log_format")
	}
	if set("auto_migrate") {
		config.AutoMigrate = v.GetBool("auto_migrate")
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
