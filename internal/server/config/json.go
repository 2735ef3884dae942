package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations use timex.Duration so
// both "15s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	AuthCookieName        string         `json:"auth_cookie_name"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	S3PublicURL           string         `json:"s3_public_url"`
	ResumeMaxBytes        int64          `json:"resume_max_bytes"`
	ResumeStagingDir      string         `json:"resume_staging_dir"`
	UploadTimeout         timex.Duration `json:"upload_timeout"`
	PresignTTL            timex.Duration `json:"presign_ttl"`
	CORSAllowedOrigins    []string       `json:"cors_allowed_origins"`
	LogFormat             string         `json:"log_format"`
	AutoMigrate           bool           `json:"auto_migrate"`
}

// parseJson overlays the JSON file named by -c or -config onto config. Keys
// missing from the file keep their current value. No flag means no file is
// loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AuthCookieName = c.AuthCookieName
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3PublicURL = c.S3PublicURL
	config.ResumeMaxBytes = c.ResumeMaxBytes
	config.ResumeStagingDir = c.ResumeStagingDir
	config.UploadTimeout = c.UploadTimeout.Duration
	config.PresignTTL = c.PresignTTL.Duration
	config.CORSAllowedOrigins = c.CORSAllowedOrigins
	config.LogFormat = c.LogFormat
	config.AutoMigrate = c.AutoMigrate
}

func toJson(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:      config.EndpointAddrHTTP,
		EndpointAddrGRPC:      config.EndpointAddrGRPC,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		AuthCookieName:        config.AuthCookieName,
		TokenValidityDuration: timex.Duration{Duration: config.TokenValidityDuration},
		S3RootUser:            config.S3RootUser,
		S3RootPassword:        config.S3RootPassword,
		S3Bucket:              config.S3Bucket,
		S3Region:              config.S3Region,
		S3BaseEndpoint:        config.S3BaseEndpoint,
		S3PublicURL:           config.S3PublicURL,
		ResumeMaxBytes:        config.ResumeMaxBytes,
		ResumeStagingDir:      config.ResumeStagingDir,
		UploadTimeout:         timex.Duration{Duration: config.UploadTimeout},
		PresignTTL:            timex.Duration{Duration: config.PresignTTL},
		CORSAllowedOrigins:    config.CORSAllowedOrigins,
		LogFormat:             config.LogFormat,
		AutoMigrate:           config.AutoMigrate,
	}
}
