package mediastore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
)

// Config holds object storage configuration for user media (avatar portraits,
// synthesized audio, rendered videos).
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN/public host for stored objects
	Enabled         bool
}

// LoadConfig loads media storage configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		Enabled:         env.GetEnv("MEDIA_STORE_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when media storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when media storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when media storage is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if media storage is enabled.
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// PublicURL returns the public URL for a stored object key.
func (c *Config) PublicURL(objectKey string) string {
	key := strings.TrimPrefix(objectKey, "/")
	if c.PublicBaseURL != "" {
		return strings.TrimSuffix(c.PublicBaseURL, "/") + "/" + key
	}
	if c.EndpointURL != "" {
		return strings.TrimSuffix(c.EndpointURL, "/") + "/" + c.BucketName + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, key)
}

// GetAppEnv returns the current application environment.
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
