package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envLogLevel              = "LOG_LEVEL"
	envMainAppURL            = "MAIN_APP_URL"
	envBrokerPortalURL       = "BROKER_PORTAL_URL"
	envHRPortalURL           = "HR_PORTAL_URL"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envPDFCacheTTL           = "PDF_CACHE_TTL"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envS3Bucket              = "S3_BUCKET"
	envProxyTimeout          = "PROXY_TIMEOUT"
	envDocumentProxyHost     = "DOCUMENT_PROXY_HOST"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultLogLevel           = "info"
	defaultMainAppURL         = "http://localhost:3000"
	defaultBrokerPortalURL    = "http://localhost:3001"
	defaultHRPortalURL        = "http://localhost:3002"
	defaultJWTExpiry          = 60 * time.Minute
	defaultPDFCacheTTL        = 10 * time.Minute
	defaultProxyTimeout       = 15 * time.Second
	minJWTSecretLength        = 32

	errJWTSecretRequiredFmt  = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt = "JWT_SECRET must be at least %d characters"
	errPortalURLFmt          = "%s is not an absolute URL: %q"
	errInvalidConfigFmt      = "invalid configuration: %w"
)

type Config struct {
	Server  ServerConfig
	Portals PortalConfig
	JWT     JWTConfig
	Cache   CacheConfig
	Redis   RedisConfig
	AWS     AWSConfig
	Proxy   ProxyConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// PortalConfig holds the deployed origin of each portal. Redirects issued by
// the portal gate always target one of these three base URLs.
type PortalConfig struct {
	MainAppURL      string
	BrokerPortalURL string
	HRPortalURL     string
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

// RedisConfig is optional; a non-empty Addr switches the PDF handoff cache to
// the shared Redis store for multi-instance deployments.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AWSConfig is optional; when Region and Bucket are set the document proxy
// accepts bare object keys and resolves them through presigned GETs.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type ProxyConfig struct {
	Timeout      time.Duration
	DocumentHost string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Portals: PortalConfig{
			MainAppURL:      getEnv(envMainAppURL, defaultMainAppURL),
			BrokerPortalURL: getEnv(envBrokerPortalURL, defaultBrokerPortalURL),
			HRPortalURL:     getEnv(envHRPortalURL, defaultHRPortalURL),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Cache: CacheConfig{
			TTL: getDurationEnv(envPDFCacheTTL, defaultPDFCacheTTL),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv(envRedisAddr),
			Password: os.Getenv(envRedisPassword),
			DB:       getIntEnv(envRedisDB, 0),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envS3Bucket),
		},
		Proxy: ProxyConfig{
			Timeout:      getDurationEnv(envProxyTimeout, defaultProxyTimeout),
			DocumentHost: os.Getenv(envDocumentProxyHost),
		},
		Log: LogConfig{
			Level: getEnv(envLogLevel, defaultLogLevel),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	portalURLs := map[string]string{
		envMainAppURL:      c.Portals.MainAppURL,
		envBrokerPortalURL: c.Portals.BrokerPortalURL,
		envHRPortalURL:     c.Portals.HRPortalURL,
	}
	for name, raw := range portalURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf(errPortalURLFmt, name, raw)
		}
	}

	return nil
}

// S3Enabled reports whether the optional S3 credentials are complete enough
// to build a client.
func (c *Config) S3Enabled() bool {
	return c.AWS.Region != "" && c.AWS.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
