package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envEnvironment           = "APP_ENV"
	envPeerBaseURL           = "PEER_BASE_URL"
	envRawContentBase        = "RAW_CONTENT_BASE"
	envContentRepo           = "CONTENT_REPO"
	envOriginBackend         = "ORIGIN_BACKEND"
	envOriginFetchTimeout    = "ORIGIN_FETCH_TIMEOUT"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envAWSBucket             = "CONTENT_BUCKET"
	envServerIdentityKey     = "SERVER_TO_SERVER_KEY"
	envServerChainKey1       = "SERVER_TO_SERVER_KEY_1"
	envServerChainKey2       = "SERVER_TO_SERVER_KEY_2"
)

const (
	defaultServerPort         = "3001"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultEnvironment        = "development"
	defaultRawContentBase     = "https://github.com"
	defaultContentRepo        = "Memories"
	defaultOriginBackend      = OriginBackendHTTP
	defaultOriginFetchTimeout = 20 * time.Second
	minSecretLength           = 16
	minUniqueCharsInSecret    = 8
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2
)

const (
	OriginBackendHTTP = "http"
	OriginBackendS3   = "s3"

	EnvironmentProduction = "production"
)

type Config struct {
	Server      ServerConfig
	Peer        PeerConfig
	Origin      OriginConfig
	AWS         AWSConfig
	Environment string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// PeerConfig describes the trusted peer this service bootstraps its
// runtime configuration from.
type PeerConfig struct {
	BaseURL string
}

type OriginConfig struct {
	Backend        string
	RawContentBase string
	ContentRepo    string
	FetchTimeout   time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Peer: PeerConfig{
			BaseURL: os.Getenv(envPeerBaseURL),
		},
		Origin: OriginConfig{
			Backend:        getEnv(envOriginBackend, defaultOriginBackend),
			RawContentBase: getEnv(envRawContentBase, defaultRawContentBase),
			ContentRepo:    getEnv(envContentRepo, defaultContentRepo),
			FetchTimeout:   getDurationEnv(envOriginFetchTimeout, defaultOriginFetchTimeout),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envAWSBucket),
		},
		Environment: getEnv(envEnvironment, defaultEnvironment),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Peer.BaseURL == "" {
		return fmt.Errorf(errPeerBaseURLRequiredFmt)
	}

	for _, key := range []string{envServerIdentityKey, envServerChainKey1, envServerChainKey2} {
		material := os.Getenv(key)
		if material == "" {
			return fmt.Errorf(errServerKeyRequiredFmt, key)
		}
		if len(material) < minSecretLength {
			return fmt.Errorf(errServerKeyMinLengthFmt, key, minSecretLength)
		}
		if !hasMinimumEntropy(material) {
			return fmt.Errorf(errServerKeyLowEntropyFmt, key)
		}
	}

	if c.Origin.Backend != OriginBackendHTTP && c.Origin.Backend != OriginBackendS3 {
		return fmt.Errorf(errUnknownOriginBackendFmt, c.Origin.Backend)
	}

	if c.Origin.Backend == OriginBackendS3 {
		if c.AWS.Region == "" {
			return fmt.Errorf(errRegionRequiredFmt)
		}
		if c.AWS.AccessKeyID == "" {
			return fmt.Errorf(errAWSAccessKeyRequiredFmt)
		}
		if c.AWS.SecretAccessKey == "" {
			return fmt.Errorf(errAWSSecretKeyRequiredFmt)
		}
		if c.AWS.Bucket == "" {
			return fmt.Errorf(errBucketRequiredFmt)
		}
	}

	return nil
}

func (c *Config) Production() bool {
	return c.Environment == EnvironmentProduction
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
