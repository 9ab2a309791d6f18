package config

const (
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errPortRequiredFmt         = "PORT must be set"
	errPeerBaseURLRequiredFmt  = "PEER_BASE_URL must be set"
	errServerKeyRequiredFmt    = "%s must be set"
	errServerKeyMinLengthFmt   = "%s must be at least %d characters"
	errServerKeyLowEntropyFmt  = "%s has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errUnknownOriginBackendFmt = "unknown origin backend %q"
	errRegionRequiredFmt       = "REGION must be set for the s3 origin backend"
	errAWSAccessKeyRequiredFmt = "AWS_ACCESS_KEY_ID must be set for the s3 origin backend"
	errAWSSecretKeyRequiredFmt = "AWS_SECRET_ACCESS_KEY must be set for the s3 origin backend"
	errBucketRequiredFmt       = "CONTENT_BUCKET must be set for the s3 origin backend"
)
