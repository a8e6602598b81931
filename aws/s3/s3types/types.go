// Package s3types provides shared type definitions for the S3 module.
package s3types

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// StorageClass represents the S3 storage class for objects.
type StorageClass string

// Predefined S3 storage classes
const (
	// StorageClassStandard is the default S3 storage class
	StorageClassStandard StorageClass = "STANDARD"

	// StorageClassStandardIA provides infrequent access storage
	StorageClassStandardIA StorageClass = "STANDARD_IA"

	// StorageClassIntelligentTiering provides intelligent tiering storage
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"

	// StorageClassGlacierIR provides Glacier Instant Retrieval storage
	StorageClassGlacierIR StorageClass = "GLACIER_IR"
)

// SSEType represents the server-side encryption type for objects.
type SSEType string

// Predefined server-side encryption types
const (
	// SSES3 uses S3-managed encryption keys
	SSES3 SSEType = "AES256"

	// SSEKMS uses AWS KMS-managed encryption keys
	SSEKMS SSEType = "aws:kms"
)

// SSEConfig holds server-side encryption settings for copy destinations.
type SSEConfig struct {
	// Type is the encryption type (S3 or KMS)
	Type SSEType

	// KMSKeyID is the KMS key ID (only for SSE-KMS)
	KMSKeyID string
}

// ClientConfig holds configuration for the S3 client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	MaxRetries      int
	Timeout         time.Duration
	Concurrency     int
	PartSize        int64
	ForcePathStyle  bool
	CustomAWSConfig *aws.Config
}

// CopyOptionConfig holds configuration for copy operations via functional options.
type CopyOptionConfig struct {
	Metadata        map[string]string
	ReplaceMetadata bool
	StorageClass    StorageClass
	SSE             *SSEConfig
	PartSize        int64
	Concurrency     int
}

type (
	// Option is a functional option for configuring the S3 client.
	Option func(*ClientConfig)
	// CopyOption is a functional option for configuring S3 copy operations.
	CopyOption func(*CopyOptionConfig)
)
