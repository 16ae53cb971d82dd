package pipeline

import "time"

// Default values for statement imports.
// Config overrides them through Options.
const (
	// DefaultBatchSize is the number of transactions sent per categorization call.
	DefaultBatchSize = 50

	// DefaultConcurrency caps simultaneous categorization calls.
	DefaultConcurrency = 3

	// DefaultProgressInterval is the minimum gap between progress reports.
	DefaultProgressInterval = 30 * time.Second

	// MaxUploadBytes is the largest statement accepted for parsing.
	MaxUploadBytes = 5 << 20

	// ForcedConfidence is reported for categories assigned by rule.
	ForcedConfidence = 1.0

	// FallbackConfidence is reported when categorization of a batch failed.
	FallbackConfidence = 0.0
)
