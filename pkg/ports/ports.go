// Package ports defines the interfaces the converter depends on.
package ports

import (
	"context"
	"time"

	"github.com/aescanero/clustergram/pkg/clustergram"
)

// Network is a single-use clustergram network
type Network interface {
	// LoadString loads a delimited matrix with row and column labels
	LoadString(data string) error

	// MakeClust computes node ordering and dendrogram groups
	MakeClust(ctx context.Context, opts clustergram.Options) error

	// ExportNetJSON serializes the network as the named view
	ExportNetJSON(view, indent string) (string, error)
}

// NetworkFactory returns a fresh, empty network
type NetworkFactory func() Network

// Cache stores exported documents by key
type Cache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with a time-to-live
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// MetricsCollector records conversion metrics
type MetricsCollector interface {
	RecordConversion(source, status string, duration time.Duration)
	RecordMatrixSize(rows, cols int)
	RecordCacheLookup(hit bool)
	RecordPayloadBytes(direction string, size int)
}
