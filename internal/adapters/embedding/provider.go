// Package embedding turns phrases into dense vectors for clustering.
package embedding

import "context"

// Provider encodes texts into vectors of equal length, one per input, in order.
type Provider interface {
	Name() string
	// Available reports whether Encode can be called at all.
	Available() bool
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Unavailable is the provider used when embedding is disabled.
type Unavailable struct{}

// Name implements Provider.
func (Unavailable) Name() string { return "none" }

// Available implements Provider.
func (Unavailable) Available() bool { return false }

// Encode implements Provider.
func (Unavailable) Encode(context.Context, []string) ([][]float64, error) {
	return nil, ErrUnavailable
}
