// Package clustering groups embedded phrases with k-means.
package clustering

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/okian/skillpulse/internal/domain/model"
)

const (
	minClusters = 2

	defaultMaxClusters = 10
	defaultSeed        = 42
	defaultInit        = 10
	defaultMaxIter     = 300
	defaultTolerance   = 1e-4
)

// Clusterer runs seeded k-means. It is stateless between calls and safe for
// concurrent use.
type Clusterer struct {
	seed    int64
	nInit   int
	maxIter int
	tol     float64
	maxK    int
}

// New creates a Clusterer.
func New(opts ...Option) *Clusterer {
	c := &Clusterer{
		seed:    defaultSeed,
		nInit:   defaultInit,
		maxIter: defaultMaxIter,
		tol:     defaultTolerance,
		maxK:    defaultMaxClusters,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cluster uses a Clusterer with default settings.
func Cluster(ctx context.Context, phrases []string, vectors [][]float64, minSize int) ([]model.PhraseCluster, error) {
	return New().Cluster(ctx, phrases, vectors, minSize)
}

// K returns the number of clusters used for n phrases.
func (c *Clusterer) K(n, minSize int) int {
	k := n / minSize
	if k > c.maxK {
		k = c.maxK
	}
	if k < minClusters {
		k = minClusters
	}
	if k > n {
		k = n
	}
	return k
}

// Cluster partitions phrases by their vectors and returns clusters with at
// least minSize members, in the order their first member appears in phrases.
func (c *Clusterer) Cluster(ctx context.Context, phrases []string, vectors [][]float64, minSize int) ([]model.PhraseCluster, error) {
	if minSize < 1 {
		return nil, fmt.Errorf("min size %d: %w", minSize, ErrInvalidMinSize)
	}
	if len(vectors) != len(phrases) {
		return nil, fmt.Errorf("%d vectors for %d phrases: %w", len(vectors), len(phrases), ErrDimensionMismatch)
	}
	if len(phrases) < minSize || len(phrases) == 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim || dim == 0 {
			return nil, fmt.Errorf("vector %d has %d dims, want %d: %w", i, len(v), dim, ErrDimensionMismatch)
		}
	}

	k := c.K(len(phrases), minSize)
	tol := absTolerance(vectors, c.tol)
	rng := rand.New(rand.NewSource(c.seed)) //nolint:gosec // deterministic seed for reproducible clustering

	var best run
	for i := 0; i < c.nInit; i++ {
		centers := seedPlusPlus(vectors, k, rng)
		r, err := lloyd(ctx, vectors, centers, c.maxIter, tol)
		if err != nil {
			return nil, fmt.Errorf("k-means run %d: %w", i, err)
		}
		if best.labels == nil || r.inertia < best.inertia {
			best = r
		}
	}
	return group(phrases, best.labels, minSize), nil
}

func group(phrases []string, labels []int, minSize int) []model.PhraseCluster {
	index := make(map[int]int)
	var all []model.PhraseCluster
	for i, label := range labels {
		pos, ok := index[label]
		if !ok {
			pos = len(all)
			index[label] = pos
			all = append(all, model.PhraseCluster{ID: pos})
		}
		all[pos].Members = append(all[pos].Members, phrases[i])
	}

	out := all[:0]
	for _, cl := range all {
		if len(cl.Members) >= minSize {
			out = append(out, cl)
		}
	}
	return out
}
