package embedding

import (
	"context"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/floats"
)

const (
	defaultDimensions = 384
	wordWeight        = 1.0
	trigramWeight     = 0.5
)

// Hashing embeds text locally by hashing words and character trigrams into a
// fixed number of signed buckets, then L2-normalizing. Phrases sharing words
// or spelling end up close together.
type Hashing struct {
	dims int
}

// NewHashing creates a Hashing provider; dims <= 0 selects the default.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &Hashing{dims: dims}
}

// Name implements Provider.
func (h *Hashing) Name() string { return "hashing" }

// Available implements Provider.
func (h *Hashing) Available() bool { return true }

// Dimensions returns the vector length.
func (h *Hashing) Dimensions() int { return h.dims }

// Encode implements Provider.
func (h *Hashing) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float64 {
	v := make([]float64, h.dims)
	text = strings.ToLower(strings.TrimSpace(text))
	for _, w := range strings.Fields(text) {
		h.add(v, "w:"+w, wordWeight)
	}
	padded := []rune(" " + text + " ")
	for i := 0; i+3 <= len(padded); i++ {
		h.add(v, "t:"+string(padded[i:i+3]), trigramWeight)
	}
	if n := floats.Norm(v, 2); n > 0 {
		floats.Scale(1/n, v)
	}
	return v
}

func (h *Hashing) add(v []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	idx := sum % uint64(h.dims)
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}
