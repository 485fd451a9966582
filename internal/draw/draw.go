// Package draw picks lottery numbers.
package draw

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"sort"
)

const (
	DefaultCount = 6
	DefaultMax   = 45
)

var ErrInvalidRange = errors.New("draw: count must be between 1 and max")

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

type Generator struct {
	src Source
}

func New(src Source) *Generator {
	return &Generator{src: src}
}

// NewSeeded returns a reproducible generator.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// NewCrypto returns a generator backed by crypto/rand.
func NewCrypto() *Generator {
	return New(cryptoSource{})
}

// Draw returns count distinct numbers from [1, max], sorted ascending.
// Numbers are sampled with replacement and duplicates rejected until the set
// is full.
func (g *Generator) Draw(count, max int) ([]int, error) {
	if count <= 0 || max <= 0 || count > max {
		return nil, fmt.Errorf("%w (count=%d, max=%d)", ErrInvalidRange, count, max)
	}

	seen := make(map[int]struct{}, count)
	numbers := make([]int, 0, count)
	for len(numbers) < count {
		n := g.src.Intn(max) + 1
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

// Lotto is a 6-of-45 draw.
func (g *Generator) Lotto() []int {
	numbers, _ := g.Draw(DefaultCount, DefaultMax)
	return numbers
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// the system entropy source is gone; nothing sensible left to do
		panic(fmt.Sprintf("draw: crypto source: %v", err))
	}
	return int(v.Int64())
}
