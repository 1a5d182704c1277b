// Package generator decides the presentation order of a round.
package generator

import (
	"math/rand"
	"sort"
	"time"
)

// Generator orders round terms, optionally shuffling them.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Order returns a copy of terms sorted ascending, shuffled when shuffle is set.
func (g *Generator) Order(terms []string, shuffle bool) []string {
	out := make([]string, len(terms))
	copy(out, terms)
	sort.Strings(out)
	if !shuffle || g == nil || len(out) < 2 {
		return out
	}
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
