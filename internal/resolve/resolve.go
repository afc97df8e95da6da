// Package resolve maps free-text names from model output onto metadata
// identifiers.
package resolve

import (
	"strings"
	"unicode"
)

// Directory maps normalized names to identifiers. It is built once per
// metadata version and never mutated by the resolver.
type Directory map[string]string

// Policy holds the tunable thresholds of fuzzy resolution
type Policy struct {
	// MinQueryLen rejects normalized queries shorter than this
	MinQueryLen int `json:"minQueryLen"`
	// Threshold is the score a substring match must exceed
	Threshold float64 `json:"threshold"`
	// ContainPenalty scales the score when the query contains the key
	ContainPenalty float64 `json:"containPenalty"`
	// MinKeyLen is the shortest key that may match inside a longer query
	MinKeyLen int `json:"minKeyLen"`
}

// DefaultPolicy returns the empirically tuned thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinQueryLen:    2,
		Threshold:      0.4,
		ContainPenalty: 0.8,
		MinKeyLen:      4,
	}
}

// Match is a successful resolution
type Match struct {
	Key   string
	ID    string
	Score float64
	Exact bool
}

// Resolver resolves names against a Directory
type Resolver struct {
	dir    Directory
	policy Policy
}

// New creates a Resolver
func New(dir Directory, policy Policy) *Resolver {
	return &Resolver{dir: dir, policy: policy}
}

// Resolve returns the identifier for text, or false when nothing matches well enough
func (r *Resolver) Resolve(text string) (string, bool) {
	m, ok := r.Lookup(text)
	return m.ID, ok
}

// Lookup resolves text and reports how it matched. Exact and singular
// matches win outright; otherwise the best scored substring match is
// accepted only above the policy threshold.
func (r *Resolver) Lookup(text string) (Match, bool) {
	q := Normalize(text)
	if len(q) < r.policy.MinQueryLen {
		return Match{}, false
	}

	if id, ok := r.dir[q]; ok {
		return Match{Key: q, ID: id, Score: 1, Exact: true}, true
	}

	if singular, found := strings.CutSuffix(q, "s"); found {
		if id, ok := r.dir[singular]; ok {
			return Match{Key: singular, ID: id, Score: 1, Exact: true}, true
		}
	}

	var best Match
	for key, id := range r.dir {
		score := r.score(q, key)
		if score > best.Score || (score == best.Score && score > 0 && key < best.Key) {
			best = Match{Key: key, ID: id, Score: score}
		}
	}
	if best.Score > r.policy.Threshold {
		return best, true
	}
	return Match{}, false
}

// score rates how well key matches query q
func (r *Resolver) score(q, key string) float64 {
	if key == "" {
		return 0
	}
	if strings.Contains(key, q) {
		return float64(len(q)) / float64(len(key))
	}
	if len(key) >= r.policy.MinKeyLen && strings.Contains(q, key) {
		return float64(len(key)) / float64(len(q)) * r.policy.ContainPenalty
	}
	return 0
}

// Normalize lowercases, unifies apostrophes, collapses whitespace and trims
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '‘', '’', 'ʼ', '`':
			return '\''
		}
		return r
	}, s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
