package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var items = Directory{
	"infinity edge":          "3031",
	"boots of speed":         "1001",
	"berserker's greaves":    "3006",
	"doran's blade":          "1055",
	"health potion":          "2003",
	"guardian angel":         "3026",
	"mercurial scimitar":     "3139",
	"lord dominik's regards": "3036",
}

// TestResolve tests the resolution order and thresholds
func TestResolve(t *testing.T) {
	r := New(items, DefaultPolicy())

	tests := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{"exact", "infinity edge", "3031", true},
		{"case and spacing", "  Infinity   EDGE ", "3031", true},
		{"curly apostrophe", "Berserker’s Greaves", "3006", true},
		{"plural", "Health Potions", "2003", true},
		{"below threshold", "Boots", "", false},
		{"key contains query", "guardian", "3026", true},
		{"query contains key", "mercurial scimitar vs cc", "3139", true},
		{"too short", "a", "", false},
		{"unrelated", "rabadon's deathcap", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.query)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLookup_Score tests the reported substring score
func TestLookup_Score(t *testing.T) {
	r := New(Directory{"boots of speed": "1001"}, DefaultPolicy())
	_, ok := r.Lookup("Boots")
	assert.False(t, ok)

	loose := DefaultPolicy()
	loose.Threshold = 0.3
	m, ok := New(Directory{"boots of speed": "1001"}, loose).Lookup("Boots")
	assert.True(t, ok)
	assert.InDelta(t, 5.0/14.0, m.Score, 1e-9)
	assert.False(t, m.Exact)
}

// TestLookup_ShortKeyInQuery tests that keys under the minimum length never match inside a query
func TestLookup_ShortKeyInQuery(t *testing.T) {
	r := New(Directory{"ga": "3026"}, DefaultPolicy())
	_, ok := r.Resolve("ga late game")
	assert.False(t, ok)
}

// TestNormalize tests name normalization
func TestNormalize(t *testing.T) {
	assert.Equal(t, "doran's blade", Normalize("Doran‘s\tBlade "))
	assert.Equal(t, "", Normalize("   "))
}

// TestCanonicalize tests variant id folding
func TestCanonicalize(t *testing.T) {
	p := DefaultIDPolicy()
	tests := []struct {
		id   string
		want string
	}{
		{"223031", "3031"},
		{"3031", "3031"},
		{"1001", "1001"},
		{"228005", "28005"},
		{"12345", "12345"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Canonicalize(tt.id), tt.id)
	}
}

// TestCanonicalize_CustomPolicy tests that thresholds come from the policy
func TestCanonicalize_CustomPolicy(t *testing.T) {
	p := IDPolicy{TriggerLen: 5, BaseLen: 4, FallbackLen: 5, Ceiling: 9999}
	assert.Equal(t, "3031", p.Canonicalize("23031"))
}
