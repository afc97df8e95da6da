package resolve

import "strconv"

// IDPolicy describes how variant item identifiers fold back onto their base
// item. Variants prefix a 4-digit base id with extra digits; the policy must
// track the metadata service's id ranges if that scheme changes.
type IDPolicy struct {
	// TriggerLen is the id length at which folding applies
	TriggerLen int `json:"triggerLen"`
	// BaseLen is how many trailing digits form the base id
	BaseLen int `json:"baseLen"`
	// FallbackLen is used instead when the base candidate exceeds Ceiling
	FallbackLen int `json:"fallbackLen"`
	// Ceiling is the highest valid base id
	Ceiling int `json:"ceiling"`
}

// DefaultIDPolicy returns the current variant folding rule
func DefaultIDPolicy() IDPolicy {
	return IDPolicy{
		TriggerLen:  6,
		BaseLen:     4,
		FallbackLen: 5,
		Ceiling:     7000,
	}
}

// Canonicalize folds a variant identifier onto its base identifier.
// Shorter identifiers are returned unchanged.
func (p IDPolicy) Canonicalize(id string) string {
	if len(id) < p.TriggerLen || p.BaseLen <= 0 || p.BaseLen > len(id) {
		return id
	}

	base := id[len(id)-p.BaseLen:]
	if n, err := strconv.Atoi(base); err == nil && n > p.Ceiling && p.FallbackLen <= len(id) {
		return id[len(id)-p.FallbackLen:]
	}
	return base
}
