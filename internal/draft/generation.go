package draft

import "strings"

// PromptVariant selects which system prompt the model receives
type PromptVariant int

const (
	// PromptLong is the full, strictly formatted grounded prompt
	PromptLong PromptVariant = iota
	// PromptShort is the condensed fallback used after the model refuses
	PromptShort
)

func (v PromptVariant) String() string {
	if v == PromptShort {
		return "short"
	}
	return "long"
}

// NeedRetry is the sentinel the model emits when it cannot confirm current data
const NeedRetry = "NEED_RETRY"

// Generation is the raw output of one model call
type Generation struct {
	Text          string
	PatchDetected string
}

// IsNeedRetry reports whether the model declined to answer
func (g Generation) IsNeedRetry() bool {
	return strings.TrimSpace(g.Text) == NeedRetry
}
