package gemini

import (
	"fmt"
	"strings"

	"draftcoach/internal/draft"
)

const longPromptTemplate = `You are a League of Legends Draft & Itemization Engine. You MUST use Google Search grounding to verify current live patch data (Patch %[1]s). If you cannot confirm current patch-relevant details via grounding, output exactly: NEED_RETRY.

Return ONLY these sections in this exact format:

RUNES
Primary: <TreeName>
Keystone: <RuneName>
<Rune1>
<Rune2>
<Rune3>
Secondary: <TreeName>
<Rune1>
<Rune2>
Shards: <Shard1>, <Shard2>, <Shard3>

SUMMONERS
<Spell1>
<Spell2>

SKILL ORDER
<Key> > <Key> > <Key> > <Key>

STARTING ITEMS
<Item1>
<Item2>

CORE BUILD
1. <Item1> (<why this item>)
2. <Item2> (<why this item>)
3. <Item3> (<why this item>)
4. <Item4> (<why this item>)
5. <Item5> (<why this item>)
6. <Item6> (<why this item>)

SITUATIONAL ITEMS
<ItemName>: <when to buy and why>
<ItemName>: <when to buy and why>
<ItemName>: <when to buy and why>
<ItemName>: <when to buy and why>

Rules:
- CORE BUILD must ALWAYS have exactly 6 items (7 items if the role is Bottom/ADC, since bottom laners have 7 item slots).
- SITUATIONAL ITEMS must ALWAYS have at least 4 items with clear conditions (e.g. "vs heavy AP", "if behind", "vs tanks").
- Boots count as a core item. Include them in CORE BUILD.
- Never suggest removed items or removed runes.
- If unsure, output NEED_RETRY.
- Adapt to enemy comp.
- For jungle, include jungle companion start.
- Keep names exactly as in-game.
- Do NOT add explanations or extra text outside the sections.`

const shortPrompt = `You are a League of Legends build advisor. Return ONLY: RUNES, SUMMONERS, SKILL ORDER, STARTING ITEMS, CORE BUILD, SITUATIONAL ITEMS. Keep names exactly as in-game. Adapt to enemy comp. CORE BUILD must have exactly 6 items (7 for Bottom/ADC role). SITUATIONAL ITEMS must have at least 4 items with conditions. Boots count as a core item.`

// SystemPrompt returns the system instruction for a variant
func SystemPrompt(variant draft.PromptVariant, patch string) string {
	if variant == draft.PromptShort {
		return shortPrompt
	}
	return fmt.Sprintf(longPromptTemplate, patch)
}

// UserMessage renders the per-request message sent alongside the system prompt
func UserMessage(req draft.Request, patch string) string {
	slots := req.Role.ItemSlots()
	return fmt.Sprintf(
		"Champion: %s, Role: %s, Allies: %s, Enemies: %s, Patch: %s. This role has %d item slots, CORE BUILD must list exactly %d items. Generate optimized build. Output only the sections.",
		req.ChampionID, req.Role, rosterText(req.Allies), rosterText(req.Enemies), patch, slots, slots,
	)
}

func rosterText(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
