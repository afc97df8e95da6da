package sections

import (
	"regexp"
	"strings"
)

const (
	// conditionColonMin and conditionColonMax bound where a colon separates
	// an item name from its buy condition in situational lines
	conditionColonMin = 3
	conditionColonMax = 44

	// minItemText is the shortest text worth resolving as an item name
	minItemText = 3
)

var listNumber = regexp.MustCompile(`^(\d+)\.\s*`)

// ItemLine is one parsed item-bearing line
type ItemLine struct {
	Number    string `json:"number,omitempty"`
	Name      string `json:"name"`
	Reason    string `json:"reason,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// ParseItemLine splits a line from an item section into its list number,
// item name, trailing parenthesized reason and, for situational lines, the
// condition after the name. ok is false when no usable name remains.
func ParseItemLine(line string, situational bool) (ItemLine, bool) {
	text := CleanLine(line)

	var item ItemLine
	if m := listNumber.FindStringSubmatch(text); m != nil {
		item.Number = m[1]
		text = text[len(m[0]):]
	}

	if situational {
		if idx := strings.IndexByte(text, ':'); idx >= conditionColonMin && idx <= conditionColonMax {
			item.Condition = strings.TrimSpace(text[idx+1:])
			text = text[:idx]
		}
	}

	text, item.Reason = splitTrailingParen(text)
	item.Name = strings.TrimSpace(text)
	if len(item.Name) < minItemText {
		return ItemLine{}, false
	}
	return item, true
}

// ParseItems parses every usable line of an item section
func ParseItems(sec Section) []ItemLine {
	situational := sec.Title == SituationalItems
	var out []ItemLine
	for _, line := range sec.Lines() {
		if item, ok := ParseItemLine(line, situational); ok {
			out = append(out, item)
		}
	}
	return out
}

// splitTrailingParen removes a trailing parenthesized aside. A closing
// paren at the end cuts at its matching opener; otherwise an unclosed
// opener cuts from the last one to the end of the line.
func splitTrailingParen(text string) (string, string) {
	text = strings.TrimSpace(text)

	var open []int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if i == len(text)-1 && len(open) == 0 {
				return text[:start], strings.TrimSpace(text[start+1 : i])
			}
		}
	}

	if len(open) > 0 {
		start := open[len(open)-1]
		return text[:start], strings.TrimSpace(text[start+1:])
	}
	return text, ""
}
