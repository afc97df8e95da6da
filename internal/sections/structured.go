package sections

import (
	"regexp"
	"strings"
)

// RunePage is the parsed content of a RUNES section
type RunePage struct {
	PrimaryTree   string   `json:"primaryTree"`
	SecondaryTree string   `json:"secondaryTree"`
	Keystone      string   `json:"keystone"`
	Primary       []string `json:"primary"`
	Secondary     []string `json:"secondary"`
	Shards        []string `json:"shards"`
}

var (
	primaryLabel   = regexp.MustCompile(`(?i)^primary:\s*`)
	secondaryLabel = regexp.MustCompile(`(?i)^secondary:\s*`)
	shardsLabel    = regexp.MustCompile(`(?i)^shards?:\s*`)
	keystoneLabel  = regexp.MustCompile(`(?i)^keystone:\s*`)
	trailingAside  = regexp.MustCompile(`\s*\(.*\)$`)

	summonerLine = regexp.MustCompile(`^([A-Za-z\s]+?)(?:\s*\((.+)\))?\s*$`)
)

// ParseRunes reads "Primary:", "Secondary:", "Keystone:" and "Shards:"
// labels; unlabeled lines belong to whichever tree was named last. Without an
// explicit keystone the first primary rune is taken as the keystone.
func ParseRunes(content string) RunePage {
	var page RunePage
	inSecondary := false
	inShards := false

	for _, raw := range strings.Split(content, "\n") {
		line := CleanLine(raw)
		if line == "" {
			continue
		}

		switch {
		case primaryLabel.MatchString(line):
			page.PrimaryTree = strings.TrimSpace(primaryLabel.ReplaceAllString(line, ""))
			inSecondary, inShards = false, false
			continue
		case secondaryLabel.MatchString(line):
			page.SecondaryTree = strings.TrimSpace(secondaryLabel.ReplaceAllString(line, ""))
			inSecondary, inShards = true, false
			continue
		case shardsLabel.MatchString(line):
			for _, s := range strings.Split(shardsLabel.ReplaceAllString(line, ""), ",") {
				if s = strings.TrimSpace(s); s != "" {
					page.Shards = append(page.Shards, s)
				}
			}
			inShards = true
			continue
		case keystoneLabel.MatchString(line):
			page.Keystone = strings.TrimSpace(trailingAside.ReplaceAllString(keystoneLabel.ReplaceAllString(line, ""), ""))
			continue
		}

		name := strings.TrimSpace(trailingAside.ReplaceAllString(line, ""))
		if name == "" || inShards {
			continue
		}
		if inSecondary {
			page.Secondary = append(page.Secondary, name)
		} else {
			page.Primary = append(page.Primary, name)
		}
	}

	if page.Keystone == "" && len(page.Primary) > 0 {
		page.Keystone = page.Primary[0]
		page.Primary = page.Primary[1:]
	}
	return page
}

// Spell is one summoner spell choice
type Spell struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// ParseSummoners reads one spell per line with an optional parenthesized reason
func ParseSummoners(content string) []Spell {
	var out []Spell
	for _, raw := range strings.Split(content, "\n") {
		line := CleanLine(raw)
		if line == "" {
			continue
		}
		if m := summonerLine.FindStringSubmatch(line); m != nil {
			out = append(out, Spell{Name: strings.TrimSpace(m[1]), Reason: m[2]})
			continue
		}
		out = append(out, Spell{Name: line})
	}
	return out
}

// ParseSkillOrder splits a "Q > W > E" priority into its steps
func ParseSkillOrder(content string) []string {
	var out []string
	for _, part := range strings.Split(content, ">") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
