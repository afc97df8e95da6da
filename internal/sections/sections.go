// Package sections splits model build text into titled sections and parses
// the structured ones (runes, summoners, skill order, item lines).
package sections

import (
	"strings"
)

// Title identifies a build section
type Title string

const (
	Runes            Title = "RUNES"
	Summoners        Title = "SUMMONERS"
	SkillOrder       Title = "SKILL ORDER"
	StartingItems    Title = "STARTING ITEMS"
	CoreBuild        Title = "CORE BUILD"
	SituationalItems Title = "SITUATIONAL ITEMS"
)

// Titles lists every recognized header in the order the model is asked to emit them
var Titles = []Title{Runes, Summoners, SkillOrder, StartingItems, CoreBuild, SituationalItems}

// ItemTitles are the sections that carry purchasable items
var ItemTitles = []Title{StartingItems, CoreBuild, SituationalItems}

// Section is one titled block of build text
type Section struct {
	Title   Title  `json:"title"`
	Content string `json:"content"`
}

// Lines returns the non-blank content lines
func (s Section) Lines() []string {
	var out []string
	for _, line := range strings.Split(s.Content, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Parse splits text into sections. It never fails: text without any
// recognized header yields no sections.
func Parse(text string) []Section {
	var (
		out     []Section
		current Title
		lines   []string
	)

	flush := func() {
		if current != "" {
			out = append(out, Section{
				Title:   current,
				Content: strings.TrimSpace(strings.Join(lines, "\n")),
			})
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := CleanLine(raw)
		if line == "" {
			if current != "" {
				lines = append(lines, "")
			}
			continue
		}

		if title, ok := matchHeader(line); ok {
			flush()
			current = title
			lines = nil
			if rest := headerRemainder(line, title); rest != "" {
				lines = append(lines, rest)
			}
			continue
		}

		if current != "" {
			lines = append(lines, line)
		}
	}
	flush()

	return out
}

// Find returns the first section with the given title
func Find(secs []Section, title Title) (Section, bool) {
	for _, s := range secs {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// CleanLine trims a line and strips bold markers and a leading bullet
func CleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, "**", "")
	if strings.HasPrefix(line, "*") {
		line = strings.TrimLeft(strings.TrimPrefix(line, "*"), " \t")
	}
	if strings.HasPrefix(line, "-") {
		line = strings.TrimLeft(strings.TrimPrefix(line, "-"), " \t")
	}
	return line
}

// matchHeader reports whether a cleaned line starts with a section header
func matchHeader(line string) (Title, bool) {
	key := strings.ToUpper(line)
	key = strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '-', ':':
			return -1
		}
		return r
	}, key)
	key = strings.TrimSpace(key)

	for _, t := range Titles {
		if strings.HasPrefix(key, string(t)) {
			return t, true
		}
	}
	return "", false
}

// headerRemainder returns the text after the header's first colon, which
// the model uses to start a section inline ("CORE BUILD: Kraken Slayer")
func headerRemainder(line string, title Title) string {
	line = strings.TrimLeft(line, "#*- \t")
	if len(line) < len(title) || !strings.EqualFold(line[:len(title)], string(title)) {
		return ""
	}
	rest := line[len(title):]
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[idx+1:])
}
