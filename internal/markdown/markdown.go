// Package markdown holds the low-level helpers shared by the tasks.md and
// MoAI SPEC parser families: frontmatter extraction and checkbox extraction.
// Anything more structured belongs to the individual parsers.
package markdown

import (
	"regexp"
	"strings"

	"github.com/cloud-shuttle/taskmd/pkg/types"
)

var (
	frontmatterRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---`)
	checkboxRe    = regexp.MustCompile(`^\s*-\s+\[([ xX])\]\s+(.*\S)\s*$`)
	allDigitsRe   = regexp.MustCompile(`^\d+$`)
)

// reservedFrontmatterKeys are always present in the returned map.
var reservedFrontmatterKeys = []string{"spec_id", "phase", "created"}

// ParseFrontmatter extracts the leading "---" block of a MoAI document into
// a key/value map. Values follow the historical conversion rules: "[a, b]"
// becomes a string slice, an all-digit value becomes an int, anything else
// stays a trimmed string. A missing block yields only the reserved keys.
func ParseFrontmatter(content string) types.SpecFrontmatter {
	fm := types.SpecFrontmatter{}
	for _, key := range reservedFrontmatterKeys {
		fm[key] = ""
	}

	m := frontmatterRe.FindStringSubmatch(content)
	if m == nil {
		return fm
	}

	for _, line := range strings.Split(m[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fm[key] = convertValue(strings.TrimSpace(value))
	}
	return fm
}

// convertValue applies the frontmatter value conversion rules.
func convertValue(raw string) any {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := strings.TrimSpace(raw[1 : len(raw)-1])
		if inner == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			items = append(items, strings.TrimSpace(p))
		}
		return items
	}
	if allDigitsRe.MatchString(raw) {
		n := 0
		for _, r := range raw {
			n = n*10 + int(r-'0')
		}
		return n
	}
	return raw
}

// Body returns content with the leading frontmatter block removed, so the
// section state machines never scan frontmatter lines.
func Body(content string) string {
	loc := frontmatterRe.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[loc[1]:]
}

// ParseCheckboxes extracts every "- [ ]"/"- [x]" line from lines. Bracket
// contents other than a single space, x, or X are not checkboxes and are
// skipped without comment.
func ParseCheckboxes(lines []string) []types.Checkbox {
	var boxes []types.Checkbox
	for _, line := range lines {
		if box, ok := ParseCheckbox(line); ok {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

// ParseCheckbox parses a single checkbox line.
func ParseCheckbox(line string) (types.Checkbox, bool) {
	m := checkboxRe.FindStringSubmatch(line)
	if m == nil {
		return types.Checkbox{}, false
	}
	return types.Checkbox{
		Text:    m[2],
		Checked: m[1] == "x" || m[1] == "X",
	}, true
}

// IsCheckboxLine reports whether line would parse as a checkbox.
func IsCheckboxLine(line string) bool {
	return checkboxRe.MatchString(line)
}
