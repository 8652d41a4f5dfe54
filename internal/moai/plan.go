// Package moai parses the MoAI SPEC triad: plan.md (TAG chains),
// acceptance.md (Gherkin criteria), and spec.md (EARS requirements). The
// three parsers are independent section state machines sharing only the
// frontmatter and checkbox helpers; all of them fail soft, returning empty
// trees for malformed or missing sections.
package moai

import (
	"regexp"
	"strings"

	"github.com/cloud-shuttle/taskmd/internal/markdown"
	"github.com/cloud-shuttle/taskmd/pkg/types"
)

var (
	h2Re         = regexp.MustCompile(`^##\s+(.+?)\s*$`)
	tagHeaderRe  = regexp.MustCompile(`^###\s+(TAG-\d+):\s*(.+?)\s*$`)
	tagFieldRe   = regexp.MustCompile(`^-\s+\*\*(Scope|Purpose|Dependencies)\*\*:?\s*(.*?)\s*$`)
	conditionsRe = regexp.MustCompile(`^-\s+\*\*Completion Conditions\*\*:\s*$`)
)

// Plan section names.
const (
	sectionStrategy = "Strategy"
	sectionTagChain = "TAG Chain"
)

// ParsePlan parses a plan.md document into its TAG chain and strategy.
func ParsePlan(content string) *types.ParsedMoaiPlan {
	fm := markdown.ParseFrontmatter(content)
	plan := &types.ParsedMoaiPlan{
		Frontmatter: fm,
		SpecID:      fm.StringValue("spec_id"),
		Tags:        []*types.ParsedTag{},
	}

	var (
		section       string
		strategyLines []string
		currentTag    *types.ParsedTag
		inConditions  bool
	)

	closeTag := func() {
		if currentTag == nil {
			return
		}
		currentTag.Completed = allChecked(currentTag.Conditions)
		plan.Tags = append(plan.Tags, currentTag)
		currentTag = nil
		inConditions = false
	}

	for _, line := range strings.Split(markdown.Body(content), "\n") {
		if m := h2Re.FindStringSubmatch(line); m != nil && !strings.HasPrefix(line, "###") {
			closeTag()
			section = m[1]
			continue
		}

		switch section {
		case sectionStrategy:
			strategyLines = append(strategyLines, line)
		case sectionTagChain:
			if m := tagHeaderRe.FindStringSubmatch(line); m != nil {
				closeTag()
				currentTag = &types.ParsedTag{
					ID:           m[1],
					Title:        m[2],
					Dependencies: []string{},
				}
				continue
			}
			if currentTag == nil {
				continue
			}

			if inConditions {
				if box, ok := markdown.ParseCheckbox(line); ok {
					currentTag.Conditions = append(currentTag.Conditions, box)
					continue
				}
				if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
					// Window closes on the first non-checkbox, non-indented
					// line; that line is still processed below.
					inConditions = false
				} else {
					continue
				}
			}

			if conditionsRe.MatchString(line) {
				inConditions = true
				continue
			}
			if m := tagFieldRe.FindStringSubmatch(line); m != nil {
				applyTagField(currentTag, m[1], m[2])
			}
		}
	}
	closeTag()

	plan.Strategy = strings.TrimSpace(strings.Join(strategyLines, "\n"))
	return plan
}

// applyTagField populates one "- **Field**: value" bullet.
func applyTagField(tag *types.ParsedTag, field, value string) {
	switch field {
	case "Scope":
		tag.Scope = value
	case "Purpose":
		tag.Purpose = value
	case "Dependencies":
		tag.Dependencies = parseDependencies(value)
	}
}

// parseDependencies splits a Dependencies bullet. "None" means no
// dependencies, anything else is comma-separated.
func parseDependencies(value string) []string {
	if value == "" || strings.EqualFold(value, "None") {
		return []string{}
	}
	parts := strings.Split(value, ",")
	deps := make([]string, 0, len(parts))
	for _, p := range parts {
		if dep := strings.TrimSpace(p); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// allChecked implements the shared completion rule: non-empty and every
// box checked.
func allChecked(boxes []types.Checkbox) bool {
	if len(boxes) == 0 {
		return false
	}
	for _, box := range boxes {
		if !box.Checked {
			return false
		}
	}
	return true
}
