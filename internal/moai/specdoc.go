package moai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloud-shuttle/taskmd/internal/markdown"
	"github.com/cloud-shuttle/taskmd/pkg/types"
)

var (
	reqSectionRe = regexp.MustCompile(`^###\s+((?:FR|NFR)-\d+):`)
	earsMarkerRe = regexp.MustCompile(`\*\*\[EARS:\s*([^\]]+?)\s*\]\*\*`)
)

// requirementTypes is the fixed modal-verb search order; the first verb
// found as a substring wins, and shall is the default.
var requirementTypes = []types.RequirementType{
	types.RequirementShall,
	types.RequirementShould,
	types.RequirementMay,
	types.RequirementWill,
}

// ParseSpec parses a spec.md document into EARS-tagged requirements. Each
// "**[EARS: Category]**" marker inside an FR/NFR section starts a new
// requirement; its text is every non-empty line up to the next marker or
// header, joined with spaces.
func ParseSpec(content string) *types.ParsedMoaiSpec {
	fm := markdown.ParseFrontmatter(content)
	doc := &types.ParsedMoaiSpec{
		Frontmatter:  fm,
		SpecID:       fm.StringValue("spec_id"),
		Requirements: []*types.ParsedRequirement{},
	}

	var (
		section   string
		counter   int
		current   *types.ParsedRequirement
		textParts []string
	)

	closeRequirement := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(textParts, " ")
		current.Type = inferRequirementType(current.Text)
		doc.Requirements = append(doc.Requirements, current)
		current = nil
		textParts = nil
	}

	for _, line := range strings.Split(markdown.Body(content), "\n") {
		if m := reqSectionRe.FindStringSubmatch(line); m != nil {
			closeRequirement()
			section = m[1]
			counter = 0
			continue
		}
		if strings.HasPrefix(line, "#") {
			// Any other header leaves requirement context.
			closeRequirement()
			section = ""
			continue
		}
		if section == "" {
			continue
		}

		if m := earsMarkerRe.FindStringSubmatch(line); m != nil {
			closeRequirement()
			counter++
			current = &types.ParsedRequirement{
				ID:       fmt.Sprintf("%s.%d", section, counter),
				Section:  section,
				Category: m[1],
			}
			// Text on the marker line itself still belongs to the
			// requirement.
			if rest := strings.TrimSpace(earsMarkerRe.ReplaceAllString(line, "")); rest != "" {
				textParts = append(textParts, rest)
			}
			continue
		}

		if current != nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				textParts = append(textParts, trimmed)
			}
		}
	}
	closeRequirement()

	return doc
}

// inferRequirementType finds the first modal verb present in text.
func inferRequirementType(text string) types.RequirementType {
	padded := " " + strings.ToLower(text) + " "
	for _, t := range requirementTypes {
		if strings.Contains(padded, " "+string(t)+" ") {
			return t
		}
	}
	return types.RequirementShall
}
