package moai

import (
	"regexp"
	"strings"

	"github.com/cloud-shuttle/taskmd/internal/markdown"
	"github.com/cloud-shuttle/taskmd/pkg/types"
)

var (
	acHeaderRe      = regexp.MustCompile(`^##\s+(AC-\d+):\s*(.+?)\s*$`)
	dodHeaderRe     = regexp.MustCompile(`^##\s+Definition of Done\s*$`)
	gherkinFieldRe  = regexp.MustCompile(`^(?:-\s+)?\*\*(Given|When|Then)\*\*:?\s*(.*?)\s*$`)
	metricsHeaderRe = regexp.MustCompile(`^###\s+Success Metrics\s*$`)
	bulletRe        = regexp.MustCompile(`^-\s+(.*?)\s*$`)
)

// acceptanceState tracks where the state machine is inside the document.
type acceptanceState int

const (
	acOutside acceptanceState = iota
	acCriterion
	acMetrics
	acDefinitionOfDone
)

// ParseAcceptance parses an acceptance.md document: one Gherkin criterion
// per "## AC-N:" section plus an optional "## Definition of Done" checkbox
// list. The two section kinds are mutually exclusive; Definition of Done
// never affects any criterion's verified flag.
func ParseAcceptance(content string) *types.ParsedMoaiAcceptance {
	fm := markdown.ParseFrontmatter(content)
	doc := &types.ParsedMoaiAcceptance{
		Frontmatter:      fm,
		SpecID:           fm.StringValue("spec_id"),
		Criteria:         []*types.ParsedAcceptanceCriteria{},
		DefinitionOfDone: []types.Checkbox{},
	}

	state := acOutside
	inThen := false
	var current *types.ParsedAcceptanceCriteria

	closeCriterion := func() {
		if current == nil {
			return
		}
		current.Verified = allChecked(current.SuccessMetrics)
		doc.Criteria = append(doc.Criteria, current)
		current = nil
		inThen = false
	}

	for _, line := range strings.Split(markdown.Body(content), "\n") {
		if m := acHeaderRe.FindStringSubmatch(line); m != nil {
			closeCriterion()
			current = &types.ParsedAcceptanceCriteria{ID: m[1], Title: m[2]}
			state = acCriterion
			continue
		}
		if dodHeaderRe.MatchString(line) {
			closeCriterion()
			state = acDefinitionOfDone
			continue
		}
		if strings.HasPrefix(line, "## ") {
			// Any other H2 ends the current section.
			closeCriterion()
			state = acOutside
			continue
		}

		switch state {
		case acCriterion:
			if metricsHeaderRe.MatchString(line) {
				state = acMetrics
				inThen = false
				continue
			}
			if m := gherkinFieldRe.FindStringSubmatch(line); m != nil {
				inThen = false
				switch m[1] {
				case "Given":
					current.Given = m[2]
				case "When":
					current.When = m[2]
				case "Then":
					current.Then = m[2]
					inThen = true
				}
				continue
			}
			// Then absorbs immediately-following bullet continuation lines.
			if inThen {
				if m := bulletRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
					current.Then += "\n" + m[1]
					continue
				}
				if strings.TrimSpace(line) != "" {
					inThen = false
				}
			}
		case acMetrics:
			if strings.HasPrefix(line, "#") {
				state = acCriterion
				continue
			}
			if box, ok := markdown.ParseCheckbox(line); ok {
				current.SuccessMetrics = append(current.SuccessMetrics, box)
			}
		case acDefinitionOfDone:
			if box, ok := markdown.ParseCheckbox(line); ok {
				doc.DefinitionOfDone = append(doc.DefinitionOfDone, box)
			}
		}
	}
	closeCriterion()

	return doc
}
