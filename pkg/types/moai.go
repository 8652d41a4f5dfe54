package types

// SpecFrontmatter is the key/value map extracted from the leading "---"
// block of a MoAI SPEC document. Values are string, int, or []string; the
// reserved keys spec_id, phase, and created are always present and default
// to the empty string.
type SpecFrontmatter map[string]any

// StringValue returns the value for key as a string, or "" when the key is
// absent or not a string.
func (f SpecFrontmatter) StringValue(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// ParsedTag is one work unit from a plan.md TAG chain.
type ParsedTag struct {
	ID           string     `json:"id"`    // e.g. "TAG-001"
	Title        string     `json:"title"` // text after the colon
	Scope        string     `json:"scope"`
	Purpose      string     `json:"purpose"`
	Dependencies []string   `json:"dependencies"`
	Conditions   []Checkbox `json:"conditions"`

	// Completed is true when the tag has at least one completion condition
	// and every condition is checked.
	Completed bool `json:"completed"`
}

// ParsedAcceptanceCriteria is one Gherkin block from acceptance.md.
type ParsedAcceptanceCriteria struct {
	ID             string     `json:"id"` // e.g. "AC-1"
	Title          string     `json:"title"`
	Given          string     `json:"given"`
	When           string     `json:"when"`
	Then           string     `json:"then"`
	SuccessMetrics []Checkbox `json:"success_metrics"`

	// Verified follows the same all-checked rule as ParsedTag.Completed.
	Verified bool `json:"verified"`
}

// RequirementType is the modal-verb classification of a requirement.
type RequirementType string

const (
	RequirementShall  RequirementType = "shall"
	RequirementShould RequirementType = "should"
	RequirementMay    RequirementType = "may"
	RequirementWill   RequirementType = "will"
)

// ParsedRequirement is one EARS-tagged requirement from spec.md.
type ParsedRequirement struct {
	ID       string          `json:"id"` // "{sectionId}.{counter}", e.g. "FR-1.2"
	Section  string          `json:"section"`
	Category string          `json:"category"` // EARS category, verbatim from the marker
	Text     string          `json:"text"`
	Type     RequirementType `json:"type"`
}

// ParsedMoaiPlan is the typed tree for a plan.md document.
type ParsedMoaiPlan struct {
	Frontmatter SpecFrontmatter `json:"frontmatter"`
	SpecID      string          `json:"spec_id"`
	Tags        []*ParsedTag    `json:"tags"`
	Strategy    string          `json:"strategy,omitempty"`
}

// ParsedMoaiAcceptance is the typed tree for an acceptance.md document.
type ParsedMoaiAcceptance struct {
	Frontmatter      SpecFrontmatter             `json:"frontmatter"`
	SpecID           string                      `json:"spec_id"`
	Criteria         []*ParsedAcceptanceCriteria `json:"criteria"`
	DefinitionOfDone []Checkbox                  `json:"definition_of_done"`
}

// ParsedMoaiSpec is the typed tree for a spec.md document.
type ParsedMoaiSpec struct {
	Frontmatter  SpecFrontmatter      `json:"frontmatter"`
	SpecID       string               `json:"spec_id"`
	Requirements []*ParsedRequirement `json:"requirements"`
}
