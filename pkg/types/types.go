// Package types defines the typed trees produced by the taskmd parsing core.
// These are the contracts consumed by external collaborators (sync, API,
// tooling); the core itself never persists or transmits them.
package types

// Task is a single checkbox line inside a group.
type Task struct {
	// ID is the internal identifier, derived from ContentHash and therefore
	// stable across re-parses of identical text.
	ID string `json:"id"`

	// DisplayID is the positional identifier "{phase}.{section}.{ordinal}",
	// recomputed on every parse.
	DisplayID string `json:"display_id"`

	// ContentHash is an 8-hex-char digest of "groupTitle::taskTitle".
	// Duplicate titles within a group share a hash; see resolver docs.
	ContentHash string `json:"content_hash"`

	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	LineNumber int    `json:"line_number"` // 1-based line in the source document
	Indent     int    `json:"indent"`      // raw leading-whitespace count

	// ParentTaskIndex points at the nearest preceding task in the same group
	// with strictly smaller indent. Nil for top-level tasks and for orphan
	// subtasks (which are reported as warnings, not errors).
	ParentTaskIndex *int `json:"parent_task_index,omitempty"`
}

// GroupLevel distinguishes explicit "###" sections from groups synthesized
// under a bare phase header.
type GroupLevel string

const (
	// GroupLevelSection is a group declared by a "###" header.
	GroupLevelSection GroupLevel = "section"

	// GroupLevelPhase is a group synthesized implicitly because tasks
	// appeared directly under a "##" phase with no section declared.
	GroupLevelPhase GroupLevel = "phase"
)

// Group is a "###"-level (or implicit) grouping of tasks within a phase.
type Group struct {
	// DisplayID is "{phaseIndex+1}.{sectionIndex}".
	DisplayID string `json:"display_id"`

	Title        string     `json:"title"`
	Level        GroupLevel `json:"level"`
	PhaseIndex   int        `json:"phase_index"`   // 0-based index of the owning phase
	SectionIndex int        `json:"section_index"` // 1-based position within the phase
	Tasks        []*Task    `json:"tasks"`
}

// Phase is a top-level "##" grouping.
type Phase struct {
	Index  int      `json:"index"` // 0-based document position
	Title  string   `json:"title"`
	Groups []*Group `json:"groups"`
}

// Metadata aggregates counts, warnings, and timing for one parse.
type Metadata struct {
	TotalTasks     int      `json:"total_tasks"`
	CompletedTasks int      `json:"completed_tasks"`
	TotalGroups    int      `json:"total_groups"`
	Format         string   `json:"format"`
	ParseTimeMs    int64    `json:"parse_time_ms"`
	Warnings       []string `json:"warnings"`
}

// ParseResult is the full typed tree for one tasks.md document.
// Results are immutable once returned; after any text edit the caller must
// re-parse rather than patch the tree.
type ParseResult struct {
	ChangeID string   `json:"change_id"`
	Phases   []*Phase `json:"phases"`
	Groups   []*Group `json:"groups"` // flat, document order
	Metadata Metadata `json:"metadata"`
}

// SyncTask is the flat projection consumed by the external DB-sync
// collaborator. All order fields are 1-based and contiguous within their
// scope.
type SyncTask struct {
	DisplayID  string `json:"display_id"`
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	LineNumber int    `json:"line_number"`
	GroupTitle string `json:"group_title"`
	GroupOrder int    `json:"group_order"` // position of the group within its phase
	TaskOrder  int    `json:"task_order"`  // position of the task within its group
	MajorTitle string `json:"major_title"` // owning phase title
	MajorOrder int    `json:"major_order"` // position of the phase in the document
	SubOrder   int    `json:"sub_order"`   // position of the task within its phase
}

// LegacyTask is the flatter projection kept for callers that predate the
// phase/group tree.
type LegacyTask struct {
	ID         string `json:"id"`
	DisplayID  string `json:"display_id"`
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	LineNumber int    `json:"line_number"`
	GroupTitle string `json:"group_title"`
	PhaseTitle string `json:"phase_title"`
}

// ResolvedTask is a task located by the legacy ID resolver, together with
// its owning group and phase.
type ResolvedTask struct {
	Task  *Task  `json:"task"`
	Group *Group `json:"group"`
	Phase *Phase `json:"phase"`
}

// UpdateResult is returned by single-task status mutations. NewContent is
// byte-identical to the input except for the one flipped checkbox line.
type UpdateResult struct {
	NewContent string `json:"new_content"`
	Task       *Task  `json:"task"`
}

// Checkbox is one "- [ ]"/"- [x]" line extracted from a MoAI document.
type Checkbox struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}
