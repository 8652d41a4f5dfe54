// Package parser converts tasks.md documents into typed Phase/Group/Task
// trees. Parsing is a single forward pass over the lines, never fails, and
// performs no I/O; malformed content yields fewer nodes plus warnings in
// the result metadata.
package parser

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-shuttle/taskmd/pkg/types"
)

// FormatMarkdown is the format label recorded in parse metadata.
const FormatMarkdown = "markdown"

// Parser parses tasks.md content. The zero value is not usable; construct
// with New.
type Parser struct {
	log *zap.Logger
}

// New creates a Parser. A nil logger disables warning logs.
func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{log: logger}
}

// assembly is the mutable cursor state threaded through one Parse call,
// keeping Parse itself referentially transparent.
type assembly struct {
	phases       []*types.Phase
	groups       []*types.Group // flat, document order
	currentPhase *types.Phase
	currentGroup *types.Group
	warnings     []string
}

// Parse builds the typed tree for content. changeID is an opaque caller
// string echoed unchanged into the result.
func (p *Parser) Parse(changeID, content string) *types.ParseResult {
	start := time.Now()

	a := &assembly{}
	for i, line := range strings.Split(content, "\n") {
		switch c := classifyLine(line); c.kind {
		case linePhase:
			a.flushGroup()
			a.flushPhase()
			a.currentPhase = &types.Phase{
				Index: len(a.phases),
				Title: c.title,
			}
		case lineSection:
			// A section with no enclosing phase has nowhere to live.
			if a.currentPhase == nil {
				continue
			}
			a.flushGroup()
			a.openGroup(c.title, types.GroupLevelSection)
		case lineTask:
			p.appendTask(a, c, i+1)
		}
	}
	a.flushGroup()
	a.flushPhase()

	result := &types.ParseResult{
		ChangeID: changeID,
		Phases:   a.phases,
		Groups:   a.groups,
	}
	result.Metadata = aggregateMetadata(result, a.warnings, time.Since(start))
	return result
}

// openGroup starts a new group under the current phase. Identity is
// assigned inline; the section index only becomes final if the group ends
// up with at least one task (empty groups are never flushed, so the next
// group reuses the slot and display IDs stay contiguous).
func (a *assembly) openGroup(title string, level types.GroupLevel) {
	sectionIndex := len(a.currentPhase.Groups) + 1
	a.currentGroup = &types.Group{
		DisplayID:    fmt.Sprintf("%d.%d", a.currentPhase.Index+1, sectionIndex),
		Title:        title,
		Level:        level,
		PhaseIndex:   a.currentPhase.Index,
		SectionIndex: sectionIndex,
	}
}

// appendTask adds a classified task line to the current group, synthesizing
// an implicit group when the phase has no section yet. Tasks preceding any
// phase header are dropped without a warning, matching historical behavior.
func (p *Parser) appendTask(a *assembly, c classified, lineNumber int) {
	if a.currentPhase == nil {
		return
	}
	if a.currentGroup == nil {
		// Bare phase: tasks attach to an implicit group carrying the
		// phase's own title. This is the only way level "phase" occurs.
		a.openGroup(a.currentPhase.Title, types.GroupLevelPhase)
	}

	group := a.currentGroup
	hash := contentHash(group.Title, c.title)
	task := &types.Task{
		ID:          internalTaskID(hash),
		DisplayID:   fmt.Sprintf("%s.%d", group.DisplayID, len(group.Tasks)+1),
		ContentHash: hash,
		Title:       c.title,
		Completed:   c.completed,
		LineNumber:  lineNumber,
		Indent:      c.indent,
	}

	if c.indent > 0 {
		if parent, ok := parentTaskIndex(group.Tasks, c.indent); ok {
			task.ParentTaskIndex = &parent
		} else {
			warning := fmt.Sprintf("orphan-subtask: %q at line %d has no parent task", c.title, lineNumber)
			a.warnings = append(a.warnings, warning)
			p.log.Warn("orphan subtask",
				zap.String("title", c.title),
				zap.Int("line", lineNumber),
			)
		}
	}

	group.Tasks = append(group.Tasks, task)
}

// parentTaskIndex finds the nearest preceding task with strictly smaller
// indent, returning its index within the group.
func parentTaskIndex(tasks []*types.Task, indent int) (int, bool) {
	for i := len(tasks) - 1; i >= 0; i-- {
		if tasks[i].Indent < indent {
			return i, true
		}
	}
	return 0, false
}

// flushGroup commits the in-progress group if it has at least one task.
func (a *assembly) flushGroup() {
	if a.currentGroup != nil && len(a.currentGroup.Tasks) > 0 {
		a.currentPhase.Groups = append(a.currentPhase.Groups, a.currentGroup)
		a.groups = append(a.groups, a.currentGroup)
	}
	a.currentGroup = nil
}

// flushPhase commits the in-progress phase if it has at least one group.
func (a *assembly) flushPhase() {
	if a.currentPhase != nil && len(a.currentPhase.Groups) > 0 {
		a.phases = append(a.phases, a.currentPhase)
	}
	a.currentPhase = nil
}

// aggregateMetadata is the pure aggregation pass over a finished tree.
func aggregateMetadata(result *types.ParseResult, warnings []string, elapsed time.Duration) types.Metadata {
	meta := types.Metadata{
		TotalGroups: len(result.Groups),
		Format:      FormatMarkdown,
		ParseTimeMs: elapsed.Milliseconds(),
		Warnings:    warnings,
	}
	if meta.Warnings == nil {
		meta.Warnings = []string{}
	}
	for _, group := range result.Groups {
		for _, task := range group.Tasks {
			meta.TotalTasks++
			if task.Completed {
				meta.CompletedTasks++
			}
		}
	}
	return meta
}
