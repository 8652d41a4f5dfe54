// Package status flips task checkboxes in place. Mutations re-parse the
// source text, resolve the target through the full fallback chain, then
// rewrite exactly one line; every other byte of the document is preserved.
package status

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/cloud-shuttle/taskmd/internal/parser"
	"github.com/cloud-shuttle/taskmd/internal/resolver"
	"github.com/cloud-shuttle/taskmd/pkg/types"
)

// Sentinel errors for the two distinguishable hard failures.
var (
	// ErrTaskNotFound means the id resolved to nothing, even with fallback.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotCheckboxLine means the resolved line no longer matches the
	// checkbox pattern, so no substitution could occur.
	ErrNotCheckboxLine = errors.New("line is not a task checkbox")
)

// checkboxLineRe splits a task line into prefix, mark, and suffix so the
// substitution can touch only the single mark character.
var checkboxLineRe = regexp.MustCompile(`^(\s*-\s+\[)([ xX])(\].*)$`)

// changeIDStatusUpdate labels the internal re-parse performed by mutations.
const changeIDStatusUpdate = "status-update"

// Mutator performs checkbox mutations against raw document text.
type Mutator struct {
	parser *parser.Parser
	log    *zap.Logger
}

// NewMutator creates a Mutator. A nil logger disables warning logs.
func NewMutator(logger *zap.Logger) *Mutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mutator{
		parser: parser.New(logger),
		log:    logger,
	}
}

// SetTaskStatus sets the checkbox for id to completed and returns the new
// content plus the resolved task. The operation is idempotent: setting an
// already-matching status returns byte-identical content.
func (m *Mutator) SetTaskStatus(content, id string, completed bool) (*types.UpdateResult, error) {
	result := m.parser.Parse(changeIDStatusUpdate, content)
	res := resolver.New(result, m.log)

	resolved := res.ResolveWithFallback(id)
	if resolved == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	newContent, err := replaceCheckboxLine(content, resolved.Task.LineNumber, completed)
	if err != nil {
		return nil, err
	}
	return &types.UpdateResult{NewContent: newContent, Task: resolved.Task}, nil
}

// ToggleTaskStatus flips the resolved task's current completion state.
func (m *Mutator) ToggleTaskStatus(content, id string) (*types.UpdateResult, error) {
	result := m.parser.Parse(changeIDStatusUpdate, content)
	res := resolver.New(result, m.log)

	resolved := res.ResolveWithFallback(id)
	if resolved == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	newContent, err := replaceCheckboxLine(content, resolved.Task.LineNumber, !resolved.Task.Completed)
	if err != nil {
		return nil, err
	}
	return &types.UpdateResult{NewContent: newContent, Task: resolved.Task}, nil
}

// MarkTasksComplete folds SetTaskStatus over ids, re-deriving content each
// iteration. Unresolved ids are skipped with a warning; partial success is
// expected, not exceptional. Returns the final content and update count.
func (m *Mutator) MarkTasksComplete(content string, ids []string) (string, int) {
	return m.markTasks(content, ids, true)
}

// MarkTasksIncomplete is the unchecking counterpart of MarkTasksComplete.
func (m *Mutator) MarkTasksIncomplete(content string, ids []string) (string, int) {
	return m.markTasks(content, ids, false)
}

func (m *Mutator) markTasks(content string, ids []string, completed bool) (string, int) {
	updated := 0
	for _, id := range ids {
		result, err := m.SetTaskStatus(content, id, completed)
		if err != nil {
			m.log.Warn("skipping unresolved task id",
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		content = result.NewContent
		updated++
	}
	return content, updated
}

// replaceCheckboxLine performs the single-line substitution against a plain
// line split of the original text. Only line lineNumber (1-based) changes.
func replaceCheckboxLine(content string, lineNumber int, completed bool) (string, error) {
	lines := strings.Split(content, "\n")
	if lineNumber < 1 || lineNumber > len(lines) {
		return "", fmt.Errorf("%w: line %d out of range", ErrNotCheckboxLine, lineNumber)
	}

	line := lines[lineNumber-1]
	m := checkboxLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", fmt.Errorf("%w: line %d", ErrNotCheckboxLine, lineNumber)
	}

	mark := " "
	if completed {
		mark = "x"
	}
	lines[lineNumber-1] = m[1] + mark + m[3]
	return strings.Join(lines, "\n"), nil
}
