package status

import (
	"errors"
	"strings"
	"testing"
)

const statusDoc = `# Project

## Phase 1: Setup

### 1.1 Environment
- [ ] Install Go
- [x] Configure editor

Some free-form prose that must survive edits,   with odd spacing.

### 1.2 Repo
- [ ] Init repo
`

func TestSetTaskStatusFlipsOneLine(t *testing.T) {
	m := NewMutator(nil)

	result, err := m.SetTaskStatus(statusDoc, "1.1.1", true)
	if err != nil {
		t.Fatalf("SetTaskStatus failed: %v", err)
	}
	if result.Task.Title != "Install Go" {
		t.Errorf("resolved task = %q; want Install Go", result.Task.Title)
	}

	gotLines := strings.Split(result.NewContent, "\n")
	wantLines := strings.Split(statusDoc, "\n")
	if len(gotLines) != len(wantLines) {
		t.Fatalf("line count changed: %d vs %d", len(gotLines), len(wantLines))
	}
	for i := range wantLines {
		if i == result.Task.LineNumber-1 {
			if gotLines[i] != "- [x] Install Go" {
				t.Errorf("mutated line = %q; want %q", gotLines[i], "- [x] Install Go")
			}
			continue
		}
		if gotLines[i] != wantLines[i] {
			t.Errorf("line %d changed: %q vs %q", i+1, gotLines[i], wantLines[i])
		}
	}
}

func TestSetTaskStatusIdempotent(t *testing.T) {
	m := NewMutator(nil)

	first, err := m.SetTaskStatus(statusDoc, "1.1.1", true)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := m.SetTaskStatus(first.NewContent, "1.1.1", true)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if second.NewContent != first.NewContent {
		t.Error("second identical call should return byte-identical content")
	}
}

func TestSetTaskStatusUncheck(t *testing.T) {
	m := NewMutator(nil)

	result, err := m.SetTaskStatus(statusDoc, "1.1.2", false)
	if err != nil {
		t.Fatalf("SetTaskStatus failed: %v", err)
	}
	if !strings.Contains(result.NewContent, "- [ ] Configure editor") {
		t.Error("task should be unchecked")
	}
}

func TestSetTaskStatusAcceptsAllDialects(t *testing.T) {
	m := NewMutator(nil)

	// Same task addressed by displayId, phaseTask, groupTask, and title.
	for _, id := range []string{"1.2.1", "task-1-3", "task-group-2-1", "Init repo"} {
		result, err := m.SetTaskStatus(statusDoc, id, true)
		if err != nil {
			t.Fatalf("SetTaskStatus(%q) failed: %v", id, err)
		}
		if result.Task.Title != "Init repo" {
			t.Errorf("SetTaskStatus(%q) resolved %q; want Init repo", id, result.Task.Title)
		}
	}
}

func TestSetTaskStatusNotFound(t *testing.T) {
	m := NewMutator(nil)

	_, err := m.SetTaskStatus(statusDoc, "nonexistent task id zz", true)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v; want ErrTaskNotFound", err)
	}
	if !strings.Contains(err.Error(), "nonexistent task id zz") {
		t.Errorf("error should name the id: %v", err)
	}
}

func TestToggleTaskStatus(t *testing.T) {
	m := NewMutator(nil)

	once, err := m.ToggleTaskStatus(statusDoc, "1.1.1")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(once.NewContent, "- [x] Install Go") {
		t.Error("first toggle should check the task")
	}

	twice, err := m.ToggleTaskStatus(once.NewContent, "1.1.1")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if twice.NewContent != statusDoc {
		t.Error("toggling twice should restore the original content")
	}
}

func TestMarkTasksCompletePartialSuccess(t *testing.T) {
	m := NewMutator(nil)

	newContent, updated := m.MarkTasksComplete(statusDoc, []string{"1.1.1", "bogus-id-zzz", "1.2.1"})
	if updated != 2 {
		t.Errorf("updated = %d; want 2", updated)
	}
	if !strings.Contains(newContent, "- [x] Install Go") || !strings.Contains(newContent, "- [x] Init repo") {
		t.Error("both valid ids should be checked")
	}
}

func TestMarkTasksCompleteAllInvalid(t *testing.T) {
	m := NewMutator(nil)

	newContent, updated := m.MarkTasksComplete(statusDoc, []string{"nope-1 zz", "nope-2 zz"})
	if updated != 0 {
		t.Errorf("updated = %d; want 0", updated)
	}
	if newContent != statusDoc {
		t.Error("content must be unchanged when nothing resolves")
	}
}

func TestMarkTasksIncomplete(t *testing.T) {
	m := NewMutator(nil)

	newContent, updated := m.MarkTasksIncomplete(statusDoc, []string{"1.1.2"})
	if updated != 1 {
		t.Errorf("updated = %d; want 1", updated)
	}
	if strings.Contains(newContent, "- [x]") {
		t.Error("no checked tasks should remain")
	}
}

func TestReplaceCheckboxLineErrors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		lineNumber int
	}{
		{"not a checkbox", "just a line\n- [ ] Task\n", 1},
		{"line out of range high", "- [ ] Task\n", 10},
		{"line out of range low", "- [ ] Task\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := replaceCheckboxLine(tt.content, tt.lineNumber, true)
			if !errors.Is(err, ErrNotCheckboxLine) {
				t.Errorf("err = %v; want ErrNotCheckboxLine", err)
			}
		})
	}
}
