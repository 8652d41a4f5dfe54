package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cloud-shuttle/taskmd/pkg/types"
)

// sampleDoc exercises explicit sections, nested subtasks, and an implicit
// group under a bare phase.
const sampleDoc = `# Tasks

## Phase 1: Setup

### 1.1 Environment
- [ ] Install Go
- [x] Configure editor

### 1.2 Repo
- [ ] Init repo
  - [ ] Add remote

## Phase 2: Build

- [x] Write code
`

func parseSample(t *testing.T) *types.ParseResult {
	t.Helper()
	return New(nil).Parse("change-1", sampleDoc)
}

func TestParseBarePhaseScenario(t *testing.T) {
	content := "## Phase 1: Setup\n\n- [ ] Create project\n- [x] Install deps\n"
	result := New(nil).Parse("cid", content)

	if result.ChangeID != "cid" {
		t.Errorf("ChangeID = %q; want %q", result.ChangeID, "cid")
	}
	if len(result.Phases) != 1 || len(result.Groups) != 1 {
		t.Fatalf("got %d phases, %d groups; want 1, 1", len(result.Phases), len(result.Groups))
	}

	group := result.Groups[0]
	if group.DisplayID != "1.1" {
		t.Errorf("group DisplayID = %q; want %q", group.DisplayID, "1.1")
	}
	if group.Level != types.GroupLevelPhase {
		t.Errorf("group Level = %q; want %q (implicit group)", group.Level, types.GroupLevelPhase)
	}
	if group.Title != "Setup" {
		t.Errorf("group Title = %q; want phase title %q", group.Title, "Setup")
	}

	if len(group.Tasks) != 2 {
		t.Fatalf("got %d tasks; want 2", len(group.Tasks))
	}
	if group.Tasks[0].DisplayID != "1.1.1" || group.Tasks[1].DisplayID != "1.1.2" {
		t.Errorf("task DisplayIDs = %q, %q; want 1.1.1, 1.1.2",
			group.Tasks[0].DisplayID, group.Tasks[1].DisplayID)
	}

	meta := result.Metadata
	if meta.TotalTasks != 2 || meta.CompletedTasks != 1 {
		t.Errorf("totals = %d/%d; want 2 total, 1 completed", meta.TotalTasks, meta.CompletedTasks)
	}
}

func TestParseSampleTree(t *testing.T) {
	result := parseSample(t)

	if len(result.Phases) != 2 {
		t.Fatalf("got %d phases; want 2", len(result.Phases))
	}
	if result.Metadata.TotalTasks != 5 || result.Metadata.CompletedTasks != 2 {
		t.Errorf("totals = %d/%d; want 5/2", result.Metadata.TotalTasks, result.Metadata.CompletedTasks)
	}
	if result.Metadata.TotalGroups != 3 {
		t.Errorf("TotalGroups = %d; want 3", result.Metadata.TotalGroups)
	}
	if result.Metadata.Format != FormatMarkdown {
		t.Errorf("Format = %q; want %q", result.Metadata.Format, FormatMarkdown)
	}

	setup := result.Phases[0]
	if setup.Title != "Setup" || len(setup.Groups) != 2 {
		t.Fatalf("phase 1 = %q with %d groups; want Setup with 2", setup.Title, len(setup.Groups))
	}
	if setup.Groups[0].DisplayID != "1.1" || setup.Groups[1].DisplayID != "1.2" {
		t.Errorf("group DisplayIDs = %q, %q; want 1.1, 1.2",
			setup.Groups[0].DisplayID, setup.Groups[1].DisplayID)
	}
	if setup.Groups[0].Level != types.GroupLevelSection {
		t.Errorf("explicit section has level %q; want %q", setup.Groups[0].Level, types.GroupLevelSection)
	}

	build := result.Phases[1]
	if len(build.Groups) != 1 || build.Groups[0].Level != types.GroupLevelPhase {
		t.Fatalf("phase 2 should have one implicit group, got %+v", build.Groups)
	}
	if build.Groups[0].DisplayID != "2.1" {
		t.Errorf("implicit group DisplayID = %q; want 2.1", build.Groups[0].DisplayID)
	}
}

func TestParseSubtaskParent(t *testing.T) {
	result := parseSample(t)

	repo := result.Phases[0].Groups[1]
	if len(repo.Tasks) != 2 {
		t.Fatalf("repo group has %d tasks; want 2", len(repo.Tasks))
	}

	sub := repo.Tasks[1]
	if sub.Title != "Add remote" {
		t.Fatalf("unexpected subtask %q", sub.Title)
	}
	if sub.ParentTaskIndex == nil || *sub.ParentTaskIndex != 0 {
		t.Errorf("ParentTaskIndex = %v; want 0", sub.ParentTaskIndex)
	}
	if repo.Tasks[0].ParentTaskIndex != nil {
		t.Errorf("top-level task should have nil ParentTaskIndex")
	}
	if len(result.Metadata.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Metadata.Warnings)
	}
}

func TestParseOrphanSubtaskWarning(t *testing.T) {
	content := "## Phase 1: Setup\n\n### 1.1 Env\n  - [ ] Floating subtask\n- [ ] Normal task\n"
	result := New(nil).Parse("cid", content)

	if len(result.Metadata.Warnings) != 1 {
		t.Fatalf("got %d warnings; want 1: %v", len(result.Metadata.Warnings), result.Metadata.Warnings)
	}
	if !strings.Contains(result.Metadata.Warnings[0], "orphan-subtask") {
		t.Errorf("warning = %q; want orphan-subtask", result.Metadata.Warnings[0])
	}

	// The orphan is kept as a task, just without a parent.
	if result.Metadata.TotalTasks != 2 {
		t.Errorf("TotalTasks = %d; want 2", result.Metadata.TotalTasks)
	}
}

func TestParseDropsUnanchoredContent(t *testing.T) {
	content := "- [ ] Before any header\n\n### 1.1 Homeless section\n- [ ] Also dropped\n\n## Phase 1: Real\n- [ ] Kept\n"
	result := New(nil).Parse("cid", content)

	if result.Metadata.TotalTasks != 1 {
		t.Fatalf("TotalTasks = %d; want 1", result.Metadata.TotalTasks)
	}
	if result.Groups[0].Tasks[0].Title != "Kept" {
		t.Errorf("kept task = %q; want Kept", result.Groups[0].Tasks[0].Title)
	}
	// Pre-header drops are silent, matching historical behavior.
	if len(result.Metadata.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Metadata.Warnings)
	}
}

func TestParseDropsEmptyGroupsAndPhases(t *testing.T) {
	content := `## Phase 1: Empty

### 1.1 No tasks here

## Phase 2: Real

### 2.1 Ghost

### 2.2 Work
- [ ] Only task
`
	result := New(nil).Parse("cid", content)

	if len(result.Phases) != 1 {
		t.Fatalf("got %d phases; want 1 (empty phase dropped)", len(result.Phases))
	}
	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups; want 1 (empty groups dropped)", len(result.Groups))
	}

	// The surviving phase takes index 0 and the surviving group reuses the
	// section slot, so display ids stay contiguous.
	group := result.Groups[0]
	if group.DisplayID != "1.1" {
		t.Errorf("group DisplayID = %q; want 1.1", group.DisplayID)
	}
	if group.Tasks[0].DisplayID != "1.1.1" {
		t.Errorf("task DisplayID = %q; want 1.1.1", group.Tasks[0].DisplayID)
	}
}

func TestContentHashDeterministic(t *testing.T) {
	first := parseSample(t)
	second := parseSample(t)

	for i, group := range first.Groups {
		for j, task := range group.Tasks {
			other := second.Groups[i].Tasks[j]
			if task.ContentHash != other.ContentHash {
				t.Errorf("hash for %q changed across parses: %q vs %q",
					task.Title, task.ContentHash, other.ContentHash)
			}
			if len(task.ContentHash) != contentHashLength {
				t.Errorf("hash %q has length %d; want %d",
					task.ContentHash, len(task.ContentHash), contentHashLength)
			}
			if task.ID != "task-"+task.ContentHash {
				t.Errorf("internal ID %q not derived from hash %q", task.ID, task.ContentHash)
			}
		}
	}
}

func TestContentHashVariesWithTitles(t *testing.T) {
	if contentHash("Group", "Task A") == contentHash("Group", "Task B") {
		t.Error("different task titles should hash differently")
	}
	if contentHash("Group A", "Task") == contentHash("Group B", "Task") {
		t.Error("different group titles should hash differently")
	}
	if contentHash("Group", "Task") != contentHash("Group", "Task") {
		t.Error("identical inputs must hash identically")
	}
}

func TestToSyncTasks(t *testing.T) {
	result := parseSample(t)

	got := ToSyncTasks(result)
	want := []types.SyncTask{
		{DisplayID: "1.1.1", Title: "Install Go", LineNumber: 6, GroupTitle: "Environment", GroupOrder: 1, TaskOrder: 1, MajorTitle: "Setup", MajorOrder: 1, SubOrder: 1},
		{DisplayID: "1.1.2", Title: "Configure editor", Completed: true, LineNumber: 7, GroupTitle: "Environment", GroupOrder: 1, TaskOrder: 2, MajorTitle: "Setup", MajorOrder: 1, SubOrder: 2},
		{DisplayID: "1.2.1", Title: "Init repo", LineNumber: 10, GroupTitle: "Repo", GroupOrder: 2, TaskOrder: 1, MajorTitle: "Setup", MajorOrder: 1, SubOrder: 3},
		{DisplayID: "1.2.2", Title: "Add remote", LineNumber: 11, GroupTitle: "Repo", GroupOrder: 2, TaskOrder: 2, MajorTitle: "Setup", MajorOrder: 1, SubOrder: 4},
		{DisplayID: "2.1.1", Title: "Write code", Completed: true, LineNumber: 15, GroupTitle: "Build", GroupOrder: 1, TaskOrder: 1, MajorTitle: "Build", MajorOrder: 2, SubOrder: 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToSyncTasks mismatch (-want +got):\n%s", diff)
	}
}

func TestToSyncTasksOrderFieldsContiguous(t *testing.T) {
	result := parseSample(t)

	lastMajor := 0
	subByMajor := map[int]int{}
	for _, task := range ToSyncTasks(result) {
		if task.MajorOrder < lastMajor {
			t.Fatalf("major order went backwards at %q", task.DisplayID)
		}
		lastMajor = task.MajorOrder

		subByMajor[task.MajorOrder]++
		if task.SubOrder != subByMajor[task.MajorOrder] {
			t.Errorf("task %q has SubOrder %d; want %d",
				task.DisplayID, task.SubOrder, subByMajor[task.MajorOrder])
		}
	}
}

func TestToLegacyTasks(t *testing.T) {
	result := parseSample(t)

	legacy := ToLegacyTasks(result)
	if len(legacy) != 5 {
		t.Fatalf("got %d legacy tasks; want 5", len(legacy))
	}

	first := legacy[0]
	if first.GroupTitle != "Environment" || first.PhaseTitle != "Setup" {
		t.Errorf("legacy task context = %q/%q; want Environment/Setup",
			first.GroupTitle, first.PhaseTitle)
	}
	if first.ID == "" || first.DisplayID != "1.1.1" {
		t.Errorf("legacy identity = %q/%q", first.ID, first.DisplayID)
	}
}

func TestParseNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"complete garbage ### not a header - [ ]",
		"## ",
		"- [ ]",
		strings.Repeat("- [x] spam\n", 100),
	}
	for _, input := range inputs {
		result := New(nil).Parse("cid", input)
		if result == nil {
			t.Fatalf("Parse returned nil for %q", input)
		}
	}
}
