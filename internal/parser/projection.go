package parser

import (
	"github.com/cloud-shuttle/taskmd/pkg/types"
)

// ToSyncTasks flattens a parse result into the projection consumed by the
// external DB-sync collaborator. Order fields are 1-based and contiguous:
// majorOrder over phases, groupOrder within a phase, taskOrder within a
// group, subOrder within a phase across its groups.
func ToSyncTasks(result *types.ParseResult) []types.SyncTask {
	var out []types.SyncTask
	for phaseIdx, phase := range result.Phases {
		subOrder := 0
		for groupIdx, group := range phase.Groups {
			for taskIdx, task := range group.Tasks {
				subOrder++
				out = append(out, types.SyncTask{
					DisplayID:  task.DisplayID,
					Title:      task.Title,
					Completed:  task.Completed,
					LineNumber: task.LineNumber,
					GroupTitle: group.Title,
					GroupOrder: groupIdx + 1,
					TaskOrder:  taskIdx + 1,
					MajorTitle: phase.Title,
					MajorOrder: phaseIdx + 1,
					SubOrder:   subOrder,
				})
			}
		}
	}
	return out
}

// ToLegacyTasks flattens a parse result into the older flat shape kept for
// callers that predate the phase/group tree. Same tree, different shape.
func ToLegacyTasks(result *types.ParseResult) []types.LegacyTask {
	var out []types.LegacyTask
	for _, phase := range result.Phases {
		for _, group := range phase.Groups {
			for _, task := range group.Tasks {
				out = append(out, types.LegacyTask{
					ID:         task.ID,
					DisplayID:  task.DisplayID,
					Title:      task.Title,
					Completed:  task.Completed,
					LineNumber: task.LineNumber,
					GroupTitle: group.Title,
					PhaseTitle: phase.Title,
				})
			}
		}
	}
	return out
}
