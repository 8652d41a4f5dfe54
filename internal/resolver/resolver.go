// Package resolver maps any of the six historical task-identifier dialects
// back to a concrete task within one parse result. The index is scoped to
// that result; after any text edit the caller must re-parse and rebuild.
package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cloud-shuttle/taskmd/pkg/types"
)

// IDType classifies a task identifier into one of the six dialects.
type IDType string

const (
	// IDTypePhaseTask is "task-P-T": 1-based phase and task position, with
	// the phase's tasks flattened across all its groups.
	IDTypePhaseTask IDType = "phaseTask"

	// IDTypeGroupTask is "task-group-G-T": 1-based positional indices into
	// the flat group list, phase-agnostic.
	IDTypeGroupTask IDType = "groupTask"

	// IDTypeInternal is any other "task-" prefixed id, matched against the
	// internal task ID by linear scan.
	IDTypeInternal IDType = "internal"

	// IDTypeDisplayID is the positional "P.S.T" id.
	IDTypeDisplayID IDType = "displayId"

	// IDTypeContentHash is the 8-hex-char content-addressed id.
	IDTypeContentHash IDType = "contentHash"

	// IDTypeTitle is a case-insensitive title substring, the terminal
	// fallback dialect.
	IDTypeTitle IDType = "title"
)

var (
	phaseTaskRe   = regexp.MustCompile(`^task-(\d+)-(\d+)$`)
	groupTaskRe   = regexp.MustCompile(`^task-group-(\d+)-(\d+)$`)
	displayIDRe   = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	contentHashRe = regexp.MustCompile(`^[a-f0-9]{8}$`)
)

// DetectIDType classifies id by the fixed dialect priority. Classification
// never fails; anything unrecognized is treated as a title substring.
func DetectIDType(id string) IDType {
	if strings.HasPrefix(id, "task-") && !strings.Contains(id, "group") {
		if phaseTaskRe.MatchString(id) {
			return IDTypePhaseTask
		}
		return IDTypeInternal
	}
	if strings.Contains(id, "group") {
		return IDTypeGroupTask
	}
	if displayIDRe.MatchString(id) {
		return IDTypeDisplayID
	}
	if contentHashRe.MatchString(id) {
		return IDTypeContentHash
	}
	return IDTypeTitle
}

// Resolver indexes one parse result for ID lookups.
type Resolver struct {
	result        *types.ParseResult
	byContentHash map[string]*types.ResolvedTask
	byDisplayID   map[string]*types.ResolvedTask
	log           *zap.Logger
}

// New builds a resolver over result, pre-indexing tasks by contentHash and
// displayId. On contentHash collisions (duplicate titles) the first task in
// document order wins. A nil logger disables advisory logs.
func New(result *types.ParseResult, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		result:        result,
		byContentHash: make(map[string]*types.ResolvedTask),
		byDisplayID:   make(map[string]*types.ResolvedTask),
		log:           logger,
	}
	r.walk(func(entry *types.ResolvedTask) bool {
		if _, seen := r.byContentHash[entry.Task.ContentHash]; !seen {
			r.byContentHash[entry.Task.ContentHash] = entry
		}
		if _, seen := r.byDisplayID[entry.Task.DisplayID]; !seen {
			r.byDisplayID[entry.Task.DisplayID] = entry
		}
		return true
	})
	return r
}

// walk visits every task in document order until fn returns false.
func (r *Resolver) walk(fn func(*types.ResolvedTask) bool) {
	for _, phase := range r.result.Phases {
		for _, group := range phase.Groups {
			for _, task := range group.Tasks {
				if !fn(&types.ResolvedTask{Task: task, Group: group, Phase: phase}) {
					return
				}
			}
		}
	}
}

// Resolve looks up id using its detected dialect. Returns nil when the id
// does not address a task in this result.
func (r *Resolver) Resolve(id string) *types.ResolvedTask {
	switch DetectIDType(id) {
	case IDTypePhaseTask:
		return r.resolvePhaseTask(id)
	case IDTypeGroupTask:
		return r.resolveGroupTask(id)
	case IDTypeInternal:
		return r.resolveInternal(id)
	case IDTypeDisplayID:
		return r.byDisplayID[id]
	case IDTypeContentHash:
		return r.byContentHash[id]
	default:
		return r.resolveTitle(id)
	}
}

// ResolveWithFallback tries the detected dialect first, then retries the
// remaining lookups in fixed order: displayId, contentHash, internal id,
// title substring. Exists to tolerate stale or ambiguous callers; returns
// nil only when every strategy misses.
func (r *Resolver) ResolveWithFallback(id string) *types.ResolvedTask {
	if resolved := r.Resolve(id); resolved != nil {
		return resolved
	}
	if resolved := r.byDisplayID[id]; resolved != nil {
		return resolved
	}
	if resolved := r.byContentHash[id]; resolved != nil {
		return resolved
	}
	if resolved := r.resolveInternal(id); resolved != nil {
		return resolved
	}
	return r.resolveTitle(id)
}

// resolvePhaseTask handles "task-P-T": select the P-th phase, flatten its
// tasks across all groups in document order, return the T-th.
func (r *Resolver) resolvePhaseTask(id string) *types.ResolvedTask {
	m := phaseTaskRe.FindStringSubmatch(id)
	if m == nil {
		return nil
	}
	phaseNum, _ := strconv.Atoi(m[1])
	taskNum, _ := strconv.Atoi(m[2])
	if phaseNum < 1 || phaseNum > len(r.result.Phases) || taskNum < 1 {
		return nil
	}

	phase := r.result.Phases[phaseNum-1]
	seen := 0
	for _, group := range phase.Groups {
		for _, task := range group.Tasks {
			seen++
			if seen == taskNum {
				return &types.ResolvedTask{Task: task, Group: group, Phase: phase}
			}
		}
	}
	return nil
}

// resolveGroupTask handles "task-group-G-T": positional indices directly
// into the flat group list and that group's tasks.
func (r *Resolver) resolveGroupTask(id string) *types.ResolvedTask {
	m := groupTaskRe.FindStringSubmatch(id)
	if m == nil {
		return nil
	}
	groupNum, _ := strconv.Atoi(m[1])
	taskNum, _ := strconv.Atoi(m[2])
	if groupNum < 1 || groupNum > len(r.result.Groups) {
		return nil
	}

	group := r.result.Groups[groupNum-1]
	if taskNum < 1 || taskNum > len(group.Tasks) {
		return nil
	}
	// A flushed group always belongs to a flushed phase, and kept phase
	// indices are contiguous.
	return &types.ResolvedTask{
		Task:  group.Tasks[taskNum-1],
		Group: group,
		Phase: r.result.Phases[group.PhaseIndex],
	}
}

// resolveInternal scans document order for an exact internal ID match.
func (r *Resolver) resolveInternal(id string) *types.ResolvedTask {
	var found *types.ResolvedTask
	r.walk(func(entry *types.ResolvedTask) bool {
		if entry.Task.ID == id {
			found = entry
			return false
		}
		return true
	})
	return found
}

// resolveTitle matches a case-insensitive title substring, first document
// order hit wins.
func (r *Resolver) resolveTitle(id string) *types.ResolvedTask {
	needle := strings.ToLower(id)
	if needle == "" {
		return nil
	}
	var found *types.ResolvedTask
	r.walk(func(entry *types.ResolvedTask) bool {
		if strings.Contains(strings.ToLower(entry.Task.Title), needle) {
			found = entry
			return false
		}
		return true
	})
	return found
}

// IsLegacyFormat reports whether id uses one of the deprecated positional
// dialects (phaseTask, groupTask). Advisory only; resolution still works.
func IsLegacyFormat(id string) bool {
	t := DetectIDType(id)
	return t == IDTypePhaseTask || t == IDTypeGroupTask
}

// WarnLegacyID emits a deprecation warning for legacy dialects. Never
// blocks resolution.
func (r *Resolver) WarnLegacyID(id string) {
	if IsLegacyFormat(id) {
		r.log.Warn("deprecated task id format; prefer displayId or contentHash",
			zap.String("id", id),
			zap.String("type", string(DetectIDType(id))),
		)
	}
}
