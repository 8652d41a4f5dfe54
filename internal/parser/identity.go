package parser

import (
	"crypto/sha256"
	"encoding/hex"
)

// contentHashLength is the number of hex characters kept from the digest.
const contentHashLength = 8

// contentHash computes the content-addressed identity of a task: the first
// 8 hex characters of sha256("groupTitle::taskTitle"). The hash survives
// reordering but collides for duplicate titles within a group; callers that
// need uniqueness use displayId instead.
func contentHash(groupTitle, taskTitle string) string {
	sum := sha256.Sum256([]byte(groupTitle + "::" + taskTitle))
	return hex.EncodeToString(sum[:])[:contentHashLength]
}

// internalTaskID derives the internal task identifier from the content
// hash, keeping IDs deterministic across re-parses of identical text.
func internalTaskID(hash string) string {
	return "task-" + hash
}
