package parser

import (
	"regexp"
	"strings"
)

// lineKind is the outcome of classifying one source line.
type lineKind int

const (
	lineNone lineKind = iota
	linePhase
	lineSection
	lineTask
)

// classified carries the fields extracted from a matched line. Only the
// fields relevant to the kind are populated.
type classified struct {
	kind      lineKind
	title     string
	indent    int  // task lines: raw leading-whitespace count
	completed bool // task lines: bracket content was x or X
}

// Phase patterns apply to lines starting with exactly "##". Order matters:
// the "Phase N:" form must win over the numbered form, which must win over
// the generic form.
var phasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^##\s+Phase\s+\d+:\s*(.+?)\s*$`),
	regexp.MustCompile(`^##\s+\d+\.\s*(.+?)\s*$`),
	regexp.MustCompile(`^##\s+(.+?)\s*$`),
}

// Section patterns apply to "###" and deeper headers.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^###+\s+\d+\.\d+\s+(.+?)\s*$`),
	regexp.MustCompile(`^###+\s+(.+?)\s*$`),
}

var (
	taskLineRe   = regexp.MustCompile(`^(\s*)-\s+\[([ xX])\]\s+(.*\S)\s*$`)
	taskPrefixRe = regexp.MustCompile(`^task-\d+-\d+:\s*`)
)

// classifyLine maps one line to a phase header, section header, task line,
// or nothing. Malformed checkboxes ("[?]", "[]") and empty or "#"-leading
// task titles are rejected silently.
func classifyLine(line string) classified {
	if strings.HasPrefix(line, "##") && !strings.HasPrefix(line, "###") {
		for _, re := range phasePatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				return classified{kind: linePhase, title: m[1]}
			}
		}
		return classified{}
	}

	if strings.HasPrefix(line, "###") {
		for _, re := range sectionPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				return classified{kind: lineSection, title: m[1]}
			}
		}
		return classified{}
	}

	if m := taskLineRe.FindStringSubmatch(line); m != nil {
		title := taskPrefixRe.ReplaceAllString(m[3], "")
		if title == "" || strings.HasPrefix(title, "#") {
			return classified{}
		}
		return classified{
			kind:      lineTask,
			title:     title,
			indent:    len(m[1]),
			completed: m[2] == "x" || m[2] == "X",
		}
	}

	return classified{}
}
