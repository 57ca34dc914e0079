package action

import "regexp"

// Line-anchored patterns over raw model output. The thought and action
// patterns match single lines; the output pattern spans from its line to the
// end of the text. The action capture takes the whole remainder of the line
// rather than requiring a brace-delimited object, so garbage after "Action:"
// reaches the literal parser and fails as a syntax error instead of being
// silently ignored.
var (
	thoughtPattern = regexp.MustCompile(`(?m)^Thought:\s*(.*)$`)
	actionPattern  = regexp.MustCompile(`(?m)^Action:\s*(.+)$`)
	outputPattern  = regexp.MustCompile(`(?m)^Output:\s?([\s\S]*)$`)
)

// Extraction holds the segments pulled out of one block of model output.
// Found flags distinguish "matched empty" from "did not match".
type Extraction struct {
	Thought      string
	ThoughtFound bool

	Action      string
	ActionFound bool

	Output      string
	OutputFound bool
}

// Extract scans raw model output for the last Thought/Action/Output
// segments. When a segment appears multiple times only the last occurrence
// is authoritative - the model restating itself supersedes earlier attempts.
// The output segment is extracted unconditionally here; precedence between
// action and output is the caller's concern.
func Extract(text string) Extraction {
	var ex Extraction

	if matches := thoughtPattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		ex.Thought = matches[len(matches)-1][1]
		ex.ThoughtFound = true
	}

	if matches := actionPattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		ex.Action = matches[len(matches)-1][1]
		ex.ActionFound = true
	}

	if matches := outputPattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		ex.Output = matches[len(matches)-1][1]
		ex.OutputFound = true
	}

	return ex
}
