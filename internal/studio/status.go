package studio

import "strings"

type ProcessingStatus int

const (
	StatusUnrecognized ProcessingStatus = iota
	StatusInProgress
	StatusComplete
	StatusPendingCheck
)

func (s ProcessingStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in-progress"
	case StatusComplete:
		return "complete"
	case StatusPendingCheck:
		return "pending-check"
	default:
		return "unrecognized"
	}
}

// Terminal reports whether the wizard may move on to finalization. A pending
// copyright check counts: the dialog can be closed while it runs.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusComplete || s == StatusPendingCheck
}

func normalizeProgress(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func ClassifyProgress(label string) ProcessingStatus {
	text := normalizeProgress(label)

	switch {
	case strings.HasPrefix(text, "upload complete"):
		return StatusComplete
	case strings.Contains(text, "processing"):
		return StatusComplete
	case strings.HasPrefix(text, "check"):
		return StatusPendingCheck
	case strings.HasPrefix(text, "uploading"), strings.Contains(text, "%"):
		return StatusInProgress
	default:
		return StatusUnrecognized
	}
}
