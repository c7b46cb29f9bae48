package model

// DiagnosticKind classifies a non-fatal reconciliation problem.
type DiagnosticKind string

const (
	DiagUnresolvedTarget    DiagnosticKind = "unresolved_target"
	DiagUnresolvedChapter   DiagnosticKind = "unresolved_chapter"
	DiagAmbiguousIdentifier DiagnosticKind = "ambiguous_identifier"
	DiagTargetConflict      DiagnosticKind = "target_conflict"
	DiagTargetNotFound      DiagnosticKind = "target_not_found"
	DiagUnsupportedAction   DiagnosticKind = "unsupported_action"
	DiagUnplacedArticle     DiagnosticKind = "unplaced_article"
)

// Skips reports whether the diagnosed operation was left out of the merge.
func (k DiagnosticKind) Skips() bool {
	switch k {
	case DiagUnresolvedTarget, DiagUnresolvedChapter, DiagTargetNotFound, DiagUnsupportedAction, DiagUnplacedArticle:
		return true
	}
	return false
}

// Diagnostic reports one operation that needs manual review.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Operation int            `json:"operation"` // index in the operation list, -1 when not tied to one
	Source    string         `json:"source,omitempty"`
	Target    string         `json:"target,omitempty"`
	Message   string         `json:"message"`
}
