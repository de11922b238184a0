package site

import "time"

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Issue records a per-document failure that did not abort the pass.
type Issue struct {
	Path    string `json:"path"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// BuildReport captures the result of one full build pass.
type BuildReport struct {
	BuildID    string       `json:"build_id"`
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	Discovered int          `json:"discovered"`
	Rendered   int          `json:"rendered"`
	Failed     int          `json:"failed"`
	Issues     []Issue      `json:"issues,omitempty"`
	Outcome    BuildOutcome `json:"outcome"`
}

// Duration returns the wall-clock time of the pass.
func (r *BuildReport) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r *BuildReport) addIssue(path, stage string, err error) {
	r.Failed++
	r.Issues = append(r.Issues, Issue{Path: path, Stage: stage, Message: err.Error()})
}

// finalize stamps the end time and derives the overall outcome.
func (r *BuildReport) finalize() {
	r.End = time.Now()
	switch {
	case r.Failed > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}
