// internal/domain/reminder/result.go
package reminder

// FormResult is the outcome of one form that fired a reminder during a run.
type FormResult struct {
	FormID          string `json:"formId"`
	Sent            int    `json:"sent"`
	Errors          int    `json:"errors"`
	MatchedInterval string `json:"matchedInterval"`
}

// RunResult summarises one invocation of the reminder job. It is not persisted.
type RunResult struct {
	RunID       string       `json:"runId,omitempty"`
	TotalSent   int          `json:"totalSent"`
	TotalErrors int          `json:"totalErrors"`
	PerForm     []FormResult `json:"perForm"`
}

func NewRunResult(runID string) *RunResult {
	return &RunResult{RunID: runID, PerForm: []FormResult{}}
}

// Record appends a form's outcome and updates the totals. Forms that attempted no sends are
// left out so the result only lists forms that triggered work.
func (r *RunResult) Record(formID string, matched Interval, sent, errors int) {
	if sent+errors == 0 {
		return
	}
	r.PerForm = append(r.PerForm, FormResult{
		FormID:          formID,
		Sent:            sent,
		Errors:          errors,
		MatchedInterval: matched.String(),
	})
	r.TotalSent += sent
	r.TotalErrors += errors
}

// DidWork reports whether any send was attempted during the run.
func (r *RunResult) DidWork() bool {
	return r.TotalSent+r.TotalErrors > 0
}
