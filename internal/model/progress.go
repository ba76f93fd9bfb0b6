package model

// Pipeline stages in fast-path order. "completed" and "error" are terminal:
// no further events follow either for a session.
const (
	StageResearchingCompany   = "researching_company"
	StageAnalyzingCompetitors = "analyzing_competitors"
	StageGatheringFinancials  = "gathering_financials"
	StageAnalyzingTeam        = "analyzing_team"
	StageProcessingNews       = "processing_news"
	StageCompleted            = "completed"
	StageError                = "error"
)

// ProgressEvent is the single latest progress record for a session. It is
// overwritten on every stage transition; only the most recent event survives.
type ProgressEvent struct {
	Type      string  `json:"type"`
	SessionID string  `json:"session_id"`
	Stage     string  `json:"stage"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
}

// Terminal reports whether no further events will follow this one.
func (e ProgressEvent) Terminal() bool {
	return e.Stage == StageCompleted || e.Stage == StageError
}
