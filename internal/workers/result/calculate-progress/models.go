// internal/workers/result/calculate-progress/models.go
package calculateprogress

type Input struct {
	LevelCode     string  `json:"levelCode"`
	ActivitiesPct float64 `json:"activitiesPct"`
	CVPct         float64 `json:"cvPct"`
	InterviewPct  float64 `json:"interviewPct"`
	Language      string  `json:"language,omitempty"`
}

type Output struct {
	Value       int    `json:"value"`
	Band        int    `json:"band"`
	WithinReach bool   `json:"withinReach"`
	JobReady    bool   `json:"jobReady"`
	NextPrompt  string `json:"nextPrompt"`
}
