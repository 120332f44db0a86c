// internal/workers/roles/match-roles/models.go
package matchroles

import "rekonet-workers/internal/readiness"

type Input struct {
	LevelCode            string                  `json:"levelCode"`
	InterviewPct         float64                 `json:"interviewPct"`
	CertificateProviders []string                `json:"certificateProviders,omitempty"`
	CVKeywords           []string                `json:"cvKeywords,omitempty"`
	GoalTitle            string                  `json:"goalTitle,omitempty"`
	Availability         *readiness.Availability `json:"availability,omitempty"`
	Location             string                  `json:"location,omitempty"`
	ExperienceMonths     int                     `json:"experienceMonths"`
	Language             string                  `json:"language,omitempty"`
}

type Headings struct {
	ReadyNow    string `json:"readyNow"`
	BridgeRoles string `json:"bridgeRoles"`
}

type RankedTitle struct {
	Title     string                  `json:"title"`
	Breakdown readiness.RankBreakdown `json:"breakdown"`
}

type Output struct {
	ReadyNow        []readiness.RoleSuggestion `json:"readyNow"`
	BridgeRoles     []readiness.RoleSuggestion `json:"bridgeRoles"`
	Headings        Headings                   `json:"headings"`
	ExperienceStage readiness.Stage            `json:"experienceStage"`
	CatalogSize     int                        `json:"catalogSize"`
	Ranking         []RankedTitle              `json:"ranking,omitempty"`
}
