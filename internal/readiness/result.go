package readiness

import "sort"

// ExternalSignals are the inputs that come from outside the questionnaire.
// Every field is optional.
type ExternalSignals struct {
	ActivitiesPct            float64        `json:"activitiesPct"`
	CVPct                    float64        `json:"cvPct"`
	InterviewPct             float64        `json:"interviewPct"`
	CertificateProviders     []string       `json:"certificateProviders,omitempty"`
	Availability             *Availability  `json:"availability,omitempty"`
	ExperienceMonthsByDomain map[string]int `json:"experienceMonthsByDomain,omitempty"`
	GoalTitle                string         `json:"goalTitle,omitempty"`
	CVKeywords               []string       `json:"cvKeywords,omitempty"`
	Location                 string         `json:"location,omitempty"`
	Path                     PathSignals    `json:"pathSignals"`
}

type Summary struct {
	Headline string `json:"headline"`
	Message  string `json:"message"`
}

type ResultPayload struct {
	Language          string            `json:"language"`
	Summary           Summary           `json:"summary"`
	Overall           Level             `json:"overall"`
	OverallAverage    float64           `json:"overallAverage"`
	ByCategory        []CategoryAverage `json:"byCategory"`
	Path              Path              `json:"path"`
	PathLabel         string            `json:"pathLabel"`
	Progress          Progress          `json:"progress"`
	FlightPath        []Step            `json:"flightPath"`
	RoleSuggestions   RoleSuggestions   `json:"roleSuggestions"`
	ExperienceStage   Stage             `json:"experienceStage"`
	UnknownCategories []string          `json:"unknownCategories,omitempty"`
}

const DefaultLanguage = "en"

// ComputeResult runs the whole pipeline: aggregate, classify, select a
// path, score progress, build the flight path and match roles. The same
// inputs always produce the same payload.
func (e *Engine) ComputeResult(answers []Answer, catalog []RoleProfile, sig ExternalSignals, lang string) ResultPayload {
	if lang == "" {
		lang = DefaultLanguage
	}

	agg := e.Aggregate(answers)
	level := e.Classify(agg.Overall)
	path := e.SelectPath(agg.Overall, agg.ByCategory, sig.Path)
	progress := e.ScoreProgress(level.Code, ProgressSignals{
		ActivitiesPct: sig.ActivitiesPct,
		CVPct:         sig.CVPct,
		InterviewPct:  sig.InterviewPct,
	}, lang)

	stage := e.StageFor(sumMonths(sig.ExperienceMonthsByDomain))
	roles := e.MatchRoles(catalog, MatchInput{
		LevelCode:            level.Code,
		InterviewPct:         sig.InterviewPct,
		CertificateProviders: sig.CertificateProviders,
		CVKeywords:           sig.CVKeywords,
		GoalTitle:            sig.GoalTitle,
		Availability:         sig.Availability,
		Location:             sig.Location,
		Stage:                stage,
		Language:             lang,
	})

	return ResultPayload{
		Language: lang,
		Summary: Summary{
			Headline: e.text(lang, "summary.headline", nil),
			Message:  e.text(lang, "summary.message", nil),
		},
		Overall:           level,
		OverallAverage:    agg.Overall,
		ByCategory:        agg.ByCategory,
		Path:              path,
		PathLabel:         e.text(lang, "path."+string(path), nil),
		Progress:          progress,
		FlightPath:        e.FlightPath(path, lang),
		RoleSuggestions:   roles,
		ExperienceStage:   stage,
		UnknownCategories: agg.Unknown,
	}
}

func sumMonths(byDomain map[string]int) int {
	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	rows := make([]ExperienceEvidence, 0, len(domains))
	for _, d := range domains {
		rows = append(rows, ExperienceEvidence{Domain: d, Months: byDomain[d]})
	}
	return TotalMonths(rows)
}
