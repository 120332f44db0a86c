package readiness

type Stage string

const (
	StageNew      Stage = "New"
	StageGrowing  Stage = "Growing"
	StageSolid    Stage = "Solid"
	StageSeasoned Stage = "Seasoned"
)

type ExperienceEvidence struct {
	Domain string `json:"domain"`
	Months int    `json:"months"`
}

// TotalMonths sums evidence rows. Negative rows are ignored.
func TotalMonths(rows []ExperienceEvidence) int {
	total := 0
	for _, r := range rows {
		if r.Months > 0 {
			total += r.Months
		}
	}
	return total
}

func (e *Engine) StageFor(totalMonths int) Stage {
	if totalMonths < 0 {
		totalMonths = 0
	}
	for _, t := range e.settings.Stages {
		if totalMonths >= t.MinMonths {
			return t.Stage
		}
	}
	return StageNew
}

// Multiplier returns the ranking multiplier for a stage, 1 when unknown.
func (e *Engine) Multiplier(stage Stage) float64 {
	for _, t := range e.settings.Stages {
		if t.Stage == stage {
			return t.Multiplier
		}
	}
	return 1
}
