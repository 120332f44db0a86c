package readiness

import (
	"fmt"
	"sort"
)

type KeywordGapMode string

const (
	// KeywordGapAlways reports a keywords gap whenever a profile lists
	// must-have keywords, whether or not the CV already covers them.
	KeywordGapAlways KeywordGapMode = "always"
	// KeywordGapCoverage reports only the must-have keywords the CV is missing.
	KeywordGapCoverage KeywordGapMode = "coverage"
)

const (
	CategoryCV        = "cv"
	CategoryInterview = "interview"
	CategorySkills    = "skills"
	CategoryJobSearch = "jobsearch"
)

// Tier is one row of the level table. Rows are matched from the highest
// MinAverage down; the last row must have MinAverage 0.
type Tier struct {
	MinAverage float64
	Label      string
	Code       string
}

type ProgressWeights struct {
	Level      float64
	Activities float64
	CV         float64
	Interview  float64
}

type StageThreshold struct {
	MinMonths  int
	Stage      Stage
	Multiplier float64
}

// Settings holds every tunable constant used by the engine.
type Settings struct {
	Categories []string
	MaxScore   float64
	// Averages are rounded to this many decimals before any threshold is applied.
	Precision int

	Tiers []Tier

	HighCategory       float64
	LowCategory        float64
	ProOverall         float64
	FoundationsOverall float64
	TieBreakOverall    float64
	CategoryQuorum     int
	SignalQuorum       int

	LevelScores       map[string]float64
	DefaultLevelScore float64
	Weights           ProgressWeights
	BandThresholds    []float64
	WithinReachFrom   int

	// MaxInterviewScore is the session total across all practice questions.
	MaxInterviewScore float64
	// An answer of at least MinAnswerWords words earns MaxPerQuestion,
	// anything shorter earns ShortAnswerScore.
	MinAnswerWords   int
	MaxPerQuestion   float64
	ShortAnswerScore float64
	ReadyMatchScore  int
	BridgeGapPenalty int
	MaxBridgeGaps    int
	KeywordGapMode   KeywordGapMode

	GoalBoost          float64
	TitleHitWeight     float64
	WhyHitWeight       float64
	GapHitWeight       float64
	KeywordCap         float64
	AvailabilityCap    float64
	ProximityNudge     float64
	ProximityMaxTravel int

	Stages          []StageThreshold
	FlightPathSteps map[Path]int
}

func DefaultSettings() Settings {
	return Settings{
		Categories: []string{CategoryCV, CategoryInterview, CategorySkills, CategoryJobSearch},
		MaxScore:   5,
		Precision:  2,
		Tiers: []Tier{
			{MinAverage: 4.0, Label: "Advanced", Code: "L4"},
			{MinAverage: 3.0, Label: "Proficient", Code: "L3"},
			{MinAverage: 2.0, Label: "Developing", Code: "L2"},
			{MinAverage: 0, Label: "Beginner", Code: "L1"},
		},
		HighCategory:       3.6,
		LowCategory:        2.2,
		ProOverall:         3.4,
		FoundationsOverall: 2.4,
		TieBreakOverall:    3.2,
		CategoryQuorum:     2,
		SignalQuorum:       2,
		LevelScores: map[string]float64{
			"L1": 25,
			"L2": 50,
			"L3": 70,
			"L4": 85,
		},
		DefaultLevelScore: 25,
		Weights: ProgressWeights{
			Level:      0.35,
			Activities: 0.25,
			CV:         0.25,
			Interview:  0.15,
		},
		BandThresholds:     []float64{25, 50, 75, 100},
		WithinReachFrom:    75,
		MaxInterviewScore:  18,
		MinAnswerWords:     20,
		MaxPerQuestion:     6,
		ShortAnswerScore:   2,
		ReadyMatchScore:    86,
		BridgeGapPenalty:   14,
		MaxBridgeGaps:      2,
		KeywordGapMode:     KeywordGapAlways,
		GoalBoost:          2,
		TitleHitWeight:     1.0,
		WhyHitWeight:       0.5,
		GapHitWeight:       0.25,
		KeywordCap:         2.5,
		AvailabilityCap:    1.5,
		ProximityNudge:     0.35,
		ProximityMaxTravel: 30,
		Stages: []StageThreshold{
			{MinMonths: 60, Stage: StageSeasoned, Multiplier: 2},
			{MinMonths: 36, Stage: StageSolid, Multiplier: 1.5},
			{MinMonths: 12, Stage: StageGrowing, Multiplier: 1.25},
			{MinMonths: 0, Stage: StageNew, Multiplier: 1},
		},
		FlightPathSteps: map[Path]int{
			PathFoundations: 2,
			PathPrecision:   3,
		},
	}
}

// Validate rejects tables that would make the classifier or stage lookup
// partial.
func (s Settings) Validate() error {
	switch s.KeywordGapMode {
	case KeywordGapAlways, KeywordGapCoverage:
	default:
		return fmt.Errorf("unknown keyword gap mode %q", s.KeywordGapMode)
	}
	if len(s.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	if len(s.Tiers) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if !sort.SliceIsSorted(s.Tiers, func(i, j int) bool { return s.Tiers[i].MinAverage > s.Tiers[j].MinAverage }) {
		return fmt.Errorf("tiers must be ordered by descending minimum average")
	}
	if s.Tiers[len(s.Tiers)-1].MinAverage > 0 {
		return fmt.Errorf("lowest tier must start at 0")
	}
	if len(s.BandThresholds) == 0 {
		return fmt.Errorf("band thresholds are empty")
	}
	if len(s.Stages) == 0 || s.Stages[len(s.Stages)-1].MinMonths != 0 {
		return fmt.Errorf("stage table must end with a 0 month threshold")
	}
	if s.MaxInterviewScore <= 0 {
		return fmt.Errorf("max interview score must be positive")
	}
	if s.MinAnswerWords <= 0 {
		return fmt.Errorf("min answer words must be positive")
	}
	if s.MaxPerQuestion <= 0 || s.MaxPerQuestion > s.MaxInterviewScore {
		return fmt.Errorf("max per question must be in (0, %g]", s.MaxInterviewScore)
	}
	if s.ShortAnswerScore < 0 || s.ShortAnswerScore > s.MaxPerQuestion {
		return fmt.Errorf("short answer score must be in [0, %g]", s.MaxPerQuestion)
	}
	return nil
}
