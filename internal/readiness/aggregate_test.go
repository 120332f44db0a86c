package readiness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name        string
		answers     []Answer
		wantOverall float64
		wantAvg     map[string]float64
		wantCount   map[string]int
		wantUnknown []string
	}{
		{
			name:        "empty answers",
			answers:     nil,
			wantOverall: 0,
			wantAvg:     map[string]float64{"cv": 0, "interview": 0, "skills": 0, "jobsearch": 0},
			wantCount:   map[string]int{"cv": 0, "interview": 0, "skills": 0, "jobsearch": 0},
		},
		{
			name: "categories weighted equally",
			answers: append(
				answersFor("cv", 5),
				answersFor("interview", 1, 1, 1, 1)...,
			),
			// (5 + 1 + 0 + 0) / 4
			wantOverall: 1.5,
			wantAvg:     map[string]float64{"cv": 5, "interview": 1},
			wantCount:   map[string]int{"cv": 1, "interview": 4, "skills": 0},
		},
		{
			name: "out of range scores clamped",
			answers: []Answer{
				{QuestionID: "cv-1", Category: "cv", Score: 9},
				{QuestionID: "cv-2", Category: "cv", Score: -3},
				{QuestionID: "sk-1", Category: "skills", Score: math.NaN()},
			},
			wantAvg:   map[string]float64{"cv": 2.5, "skills": 0},
			wantCount: map[string]int{"cv": 2, "skills": 1},
			// (2.5 + 0 + 0 + 0) / 4 = 0.625
			wantOverall: 0.63,
		},
		{
			name: "infinite scores count as zero",
			answers: []Answer{
				{QuestionID: "cv-1", Category: "cv", Score: math.Inf(1)},
				{QuestionID: "cv-2", Category: "cv", Score: 4},
				{QuestionID: "sk-1", Category: "skills", Score: math.Inf(-1)},
			},
			wantAvg:   map[string]float64{"cv": 2, "skills": 0},
			wantCount: map[string]int{"cv": 2, "skills": 1},
			// (2 + 0 + 0 + 0) / 4
			wantOverall: 0.5,
		},
		{
			name: "unknown categories ignored and reported",
			answers: []Answer{
				{QuestionID: "x-1", Category: "literacy", Score: 5},
				{QuestionID: "x-2", Category: "digital", Score: 5},
				{QuestionID: "x-3", Category: "literacy", Score: 5},
				{QuestionID: "cv-1", Category: "cv", Score: 4},
			},
			wantOverall: 1,
			wantAvg:     map[string]float64{"cv": 4},
			wantCount:   map[string]int{"cv": 1},
			wantUnknown: []string{"digital", "literacy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Aggregate(tt.answers)

			assert.InDelta(t, tt.wantOverall, got.Overall, 1e-9)
			assert.Len(t, got.ByCategory, 4)
			assert.Equal(t, tt.wantUnknown, got.Unknown)

			byKey := map[string]CategoryAverage{}
			for _, c := range got.ByCategory {
				byKey[c.Category] = c
			}
			for k, v := range tt.wantAvg {
				assert.InDelta(t, v, byKey[k].Average, 1e-9, "average for %s", k)
			}
			for k, v := range tt.wantCount {
				assert.Equal(t, v, byKey[k].Answered, "count for %s", k)
			}
		})
	}
}

func TestAggregate_FixedCategoryOrder(t *testing.T) {
	e := newTestEngine(t)

	got := e.Aggregate(append(answersFor("jobsearch", 3), answersFor("cv", 2)...))

	order := make([]string, 0, len(got.ByCategory))
	for _, c := range got.ByCategory {
		order = append(order, c.Category)
	}
	assert.Equal(t, []string{"cv", "interview", "skills", "jobsearch"}, order)
}

func TestClassify(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		overall float64
		code    string
		label   string
	}{
		{overall: 0, code: "L1", label: "Beginner"},
		{overall: -2, code: "L1", label: "Beginner"},
		{overall: 1.99, code: "L1", label: "Beginner"},
		{overall: 2.0, code: "L2", label: "Developing"},
		{overall: 2.99, code: "L2", label: "Developing"},
		{overall: 3.0, code: "L3", label: "Proficient"},
		{overall: 3.2, code: "L3", label: "Proficient"},
		{overall: 4.0, code: "L4", label: "Advanced"},
		{overall: 5, code: "L4", label: "Advanced"},
		{overall: 42, code: "L4", label: "Advanced"},
		{overall: math.NaN(), code: "L1", label: "Beginner"},
	}

	for _, tt := range tests {
		got := e.Classify(tt.overall)
		assert.Equal(t, tt.code, got.Code, "overall %v", tt.overall)
		assert.Equal(t, tt.label, got.Label, "overall %v", tt.overall)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	e := newTestEngine(t)

	prev := 0
	for v := -1.0; v <= 6.0; v += 0.01 {
		rank := LevelRank(e.Classify(v).Code)
		assert.GreaterOrEqual(t, rank, prev, "tier dropped at %v", v)
		assert.NotZero(t, rank)
		prev = rank
	}
}

func TestClassify_EmptyAnswersLowestTier(t *testing.T) {
	e := newTestEngine(t)

	agg := e.Aggregate([]Answer{})
	assert.Zero(t, agg.Overall)
	assert.Equal(t, "L1", e.Classify(agg.Overall).Code)
}

func TestExperienceStage(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		months     int
		stage      Stage
		multiplier float64
	}{
		{months: -5, stage: StageNew, multiplier: 1},
		{months: 0, stage: StageNew, multiplier: 1},
		{months: 11, stage: StageNew, multiplier: 1},
		{months: 12, stage: StageGrowing, multiplier: 1.25},
		{months: 35, stage: StageGrowing, multiplier: 1.25},
		{months: 36, stage: StageSolid, multiplier: 1.5},
		{months: 60, stage: StageSeasoned, multiplier: 2},
		{months: 400, stage: StageSeasoned, multiplier: 2},
	}

	for _, tt := range tests {
		stage := e.StageFor(tt.months)
		assert.Equal(t, tt.stage, stage, "months %d", tt.months)
		assert.Equal(t, tt.multiplier, e.Multiplier(stage))
	}

	assert.Equal(t, 30, TotalMonths([]ExperienceEvidence{
		{Domain: "retail", Months: 18},
		{Domain: "care", Months: 12},
		{Domain: "bad", Months: -40},
	}))
}
