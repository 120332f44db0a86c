package readiness

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownGoal = errors.New("UNKNOWN_GOAL")

type GoalProfile struct {
	MustHave   []string `json:"mustHave" yaml:"must_have"`
	NiceToHave []string `json:"niceToHave" yaml:"nice_to_have"`
}

type GoalAction struct {
	Skill      string `json:"skill"`
	Suggestion string `json:"suggestion"`
}

type GoalPlan struct {
	Goal          string       `json:"goal"`
	AlreadyHave   []string     `json:"alreadyHave"`
	GentlyMissing []string     `json:"gentlyMissing"`
	Actions       []GoalAction `json:"actions"`
}

func DefaultGoalProfiles() map[string]GoalProfile {
	return map[string]GoalProfile{
		"customer service advisor": {
			MustHave:   []string{"customer service", "crm", "communication", "complaints"},
			NiceToHave: []string{"ms office", "data entry"},
		},
		"admin assistant": {
			MustHave:   []string{"data entry", "ms office", "records", "filing"},
			NiceToHave: []string{"communication", "scheduling"},
		},
		"warehouse operative": {
			MustHave:   []string{"picking", "packing", "inventory"},
			NiceToHave: []string{"health and safety", "teamwork"},
		},
	}
}

// PlanGoal compares CV keywords with a goal profile. Present must-haves
// go to AlreadyHave; missing must-haves, then missing nice-to-haves, go
// to GentlyMissing with one action each.
func (e *Engine) PlanGoal(goal string, cvKeywords []string, profiles map[string]GoalProfile, lang string) (*GoalPlan, error) {
	key := strings.ToLower(strings.TrimSpace(goal))
	profile, ok := profiles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
	}

	have := make(map[string]struct{}, len(cvKeywords))
	for _, k := range cvKeywords {
		have[Normalize(k)] = struct{}{}
	}
	has := func(item string) bool {
		_, ok := have[Normalize(item)]
		return ok
	}

	plan := &GoalPlan{
		Goal:          goal,
		AlreadyHave:   []string{},
		GentlyMissing: []string{},
		Actions:       []GoalAction{},
	}
	for _, item := range profile.MustHave {
		if has(item) {
			plan.AlreadyHave = append(plan.AlreadyHave, item)
		} else {
			plan.GentlyMissing = append(plan.GentlyMissing, item)
		}
	}
	for _, item := range profile.NiceToHave {
		if !has(item) {
			plan.GentlyMissing = append(plan.GentlyMissing, item)
		}
	}
	for _, item := range plan.GentlyMissing {
		plan.Actions = append(plan.Actions, GoalAction{
			Skill:      item,
			Suggestion: e.text(lang, "goal.action", map[string]string{"item": item}),
		})
	}
	return plan, nil
}
