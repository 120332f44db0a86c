package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanGoal(t *testing.T) {
	e := newTestEngine(t)

	plan, err := e.PlanGoal("Customer Service Advisor", []string{"Customer-Service", "CRM", "data entry"}, DefaultGoalProfiles(), "es")
	require.NoError(t, err)

	assert.Equal(t, "Customer Service Advisor", plan.Goal)
	assert.Equal(t, []string{"customer service", "crm"}, plan.AlreadyHave)
	assert.Equal(t, []string{"communication", "complaints", "ms office"}, plan.GentlyMissing)
	require.Len(t, plan.Actions, 3)
	assert.Equal(t, GoalAction{Skill: "communication", Suggestion: "es:goal.action|item=communication"}, plan.Actions[0])
}

func TestPlanGoal_NothingMissing(t *testing.T) {
	e := newTestEngine(t)

	plan, err := e.PlanGoal("warehouse operative", []string{
		"picking", "packing", "inventory", "health and safety", "teamwork",
	}, DefaultGoalProfiles(), "en")
	require.NoError(t, err)

	assert.Len(t, plan.AlreadyHave, 3)
	assert.NotNil(t, plan.GentlyMissing)
	assert.Empty(t, plan.GentlyMissing)
	assert.Empty(t, plan.Actions)
}

func TestPlanGoal_UnknownGoal(t *testing.T) {
	e := newTestEngine(t)

	plan, err := e.PlanGoal("astronaut", nil, DefaultGoalProfiles(), "en")
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrUnknownGoal)
}
