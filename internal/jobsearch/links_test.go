package jobsearch

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/readiness"
)

func queryOf(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestBuildLinks_Indeed(t *testing.T) {
	links := BuildLinks(Query{
		Goal:     "Customer Service Advisor",
		Stage:    readiness.StageNew,
		Place:    "M1 1AE",
		Keywords: []string{"crm", "complaints", "", "excel", "tills", "stock", "cash handling"},
		Availability: &readiness.Availability{
			Contract: readiness.ContractPartTime,
			Times:    readiness.TimeWindows{Evening: true},
		},
	})

	q := queryOf(t, links.Indeed)
	assert.Equal(t,
		`"Customer Service Advisor" customer support customer care contact centre call centre agent advisor `+
			`crm complaints excel tills stock junior trainee "entry level" -senior -lead -manager part time evening`,
		q.Get("q"))
	assert.Equal(t, "M1 1AE", q.Get("l"))
	assert.Equal(t, "0", q.Get("radius"))
	assert.Equal(t, "parttime", q.Get("jt"))
	assert.Equal(t, "date", q.Get("sort"))
	assert.Equal(t, "7", q.Get("fromage"))
	assert.Contains(t, links.Indeed, "%20", "spaces encoded as %20")
	assert.NotContains(t, links.Indeed, "+")
}

func TestBuildLinks_TownAndExperienced(t *testing.T) {
	links := BuildLinks(Query{
		Goal:  "Warehouse Operative",
		Stage: readiness.StageSeasoned,
		Place: "Leeds",
	})

	q := queryOf(t, links.Indeed)
	assert.Equal(t, `"Warehouse Operative" experienced`, q.Get("q"))
	assert.Equal(t, "10", q.Get("radius"))
	assert.Empty(t, q.Get("jt"))

	g := queryOf(t, links.Google).Get("q")
	assert.Equal(t, `"Warehouse Operative" "Leeds" (job OR jobs)`, g)
}

func TestBuildLinks_Careers(t *testing.T) {
	links := BuildLinks(Query{
		Goal:         "Admin Assistant",
		Stage:        readiness.StageGrowing,
		Place:        "Bristol",
		Keywords:     []string{"data entry"},
		Availability: &readiness.Availability{Contract: readiness.ContractAny},
	})

	c := queryOf(t, links.Careers).Get("q")
	assert.Equal(t,
		`site:workdayjobs.com OR site:greenhouse.io OR site:lever.co "Admin Assistant" "Bristol" data entry flexible -senior -lead -manager`,
		c)
}

func TestBuildLinks_GoogleLimitsSynonyms(t *testing.T) {
	links := BuildLinks(Query{Goal: "Customer Service Agent"})

	g := queryOf(t, links.Google).Get("q")
	assert.Equal(t, `"Customer Service Agent" customer support customer care (job OR jobs)`, g)
}

func TestBuildLinks_EmptyQuery(t *testing.T) {
	links := BuildLinks(Query{})

	q := queryOf(t, links.Indeed)
	assert.Equal(t, "", q.Get("q"))
	assert.False(t, q.Has("l"))
	assert.False(t, q.Has("radius"))
	assert.Equal(t, "(job OR jobs)", queryOf(t, links.Google).Get("q"))
}

func TestBuildLinks_Deterministic(t *testing.T) {
	q := Query{
		Goal:         "Retail Assistant",
		Stage:        readiness.StageSolid,
		Place:        "SW1A 1AA",
		Keywords:     []string{"tills"},
		Availability: &readiness.Availability{Contract: readiness.ContractWeekends, Times: readiness.TimeWindows{Morning: true, Afternoon: true}},
	}
	first := BuildLinks(q)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildLinks(q))
	}
	assert.Contains(t, queryOf(t, first.Indeed).Get("q"), "weekend morning afternoon")
}

func TestRadius(t *testing.T) {
	assert.Equal(t, 0, Radius("EC1A 1BB"))
	assert.Equal(t, 10, Radius("Manchester"))
}
