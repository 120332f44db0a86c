// Package jobsearch builds deep links into live job boards for a goal role.
package jobsearch

import (
	"net/url"
	"strconv"
	"strings"

	"rekonet-workers/internal/readiness"
)

const (
	indeedBase = "https://www.indeed.co.uk/jobs"
	googleBase = "https://www.google.com/search"
	maxSkills  = 5
)

var careerSites = []string{"site:workdayjobs.com", "site:greenhouse.io", "site:lever.co"}

type Query struct {
	Goal         string                  `json:"goal"`
	Stage        readiness.Stage         `json:"stage"`
	Place        string                  `json:"place"`
	Keywords     []string                `json:"keywords"`
	Availability *readiness.Availability `json:"availability,omitempty"`
}

type Links struct {
	Indeed  string `json:"indeed"`
	Careers string `json:"careers"`
	Google  string `json:"google"`
}

// BuildLinks returns Indeed, company-careers and Google search URLs for q.
// Parameter order is fixed so the same query always yields the same URLs.
func BuildLinks(q Query) Links {
	title := strings.TrimSpace(q.Goal)
	place := strings.TrimSpace(q.Place)

	positives, negatives := stageTokens(q.Stage)
	syns := roleSynonyms(title)
	skills := topSkills(q.Keywords)
	avail := availabilityTerms(q.Availability)

	quoted := ""
	if title != "" {
		quoted = `"` + title + `"`
	}
	quotedPlace := ""
	if place != "" {
		quotedPlace = `"` + place + `"`
	}

	indeedTerms := join(quoted, syns, skills, positives, negatives, avail)
	params := []string{"q=" + encode(indeedTerms)}
	if place != "" {
		params = append(params, "l="+encode(place))
		params = append(params, "radius="+strconv.Itoa(Radius(place)))
	}
	params = append(params, "sort=date", "fromage=7")
	if jt := indeedJobType(q.Availability); jt != "" {
		params = append(params, "jt="+jt)
	}
	params = append(params, "vjk=", "filter=0", "wfh=0", "start=0")

	careersTerms := join(strings.Join(careerSites, " OR "), []string{quoted, quotedPlace}, skills, avail, negatives)

	googleSyns := syns
	if len(googleSyns) > 2 {
		googleSyns = googleSyns[:2]
	}
	googleTerms := join(quoted, []string{quotedPlace}, googleSyns, skills, avail, negatives, []string{"(job OR jobs)"})

	return Links{
		Indeed:  indeedBase + "?" + strings.Join(params, "&"),
		Careers: googleBase + "?q=" + encode(careersTerms),
		Google:  googleBase + "?q=" + encode(googleTerms),
	}
}

// Radius is 0 miles for a postcode and 10 for a town name.
func Radius(place string) int {
	if readiness.LooksLikePostcode(place) {
		return 0
	}
	return 10
}

func stageTokens(stage readiness.Stage) (positives, negatives []string) {
	switch stage {
	case readiness.StageNew, readiness.StageGrowing:
		return []string{"junior", "trainee", `"entry level"`}, []string{"-senior", "-lead", "-manager"}
	case readiness.StageSolid, readiness.StageSeasoned:
		return []string{"experienced"}, nil
	}
	return nil, nil
}

func roleSynonyms(title string) []string {
	t := strings.ToLower(title)
	var out []string
	if strings.Contains(t, "customer service") {
		out = append(out, "customer support", "customer care", "contact centre", "call centre")
	}
	if strings.Contains(t, "advisor") || strings.Contains(t, "agent") {
		out = append(out, "agent", "advisor")
	}
	return out
}

func topSkills(keywords []string) []string {
	out := make([]string, 0, maxSkills)
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		out = append(out, k)
		if len(out) == maxSkills {
			break
		}
	}
	return out
}

func availabilityTerms(av *readiness.Availability) []string {
	if av == nil {
		return nil
	}
	var terms []string
	switch av.Contract {
	case readiness.ContractPartTime:
		terms = append(terms, "part time")
	case readiness.ContractWeekends:
		terms = append(terms, "weekend")
	case readiness.ContractAny:
		terms = append(terms, "flexible")
	}
	if av.Times.Evening {
		terms = append(terms, "evening")
	}
	if av.Times.Morning {
		terms = append(terms, "morning")
	}
	if av.Times.Afternoon {
		terms = append(terms, "afternoon")
	}
	return terms
}

func indeedJobType(av *readiness.Availability) string {
	if av != nil && av.Contract == readiness.ContractPartTime {
		return "parttime"
	}
	return ""
}

func join(first string, groups ...[]string) string {
	parts := make([]string, 0, 16)
	if first != "" {
		parts = append(parts, first)
	}
	for _, g := range groups {
		for _, p := range g {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}
	return strings.Join(parts, " ")
}

// encode percent-encodes a query value with %20 for spaces.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
