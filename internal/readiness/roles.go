package readiness

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

type Contract string

const (
	ContractFullTime Contract = "full_time"
	ContractPartTime Contract = "part_time"
	ContractWeekends Contract = "weekends"
	ContractAny      Contract = "any"
)

type TimeWindows struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
}

type Availability struct {
	Days          []string    `json:"days"`
	Times         TimeWindows `json:"times"`
	Contract      Contract    `json:"contract"`
	MaxTravelMins int         `json:"maxTravelMins"`
	EarliestStart string      `json:"earliestStart,omitempty"`
}

func (a *Availability) HasWeekendDay() bool {
	for _, d := range a.Days {
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "sat", "saturday", "sun", "sunday":
			return true
		}
	}
	return false
}

type RoleProfile struct {
	Title                  string   `json:"title" yaml:"title"`
	MinOverallLevel        string   `json:"minOverallLevel" yaml:"min_overall_level"`
	MinInterviewScore      *float64 `json:"minInterviewScore,omitempty" yaml:"min_interview_score,omitempty"`
	MustHaveKeywords       []string `json:"mustHaveKeywords,omitempty" yaml:"must_have_keywords,omitempty"`
	RequiresCertificate    bool     `json:"requiresCertificate,omitempty" yaml:"requires_certificate,omitempty"`
	PreferredCertProviders []string `json:"preferredCertProviders,omitempty" yaml:"preferred_cert_providers,omitempty"`
}

type GapType string

const (
	GapLevel       GapType = "level"
	GapInterview   GapType = "interview"
	GapKeywords    GapType = "keywords"
	GapCertificate GapType = "certificate"
)

type Gap struct {
	Type GapType  `json:"type"`
	Key  []string `json:"key"`
	Why  string   `json:"why"`
}

type Variant string

const (
	VariantReady  Variant = "ready"
	VariantBridge Variant = "bridge"
)

type RoleSuggestion struct {
	Title     string  `json:"title"`
	Variant   Variant `json:"variant"`
	Why       string  `json:"why"`
	Gaps      []Gap   `json:"gaps"`
	Score     int     `json:"score"`
	RankScore float64 `json:"rankScore"`
}

type RoleSuggestions struct {
	ReadyNow    []RoleSuggestion `json:"readyNow"`
	BridgeRoles []RoleSuggestion `json:"bridgeRoles"`
}

// MatchInput carries the user's side of role matching. Only LevelCode is
// needed; every other field switches on its own ranking term.
type MatchInput struct {
	LevelCode            string
	InterviewPct         float64
	CertificateProviders []string
	CVKeywords           []string
	GoalTitle            string
	Availability         *Availability
	Location             string
	Stage                Stage
	Language             string
}

// MatchRoles evaluates every profile, drops those with too many gaps and
// ranks the ready and bridge buckets independently.
func (e *Engine) MatchRoles(catalog []RoleProfile, in MatchInput) RoleSuggestions {
	out := RoleSuggestions{
		ReadyNow:    []RoleSuggestion{},
		BridgeRoles: []RoleSuggestion{},
	}
	interviewPct := clampPercent(in.InterviewPct)

	for _, p := range catalog {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		gaps := e.evaluate(p, in, interviewPct)
		switch {
		case len(gaps) == 0:
			s := RoleSuggestion{
				Title:   p.Title,
				Variant: VariantReady,
				Why:     e.text(in.Language, "roles.ready.why", nil),
				Gaps:    []Gap{},
				Score:   e.settings.ReadyMatchScore,
			}
			s.RankScore = e.rank(s, in)
			out.ReadyNow = append(out.ReadyNow, s)
		case len(gaps) <= e.settings.MaxBridgeGaps:
			s := RoleSuggestion{
				Title:   p.Title,
				Variant: VariantBridge,
				Why: e.text(in.Language, "roles.bridge.why", map[string]string{
					"count": strconv.Itoa(len(gaps)),
				}),
				Gaps:  gaps,
				Score: e.settings.ReadyMatchScore - e.settings.BridgeGapPenalty*len(gaps),
			}
			s.RankScore = e.rank(s, in)
			out.BridgeRoles = append(out.BridgeRoles, s)
		}
	}

	byRank := func(list []RoleSuggestion) func(i, j int) bool {
		return func(i, j int) bool { return list[i].RankScore > list[j].RankScore }
	}
	sort.SliceStable(out.ReadyNow, byRank(out.ReadyNow))
	sort.SliceStable(out.BridgeRoles, byRank(out.BridgeRoles))
	return out
}

func (e *Engine) evaluate(p RoleProfile, in MatchInput, interviewPct float64) []Gap {
	lang := in.Language
	var gaps []Gap

	if LevelRank(in.LevelCode) < LevelRank(p.MinOverallLevel) {
		gaps = append(gaps, Gap{
			Type: GapLevel,
			Key:  []string{p.MinOverallLevel},
			Why:  e.text(lang, "gap.level.why", map[string]string{"level": p.MinOverallLevel}),
		})
	}

	if p.MinInterviewScore != nil {
		required := e.RequiredInterviewPct(*p.MinInterviewScore)
		if interviewPct < float64(required) {
			pct := strconv.Itoa(required)
			gaps = append(gaps, Gap{
				Type: GapInterview,
				Key:  []string{pct},
				Why:  e.text(lang, "gap.interview.why", map[string]string{"percent": pct}),
			})
		}
	}

	if missing := e.keywordGap(p.MustHaveKeywords, in.CVKeywords); len(missing) > 0 {
		gaps = append(gaps, Gap{
			Type: GapKeywords,
			Key:  missing,
			Why:  e.text(lang, "gap.keywords.why", map[string]string{"keywords": strings.Join(missing, ", ")}),
		})
	}

	if p.RequiresCertificate && !providersIntersect(in.CertificateProviders, p.PreferredCertProviders) {
		key := append([]string{}, p.PreferredCertProviders...)
		gaps = append(gaps, Gap{
			Type: GapCertificate,
			Key:  key,
			Why:  e.text(lang, "gap.certificate.why", map[string]string{"providers": strings.Join(key, ", ")}),
		})
	}
	return gaps
}

// RequiredInterviewPct converts a raw interview minimum to a percentage of
// the maximum interview score.
func (e *Engine) RequiredInterviewPct(minScore float64) int {
	return int(math.Round(minScore / e.settings.MaxInterviewScore * 100))
}

func (e *Engine) keywordGap(mustHave, cvKeywords []string) []string {
	var wanted []string
	for _, k := range mustHave {
		if strings.TrimSpace(k) != "" {
			wanted = append(wanted, k)
		}
	}
	if len(wanted) == 0 {
		return nil
	}
	if e.settings.KeywordGapMode == KeywordGapAlways {
		return wanted
	}

	have := make(map[string]struct{}, len(cvKeywords))
	for _, k := range cvKeywords {
		have[Normalize(k)] = struct{}{}
	}
	var missing []string
	for _, k := range wanted {
		if _, ok := have[Normalize(k)]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// providersIntersect compares case-insensitively. When a profile names no
// preferred providers, any verified certificate satisfies it.
func providersIntersect(user, preferred []string) bool {
	if len(preferred) == 0 {
		for _, u := range user {
			if strings.TrimSpace(u) != "" {
				return true
			}
		}
		return false
	}
	want := make(map[string]struct{}, len(preferred))
	for _, p := range preferred {
		want[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	for _, u := range user {
		if _, ok := want[strings.ToLower(strings.TrimSpace(u))]; ok {
			return true
		}
	}
	return false
}
