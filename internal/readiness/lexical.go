package readiness

import (
	"regexp"
	"strings"
	"unicode"
)

// Term tables used by the ranking layer. Terms are matched on word
// boundaries after Normalize, so "pt" does not match "receptionist".
var (
	PartTimeWords  = []string{"part time", "parttime", "pt", "hourly"}
	FullTimeWords  = []string{"full time", "fulltime", "ft", "permanent"}
	WeekendWords   = []string{"weekend", "weekends", "saturday", "sunday"}
	FlexibleWords  = []string{"flexible", "flexi", "casual", "zero hours", "bank staff"}
	MorningWords   = []string{"morning", "mornings", "early shift", "breakfast"}
	AfternoonWords = []string{"afternoon", "afternoons", "day shift", "daytime"}
	EveningWords   = []string{"evening", "evenings", "night", "nights", "late shift"}
	RemoteWords    = []string{"remote", "work from home", "wfh", "home based", "homeworking", "hybrid"}
	InPersonWords  = []string{
		"warehouse", "store", "shop", "retail", "on site", "onsite", "in person",
		"branch", "front of house", "driver", "operative", "kitchen", "cafe",
		"reception", "receptionist", "hospitality", "picker", "packer", "care home",
	}
)

// Boost sizes for AvailabilityBoost, before the overall cap is applied.
const (
	contractBoost   = 0.75
	flexibleBoost   = 0.5
	timeWindowBoost = 0.25
	weekendDayBoost = 0.25
)

var ukPostcode = regexp.MustCompile(`(?i)\b([A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}|GIR ?0AA)\b`)

// LooksLikePostcode reports whether s contains a UK postcode.
func LooksLikePostcode(s string) bool {
	return ukPostcode.MatchString(s)
}

// Normalize lowercases s, turns every non letter or digit into a space and
// collapses runs of spaces.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

func containsPhrase(normText, term string) bool {
	t := Normalize(term)
	if t == "" || normText == "" {
		return false
	}
	return strings.Contains(" "+normText+" ", " "+t+" ")
}

// ContainsAny reports whether any term occurs in text as a whole phrase.
func ContainsAny(text string, terms []string) bool {
	norm := Normalize(text)
	for _, t := range terms {
		if containsPhrase(norm, t) {
			return true
		}
	}
	return false
}

// KeywordHits counts distinct keywords that occur in text.
func KeywordHits(text string, keywords []string) int {
	norm := Normalize(text)
	seen := make(map[string]struct{}, len(keywords))
	hits := 0
	for _, k := range keywords {
		nk := Normalize(k)
		if nk == "" {
			continue
		}
		if _, dup := seen[nk]; dup {
			continue
		}
		seen[nk] = struct{}{}
		if containsPhrase(norm, nk) {
			hits++
		}
	}
	return hits
}

// AvailabilityBoost scores how well a role title fits the stated contract,
// time windows and weekend days. The caller applies the cap.
func AvailabilityBoost(title string, av *Availability) float64 {
	if av == nil {
		return 0
	}
	boost := 0.0
	switch av.Contract {
	case ContractPartTime:
		if ContainsAny(title, PartTimeWords) {
			boost += contractBoost
		}
	case ContractFullTime:
		if ContainsAny(title, FullTimeWords) {
			boost += contractBoost
		}
	case ContractWeekends:
		if ContainsAny(title, WeekendWords) {
			boost += contractBoost
		}
	case ContractAny:
		if ContainsAny(title, FlexibleWords) {
			boost += flexibleBoost
		}
	}

	if av.Times.Morning && ContainsAny(title, MorningWords) {
		boost += timeWindowBoost
	}
	if av.Times.Afternoon && ContainsAny(title, AfternoonWords) {
		boost += timeWindowBoost
	}
	if av.Times.Evening && ContainsAny(title, EveningWords) {
		boost += timeWindowBoost
	}

	if av.Contract != ContractWeekends && av.HasWeekendDay() && ContainsAny(title, WeekendWords) {
		boost += weekendDayBoost
	}
	return boost
}

// ProximityDirection is +1 for in-person titles, -1 for remote titles and 0
// otherwise. It only applies to a postcode location with a short, known
// travel limit.
func ProximityDirection(title, location string, maxTravel, limit int) int {
	if maxTravel <= 0 || maxTravel > limit || !LooksLikePostcode(location) {
		return 0
	}
	if ContainsAny(title, RemoteWords) {
		return -1
	}
	if ContainsAny(title, InPersonWords) {
		return 1
	}
	return 0
}
