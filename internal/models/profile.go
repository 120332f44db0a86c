// internal/models/profile.go
package models

import (
	"time"

	"rekonet-workers/internal/readiness"
)

type Days struct {
	Mon bool `json:"mon"`
	Tue bool `json:"tue"`
	Wed bool `json:"wed"`
	Thu bool `json:"thu"`
	Fri bool `json:"fri"`
	Sat bool `json:"sat"`
	Sun bool `json:"sun"`
}

// List returns the selected days in week order.
func (d Days) List() []string {
	var out []string
	for _, day := range []struct {
		name string
		on   bool
	}{
		{"mon", d.Mon}, {"tue", d.Tue}, {"wed", d.Wed}, {"thu", d.Thu},
		{"fri", d.Fri}, {"sat", d.Sat}, {"sun", d.Sun},
	} {
		if day.on {
			out = append(out, day.name)
		}
	}
	return out
}

type Times struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
}

type Availability struct {
	AssessmentID  string    `json:"assessmentId" db:"assessment_id" validate:"required"`
	Days          Days      `json:"days"`
	Times         Times     `json:"times"`
	Contract      string    `json:"contract" validate:"required,oneof=full_time part_time weekends any"`
	TravelMinutes int       `json:"travelMinutes" validate:"gte=0,lte=240"`
	EarliestStart string    `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Engine converts the stored form into the matcher's availability.
func (a *Availability) Engine() *readiness.Availability {
	if a == nil {
		return nil
	}
	return &readiness.Availability{
		Days: a.Days.List(),
		Times: readiness.TimeWindows{
			Morning:   a.Times.Morning,
			Afternoon: a.Times.Afternoon,
			Evening:   a.Times.Evening,
		},
		Contract:      readiness.Contract(a.Contract),
		MaxTravelMins: a.TravelMinutes,
		EarliestStart: a.EarliestStart,
	}
}

// CVSummary is the parsed view of a user's latest CV upload.
type CVSummary struct {
	HasCV        bool               `json:"hasCV"`
	Keywords     []string           `json:"topKeywords"`
	SectorScores map[string]float64 `json:"-"`
	TopSectors   []string           `json:"topSectors"`
	Score        float64            `json:"score"`
	UploadedAt   time.Time          `json:"uploadedAt,omitempty"`
}

type Certificate struct {
	Provider string `json:"provider" db:"provider"`
	Verified bool   `json:"verified" db:"verified"`
}
