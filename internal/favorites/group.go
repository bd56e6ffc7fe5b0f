package favorites

import (
	"time"

	"github.com/thinkscotty/ideagen/internal/models"
)

const UnknownDate = "Unknown Date"

type DateGroup struct {
	Date  string        `json:"date"`
	Ideas []models.Idea `json:"ideas"`
}

// GroupByDate buckets favorites by the calendar day (in loc) they were saved,
// most recent day first. Order within a day follows the input order.
// Favorites without a usable timestamp go last under UnknownDate.
func GroupByDate(favs []models.Idea, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.UTC
	}

	var groups []DateGroup
	pos := make(map[string]int)
	var days []time.Time
	var unknown []models.Idea

	for _, f := range favs {
		t := f.FavoritedAt()
		if t.IsZero() {
			unknown = append(unknown, f)
			continue
		}
		local := t.In(loc)
		label := local.Format("2006-01-02")
		i, ok := pos[label]
		if !ok {
			i = len(groups)
			pos[label] = i
			groups = append(groups, DateGroup{Date: label})
			days = append(days, time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc))
		}
		groups[i].Ideas = append(groups[i].Ideas, f)
	}

	// Insertion sort keeps this stable and the group count is small.
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && days[j].After(days[j-1]); j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
			days[j], days[j-1] = days[j-1], days[j]
		}
	}

	if len(unknown) > 0 {
		groups = append(groups, DateGroup{Date: UnknownDate, Ideas: unknown})
	}
	return groups
}
