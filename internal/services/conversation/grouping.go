package conversation

import (
	"sort"
	"time"

	"github.com/iyunix/go-chatfront/internal/domain"
)

const dayKeyLayout = "2006-01-02"

// DayKey is the calendar day of t in loc, as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayKeyLayout)
}

// GroupByDay partitions messages into calendar-day buckets in loc (UTC when
// nil). Buckets come back in ascending key order; messages keep their input
// order inside a bucket. The input slice is not modified.
func GroupByDay(messages []domain.Message, loc *time.Location) []domain.DayGroup {
	if loc == nil {
		loc = time.UTC
	}

	index := make(map[string]int)
	var groups []domain.DayGroup
	for _, m := range messages {
		key := DayKey(m.CreatedAt, loc)
		i, ok := index[key]
		if !ok {
			day, _ := time.ParseInLocation(dayKeyLayout, key, loc)
			groups = append(groups, domain.DayGroup{Key: key, Date: day})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Key < groups[b].Key
	})
	return groups
}
