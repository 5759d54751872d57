package domain

import "time"

// DayGroup is a derived bucket of messages sharing one calendar day.
type DayGroup struct {
	Key      string // YYYY-MM-DD
	Date     time.Time
	Messages []Message
}

// Label is the separator text rendered above a group.
func (g DayGroup) Label() string {
	return g.Date.Format("Mon, Jan 2 2006")
}
