package domain

import (
	"sort"
	"time"

	"fuelops/internal/model"

	"github.com/google/uuid"
)

// TrailRecord is one entry audit log annotated with its record's context.
type TrailRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	StationName string    `json:"station_name"`
	RecordDate  string    `json:"record_date"`
	EntryID     uuid.UUID `json:"entry_id"`
}

// Flatten projects every entry's trail into one feed, newest first.
// Ties keep input order.
func Flatten(entries []model.DailyEntry) []TrailRecord {
	var out []TrailRecord
	for _, e := range entries {
		for _, l := range e.AuditTrail {
			out = append(out, TrailRecord{
				Timestamp:   l.Timestamp,
				UserID:      l.UserID,
				UserName:    l.UserName,
				Action:      l.Action,
				Details:     l.Details,
				StationName: e.StationName,
				RecordDate:  e.EntryDate,
				EntryID:     e.ID,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
