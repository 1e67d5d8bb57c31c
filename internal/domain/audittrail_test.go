package domain

import (
	"testing"
	"time"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenOrdersNewestFirst(t *testing.T) {
	t0 := testNow
	e1 := model.DailyEntry{ID: uuid.New(), StationName: "Lagos", EntryDate: "2024-03-09", AuditTrail: []model.EntryAuditLog{
		{Seq: 1, Timestamp: t0, Action: model.EntryActionSubmitted, UserName: "David"},
		{Seq: 2, Timestamp: t0.Add(2 * time.Hour), Action: model.EntryActionApproved, UserName: "Mark"},
	}}
	e2 := model.DailyEntry{ID: uuid.New(), StationName: "Abuja", EntryDate: "2024-03-10", AuditTrail: []model.EntryAuditLog{
		{Seq: 1, Timestamp: t0.Add(time.Hour), Action: model.EntryActionSubmitted, UserName: "Alice"},
	}}

	feed := Flatten([]model.DailyEntry{e1, e2})
	require.Len(t, feed, 3)
	assert.Equal(t, model.EntryActionApproved, feed[0].Action)
	assert.Equal(t, "Lagos", feed[0].StationName)
	assert.Equal(t, "2024-03-09", feed[0].RecordDate)
	assert.Equal(t, "Abuja", feed[1].StationName)
	assert.Equal(t, "David", feed[2].UserName)
}

func TestFlattenKeepsInputOrderOnTies(t *testing.T) {
	a := model.DailyEntry{ID: uuid.New(), StationName: "A", AuditTrail: []model.EntryAuditLog{{Timestamp: testNow, Details: "a"}}}
	b := model.DailyEntry{ID: uuid.New(), StationName: "B", AuditTrail: []model.EntryAuditLog{{Timestamp: testNow, Details: "b"}}}

	feed := Flatten([]model.DailyEntry{a, b})
	require.Len(t, feed, 2)
	assert.Equal(t, "a", feed[0].Details)
	assert.Equal(t, "b", feed[1].Details)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
}
