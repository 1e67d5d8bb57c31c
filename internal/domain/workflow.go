package domain

import (
	"fmt"
	"strings"
	"time"

	"fuelops/internal/model"
)

// DefaultDecisionDetails is recorded when the approver leaves no comment.
const DefaultDecisionDetails = "No comments provided"

// transitions maps status -> verdict -> next status. APPROVED and REJECTED are terminal.
var transitions = map[string]map[string]string{
	model.EntryPending: {
		model.EntryApproved: model.EntryApproved,
		model.EntryRejected: model.EntryRejected,
	},
}

var decisionActions = map[string]string{
	model.EntryApproved: model.EntryActionApproved,
	model.EntryRejected: model.EntryActionRejected,
}

// IsTerminal reports whether no further decision is possible from status.
func IsTerminal(status string) bool {
	_, ok := transitions[status]
	return !ok
}

// IsValidVerdict reports whether v is APPROVED or REJECTED.
func IsValidVerdict(v string) bool {
	_, ok := decisionActions[v]
	return ok
}

// Decision is the outcome of a successful Decide.
type Decision struct {
	From        string
	To          string
	Log         model.EntryAuditLog
	DeductStock bool
}

// Decide moves a PENDING entry to verdict and appends exactly one trail entry.
// The entry is left untouched when an error is returned.
func Decide(entry *model.DailyEntry, verdict string, actor Actor, comments string, now time.Time) (Decision, error) {
	action, ok := decisionActions[verdict]
	if !ok {
		return Decision{}, fmt.Errorf("%w: verdict must be APPROVED or REJECTED", ErrValidation)
	}
	next, ok := transitions[entry.Status][verdict]
	if !ok {
		return Decision{}, fmt.Errorf("%w: entry is already %s", ErrInvalidState, entry.Status)
	}

	comments = strings.TrimSpace(comments)
	details := comments
	if details == "" {
		details = DefaultDecisionDetails
	}

	log := model.EntryAuditLog{
		EntryID:   entry.ID,
		Seq:       nextSeq(entry.AuditTrail),
		Timestamp: now,
		UserID:    actor.ID,
		UserName:  actor.Name,
		Action:    action,
		Details:   details,
	}

	from := entry.Status
	decidedAt := now
	decidedBy := actor.ID
	entry.Status = next
	entry.ApproverComments = comments
	entry.DecidedAt = &decidedAt
	entry.DecidedBy = &decidedBy
	entry.AuditTrail = append(entry.AuditTrail, log)

	return Decision{
		From:        from,
		To:          next,
		Log:         log,
		DeductStock: next == model.EntryApproved,
	}, nil
}

func nextSeq(trail []model.EntryAuditLog) int {
	max := 0
	for _, l := range trail {
		if l.Seq > max {
			max = l.Seq
		}
	}
	return max + 1
}
