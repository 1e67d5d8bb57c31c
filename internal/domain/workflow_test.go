package domain

import (
	"testing"

	"fuelops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingEntry(t *testing.T) *model.DailyEntry {
	t.Helper()
	s := testStation("45000", "60000", "10000")
	e, err := NewDailyEntry(s, EntryInput{
		FuelType:     model.FuelPMS,
		QuantitySold: d("100"),
		Payments:     model.PaymentBreakdown{Cash: d("65000")},
	}, managerOf(s), testNow, DefaultMinorUnits)
	require.NoError(t, err)
	return e
}

func TestDecideApprove(t *testing.T) {
	e := pendingEntry(t)
	acc := accountant()

	dec, err := Decide(e, model.EntryApproved, acc, "  Verified against bank statement ", testNow)
	require.NoError(t, err)

	assert.Equal(t, model.EntryPending, dec.From)
	assert.Equal(t, model.EntryApproved, dec.To)
	assert.True(t, dec.DeductStock)
	assert.Equal(t, model.EntryApproved, e.Status)
	assert.Equal(t, "Verified against bank statement", e.ApproverComments)
	require.Len(t, e.AuditTrail, 2)
	assert.Equal(t, model.EntryActionApproved, e.AuditTrail[1].Action)
	assert.Equal(t, 2, e.AuditTrail[1].Seq)
	assert.Equal(t, acc.ID, e.AuditTrail[1].UserID)
	require.NotNil(t, e.DecidedBy)
	assert.Equal(t, acc.ID, *e.DecidedBy)
}

func TestDecideRejectWithoutComments(t *testing.T) {
	e := pendingEntry(t)

	dec, err := Decide(e, model.EntryRejected, accountant(), "", testNow)
	require.NoError(t, err)

	assert.False(t, dec.DeductStock)
	assert.Equal(t, model.EntryRejected, e.Status)
	assert.Equal(t, DefaultDecisionDetails, e.AuditTrail[1].Details)
}

func TestDecideTerminalStatesAreFinal(t *testing.T) {
	for _, first := range []string{model.EntryApproved, model.EntryRejected} {
		for _, second := range []string{model.EntryApproved, model.EntryRejected} {
			t.Run(first+"->"+second, func(t *testing.T) {
				e := pendingEntry(t)
				_, err := Decide(e, first, accountant(), "", testNow)
				require.NoError(t, err)

				_, err = Decide(e, second, accountant(), "again", testNow)
				assert.ErrorIs(t, err, ErrInvalidState)
				assert.Equal(t, first, e.Status)
				assert.Len(t, e.AuditTrail, 2)
			})
		}
	}
}

func TestDecideRejectsUnknownVerdict(t *testing.T) {
	e := pendingEntry(t)
	_, err := Decide(e, model.EntryPending, accountant(), "", testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, model.EntryPending, e.Status)
	assert.Len(t, e.AuditTrail, 1)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(model.EntryPending))
	assert.True(t, IsTerminal(model.EntryApproved))
	assert.True(t, IsTerminal(model.EntryRejected))
}
