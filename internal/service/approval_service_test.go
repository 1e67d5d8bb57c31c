package service

import (
	"context"
	"testing"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveBalancedEntryDeductsStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entry, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 1000))
	require.NoError(t, err)
	assert.Equal(t, model.EntryPending, entry.Status)
	assert.True(t, entry.ReconciliationDelta.IsZero())
	assertDecimal(t, "45000", h.lineStock(t, "s1", model.FuelPMS), "submission must not touch stock")

	approved, err := h.approval.Approve(ctx, accountant, entry.ID.String(), "Checked against bank slip")
	require.NoError(t, err)
	assert.Equal(t, model.EntryApproved, approved.Status)
	assert.Equal(t, "Checked against bank slip", approved.ApproverComments)
	require.Len(t, approved.AuditTrail, 2)
	assert.Equal(t, model.EntryActionApproved, approved.AuditTrail[1].Action)
	assert.Equal(t, accountant.Name, approved.AuditTrail[1].UserName)

	assertDecimal(t, "44000", h.lineStock(t, "s1", model.FuelPMS))

	movements, total, err := h.stock.ListMovements(ctx, seed.StationID("s1"), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, model.MovementOut, movements[0].Direction)
	assert.Equal(t, entry.ID, movements[0].ReferenceID)
	assertDecimal(t, "1000", movements[0].Applied)

	stored, err := h.entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryApproved, stored.Status)
	require.Len(t, stored.AuditTrail, 2)
	assert.Equal(t, 2, stored.AuditTrail[1].Seq)

	assert.Contains(t, h.events.names(), EventEntryDecided)
	assert.Contains(t, h.events.names(), EventStockChanged)
	assert.Positive(t, h.syncs.count())
}

func TestRejectLeavesStockUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entry, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 500))
	require.NoError(t, err)

	rejected, err := h.approval.Reject(ctx, accountant, entry.ID.String(), "  ")
	require.NoError(t, err)
	assert.Equal(t, model.EntryRejected, rejected.Status)
	require.Len(t, rejected.AuditTrail, 2)
	assert.Equal(t, domain.DefaultDecisionDetails, rejected.AuditTrail[1].Details)
	assertDecimal(t, "45000", h.lineStock(t, "s1", model.FuelPMS))

	_, total, err := h.stock.ListMovements(ctx, seed.StationID("s1"), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDecideTwiceFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entry, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 1000))
	require.NoError(t, err)
	_, err = h.approval.Approve(ctx, accountant, entry.ID.String(), "")
	require.NoError(t, err)

	_, err = h.approval.Approve(ctx, admin, entry.ID.String(), "again")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = h.approval.Reject(ctx, admin, entry.ID.String(), "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assertDecimal(t, "44000", h.lineStock(t, "s1", model.FuelPMS), "stock must be deducted exactly once")
	stored, err := h.entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, stored.AuditTrail, 2)
}

func TestCompareAndSetRejectsStaleStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entry, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 100))
	require.NoError(t, err)

	// A concurrent decision already moved the row on.
	stale := *entry
	stale.Status = model.EntryApproved
	require.NoError(t, h.entries.CompareAndSetStatus(ctx, &stale, model.EntryPending))

	stale.Status = model.EntryRejected
	err = h.entries.CompareAndSetStatus(ctx, &stale, model.EntryPending)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApproveClampsStockAtZero(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Port Harcourt holds 8000 L.
	entry, err := h.entry.Submit(ctx, admin, balancedRequest("s3", 9000))
	require.NoError(t, err)

	_, err = h.approval.Approve(ctx, accountant, entry.ID.String(), "")
	require.NoError(t, err)
	assert.True(t, h.lineStock(t, "s3", model.FuelPMS).IsZero())

	discrepancies := h.alertsOfType(t, model.AlertStockDiscrepancy)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, seed.StationID("s3"), discrepancies[0].StationID)
	assert.Equal(t, "1000.00", discrepancies[0].Observed)

	movements, _, err := h.stock.ListMovements(ctx, seed.StationID("s3"), 1, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assertDecimal(t, "9000", movements[0].Requested)
	assertDecimal(t, "8000", movements[0].Applied)
}

func TestApproveRequiresDecideCapability(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entry, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 100))
	require.NoError(t, err)

	for _, actor := range []domain.Actor{lagosMgr, ceo} {
		_, err := h.approval.Approve(ctx, actor, entry.ID.String(), "")
		assert.ErrorIs(t, err, domain.ErrForbidden, actor.Role)
	}
	stored, err := h.entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryPending, stored.Status)
}

func TestDecideUnknownEntry(t *testing.T) {
	h := newHarness(t)
	_, err := h.approval.Approve(context.Background(), accountant, seed.UserID("nope").String(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.approval.Approve(context.Background(), accountant, "not-a-uuid", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApproveFailsWhenFuelLineMissing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entry, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 100))
	require.NoError(t, err)

	st, err := h.stations.FindByID(ctx, seed.StationID("s1"))
	require.NoError(t, err)
	require.NoError(t, h.stations.DeleteLine(ctx, st.Line(model.FuelPMS).ID))

	_, err = h.approval.Approve(ctx, accountant, entry.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := h.entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryPending, stored.Status, "failed approval must roll back")
	assert.Len(t, stored.AuditTrail, 1)
}

func TestPendingCountAfterDecisions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 100))
	require.NoError(t, err)
	_, err = h.entry.Submit(ctx, abujaMgr, balancedRequest("s2", 100))
	require.NoError(t, err)
	_, err = h.approval.Approve(ctx, accountant, a.ID.String(), "")
	require.NoError(t, err)

	n, err := h.entries.CountByStatus(ctx, model.EntryPending, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	pending, total, err := h.entry.List(ctx, accountant, EntryFilter{Status: model.EntryPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, seed.StationID("s2"), pending[0].StationID)

}

func TestApprovalDrivesLowStockThenProcurementCaps(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Abuja holds 12000 of 50000 with a 10000 threshold.
	entry, err := h.entry.Submit(ctx, abujaMgr, balancedRequest("s2", 5000))
	require.NoError(t, err)
	_, err = h.approval.Approve(ctx, accountant, entry.ID.String(), "")
	require.NoError(t, err)
	assertDecimal(t, "7000", h.lineStock(t, "s2", model.FuelPMS))

	var abujaLow int
	for _, a := range h.alertsOfType(t, model.AlertLowStock) {
		if a.StationID == seed.StationID("s2") {
			abujaLow++
			assert.Equal(t, model.FuelPMS, a.FuelType)
		}
	}
	assert.Equal(t, 1, abujaLow)

	res, err := h.inventory.Procure(ctx, admin, seed.StationID("s2").String(), ProcureRequest{
		FuelType: model.FuelPMS,
		Quantity: dec("45000"),
	})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assertDecimal(t, "50000", h.lineStock(t, "s2", model.FuelPMS))
	assertDecimal(t, "2000", res.Purchase.Overflow)
}
