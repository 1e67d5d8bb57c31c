package domain

import (
	"testing"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role string
		cap  Capability
		want bool
	}{
		{model.RoleStationManager, CapSubmitEntry, true},
		{model.RoleAdmin, CapSubmitEntry, true},
		{model.RoleAccountant, CapSubmitEntry, false},
		{model.RoleCEO, CapSubmitEntry, false},
		{model.RoleAccountant, CapDecideEntry, true},
		{model.RoleStationManager, CapDecideEntry, false},
		{model.RoleCEO, CapDecideEntry, false},
		{model.RoleAdmin, CapProcure, true},
		{model.RoleAccountant, CapProcure, false},
		{model.RoleAdmin, CapViewAuditTrail, true},
		{model.RoleCEO, CapViewAuditTrail, false},
		{model.RoleCEO, CapViewReports, true},
		{"GUEST", CapViewReports, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, Can(Actor{Role: tt.role}, tt.cap))
		})
	}
}

func TestAuthorizeStationScope(t *testing.T) {
	own := uuid.New()
	other := uuid.New()
	mgr := Actor{Role: model.RoleStationManager, StationID: &own}

	assert.NoError(t, Authorize(mgr, CapSubmitEntry, &own))
	assert.ErrorIs(t, Authorize(mgr, CapSubmitEntry, &other), ErrForbidden)

	admin := Actor{Role: model.RoleAdmin}
	assert.NoError(t, Authorize(admin, CapSubmitEntry, &other))

	unassigned := Actor{Role: model.RoleStationManager}
	assert.ErrorIs(t, Authorize(unassigned, CapSubmitEntry, &own), ErrForbidden)
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, []Capability{CapViewReports, CapViewDashboard}, Capabilities(model.RoleCEO))
	assert.Contains(t, Capabilities(model.RoleAdmin), CapManageStations)
}
