package domain

import (
	"fmt"

	"fuelops/internal/model"

	"github.com/google/uuid"
)

// Actor is the signed-in user performing an operation.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Role      string
	StationID *uuid.UUID
}

// ActorFromUser builds an Actor from a stored user.
func ActorFromUser(u model.User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role, StationID: u.StationID}
}

// Capability names an operation gated by role.
type Capability string

const (
	CapSubmitEntry    Capability = "entries.submit"
	CapDecideEntry    Capability = "entries.decide"
	CapManageStations Capability = "stations.manage"
	CapProcure        Capability = "stations.procure"
	CapResolveAlert   Capability = "alerts.resolve"
	CapViewAuditTrail Capability = "audit.read"
	CapViewReports    Capability = "reports.read"
	CapViewDashboard  Capability = "dashboard.read"
)

var capabilityRoles = map[Capability][]string{
	CapSubmitEntry:    {model.RoleStationManager, model.RoleAdmin},
	CapDecideEntry:    {model.RoleAccountant, model.RoleAdmin},
	CapManageStations: {model.RoleAdmin},
	CapProcure:        {model.RoleAdmin},
	CapResolveAlert:   {model.RoleAdmin, model.RoleAccountant},
	CapViewAuditTrail: {model.RoleAdmin},
	CapViewReports:    {model.RoleAdmin, model.RoleCEO, model.RoleAccountant, model.RoleStationManager},
	CapViewDashboard:  {model.RoleAdmin, model.RoleCEO, model.RoleAccountant, model.RoleStationManager},
}

// Can reports whether the actor's role grants c.
func Can(a Actor, c Capability) bool {
	for _, r := range capabilityRoles[c] {
		if r == a.Role {
			return true
		}
	}
	return false
}

// Capabilities lists everything the role grants, for the /me payload.
func Capabilities(role string) []Capability {
	order := []Capability{
		CapSubmitEntry, CapDecideEntry, CapManageStations, CapProcure,
		CapResolveAlert, CapViewAuditTrail, CapViewReports, CapViewDashboard,
	}
	var out []Capability
	for _, c := range order {
		if Can(Actor{Role: role}, c) {
			out = append(out, c)
		}
	}
	return out
}

// StationScope returns the station a station manager is confined to, or nil.
func (a Actor) StationScope() *uuid.UUID {
	if a.Role == model.RoleStationManager {
		if a.StationID == nil {
			nilID := uuid.Nil
			return &nilID
		}
		return a.StationID
	}
	return nil
}

// Authorize checks the capability and, when stationID is set, the station scope.
func Authorize(a Actor, c Capability, stationID *uuid.UUID) error {
	if !Can(a, c) {
		return fmt.Errorf("%w: role %s cannot %s", ErrForbidden, a.Role, c)
	}
	if stationID != nil {
		if scope := a.StationScope(); scope != nil && *scope != *stationID {
			return fmt.Errorf("%w: station is outside your assignment", ErrForbidden)
		}
	}
	return nil
}
