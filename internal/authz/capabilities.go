// Package authz holds the declarative role/capability table shared
// by the API authorization middleware and the dashboard navigation
// endpoint. Handlers never branch on role names; they declare the
// capability a route needs and this table decides.
package authz

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/visitor-pass-service/internal/model"
)

// Capability names a single permitted action group.
type Capability string

const (
	CapPassesRead        Capability = "passes:read"
	CapPassesWrite       Capability = "passes:write"
	CapPassesDelete      Capability = "passes:delete"
	CapPassesCheckin     Capability = "passes:checkin"
	CapLiveView          Capability = "live:view"
	CapVisitorsRead      Capability = "visitors:read"
	CapVisitorsWrite     Capability = "visitors:write"
	CapHostsRead         Capability = "hosts:read"
	CapHostsWrite        Capability = "hosts:write"
	CapAppointmentsRead  Capability = "appointments:read"
	CapAppointmentsWrite Capability = "appointments:write"
)

// table maps each role to its capability set. Order within a slice
// is the order reported to the dashboard.
var table = map[string][]Capability{
	model.RoleAdmin: {
		CapPassesRead, CapPassesWrite, CapPassesDelete, CapPassesCheckin,
		CapLiveView,
		CapVisitorsRead, CapVisitorsWrite,
		CapHostsRead, CapHostsWrite,
		CapAppointmentsRead, CapAppointmentsWrite,
	},
	model.RoleEmployee: {
		CapPassesRead, CapPassesWrite,
		CapLiveView,
		CapVisitorsRead, CapVisitorsWrite,
		CapHostsRead, CapHostsWrite,
		CapAppointmentsRead, CapAppointmentsWrite,
	},
	model.RoleSecurity: {
		CapPassesRead, CapPassesCheckin,
		CapLiveView,
		CapVisitorsRead,
	},
}

// Allowed reports whether the role grants the capability. Unknown
// roles grant nothing.
func Allowed(role string, cap Capability) bool {
	for _, c := range table[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// Capabilities returns the capability set for a role. The returned
// slice is a copy; callers may not mutate the table through it.
func Capabilities(role string) []Capability {
	caps := table[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// Roles lists every role known to the table.
func Roles() []string {
	return []string{model.RoleAdmin, model.RoleEmployee, model.RoleSecurity}
}

// RequireCapability returns middleware that rejects requests whose
// authenticated role does not grant the capability. It assumes
// JWTAuth has stored the role claim in the context under "role".
func RequireCapability(cap Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !Allowed(role, cap) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
