package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/visitor-pass-service/internal/model"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role string
		cap  Capability
		want bool
	}{
		{model.RoleAdmin, CapPassesDelete, true},
		{model.RoleEmployee, CapPassesWrite, true},
		{model.RoleEmployee, CapPassesDelete, false},
		{model.RoleSecurity, CapPassesCheckin, true},
		{model.RoleSecurity, CapPassesWrite, false},
		{model.RoleSecurity, CapVisitorsWrite, false},
		{"intruder", CapPassesRead, false},
		{"", CapLiveView, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.role, tt.cap), "%s/%s", tt.role, tt.cap)
	}
}

func TestEveryRoleSeesTheLiveBoard(t *testing.T) {
	for _, role := range Roles() {
		assert.True(t, Allowed(role, CapLiveView), role)
	}
}

func TestCapabilitiesReturnsCopy(t *testing.T) {
	caps := Capabilities(model.RoleSecurity)
	assert.NotEmpty(t, caps)
	caps[0] = Capability("tampered")
	assert.NotContains(t, Capabilities(model.RoleSecurity), Capability("tampered"))
}

func TestRequireCapability(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/passes", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		_ = RequireCapability(CapPassesWrite)(next)(c)
		return rec
	}

	assert.Equal(t, http.StatusOK, run(model.RoleEmployee).Code)
	assert.Equal(t, http.StatusForbidden, run(model.RoleSecurity).Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(42).Code)
}
