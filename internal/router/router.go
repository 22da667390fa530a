// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/visitor-pass-service/internal/authz"
	"github.com/iliyamo/visitor-pass-service/internal/config"
	"github.com/iliyamo/visitor-pass-service/internal/handler"
	"github.com/iliyamo/visitor-pass-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register,
// login, refresh and logout live under /api/auth and need no session;
// /api/auth/me and /api/auth/capabilities require a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/api/auth")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.GET("/capabilities", a.Capabilities)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterAPI registers the protected pass, live-occupancy, visitor,
// host and appointment endpoints under /api. Every route requires a
// valid access token; individual routes additionally demand the
// capability listed for the caller's role.
//
// GET /api/passes/live is registered alongside /api/passes/:id; the
// static segment wins over the parameter route, so "live" is never
// parsed as a pass id. The live route carries a short-TTL response
// cache so dashboards polling every 30 seconds share one database
// query.
func RegisterAPI(e *echo.Echo, p *handler.PassHandler, d *handler.DirectoryHandler,
	cfg config.Config, rdb *redis.Client) {

	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	// Passes and live occupancy.
	api.POST("/passes", p.Create, authz.RequireCapability(authz.CapPassesWrite))
	api.GET("/passes", p.List, authz.RequireCapability(authz.CapPassesRead))
	api.GET("/passes/live", p.Live,
		authz.RequireCapability(authz.CapLiveView),
		middleware.ResponseCache(config.LoadCacheConfig(), rdb))
	api.GET("/passes/:id", p.Get, authz.RequireCapability(authz.CapPassesRead))
	api.GET("/passes/:id/qr", p.QR, authz.RequireCapability(authz.CapPassesRead))
	api.PUT("/passes/:id", p.Update, authz.RequireCapability(authz.CapPassesWrite))
	api.DELETE("/passes/:id", p.Delete, authz.RequireCapability(authz.CapPassesDelete))
	api.POST("/passes/:id/checkin", p.CheckIn, authz.RequireCapability(authz.CapPassesCheckin))
	api.POST("/passes/:id/checkout", p.CheckOut, authz.RequireCapability(authz.CapPassesCheckin))

	// Visitor directory.
	api.POST("/visitors", d.CreateVisitor, authz.RequireCapability(authz.CapVisitorsWrite))
	api.GET("/visitors", d.ListVisitors, authz.RequireCapability(authz.CapVisitorsRead))
	api.GET("/visitors/:id", d.GetVisitor, authz.RequireCapability(authz.CapVisitorsRead))
	api.PUT("/visitors/:id", d.UpdateVisitor, authz.RequireCapability(authz.CapVisitorsWrite))
	api.DELETE("/visitors/:id", d.DeleteVisitor, authz.RequireCapability(authz.CapVisitorsWrite))

	// Host directory.
	api.POST("/hosts", d.CreateHost, authz.RequireCapability(authz.CapHostsWrite))
	api.GET("/hosts", d.ListHosts, authz.RequireCapability(authz.CapHostsRead))
	api.GET("/hosts/:id", d.GetHost, authz.RequireCapability(authz.CapHostsRead))
	api.PUT("/hosts/:id", d.UpdateHost, authz.RequireCapability(authz.CapHostsWrite))
	api.DELETE("/hosts/:id", d.DeleteHost, authz.RequireCapability(authz.CapHostsWrite))

	// Appointments.
	api.POST("/appointments", d.CreateAppointment, authz.RequireCapability(authz.CapAppointmentsWrite))
	api.GET("/appointments", d.ListAppointments, authz.RequireCapability(authz.CapAppointmentsRead))
	api.GET("/appointments/:id", d.GetAppointment, authz.RequireCapability(authz.CapAppointmentsRead))
	api.PUT("/appointments/:id", d.UpdateAppointmentStatus, authz.RequireCapability(authz.CapAppointmentsWrite))
	api.DELETE("/appointments/:id", d.DeleteAppointment, authz.RequireCapability(authz.CapAppointmentsWrite))
}
