package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/visitor-pass-service/internal/model"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
)

type appointmentReq struct {
	VisitorID   uint64  `json:"visitorId"`
	HostID      uint64  `json:"hostId"`
	Purpose     *string `json:"purpose"`
	ScheduledAt string  `json:"scheduledAt"` // RFC 3339
}

var validAppointmentStatuses = map[string]bool{
	model.AppointmentScheduled: true,
	model.AppointmentCheckedIn: true,
	model.AppointmentCompleted: true,
	model.AppointmentCancelled: true,
}

// CreateAppointment handles POST /api/appointments. New appointments
// always start in SCHEDULED.
func (h *DirectoryHandler) CreateAppointment(c echo.Context) error {
	var req appointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.VisitorID == 0 || req.HostID == 0 || strings.TrimSpace(req.ScheduledAt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "visitorId, hostId and scheduledAt are required"})
	}
	when, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduledAt must be RFC 3339"})
	}

	ctx := c.Request().Context()
	if _, err := h.Visitors.GetByID(ctx, req.VisitorID); err != nil {
		if err == repository.ErrVisitorNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown visitor"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if _, err := h.Hosts.GetByID(ctx, req.HostID); err != nil {
		if err == repository.ErrHostNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown host"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	a := &model.Appointment{
		VisitorID:   req.VisitorID,
		HostID:      req.HostID,
		Purpose:     req.Purpose,
		ScheduledAt: when.UTC(),
		Status:      model.AppointmentScheduled,
	}
	if err := h.Appointments.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	det, err := h.Appointments.GetByID(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, det)
}

// ListAppointments handles GET /api/appointments?status=SCHEDULED.
func (h *DirectoryHandler) ListAppointments(c echo.Context) error {
	items, err := h.Appointments.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetAppointment handles GET /api/appointments/:id.
func (h *DirectoryHandler) GetAppointment(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such appointment"})
	}
	det, err := h.Appointments.GetByID(c.Request().Context(), id)
	if err == repository.ErrAppointmentNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such appointment"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, det)
}

type appointmentStatusReq struct {
	Status string `json:"status"`
}

// UpdateAppointmentStatus handles PUT /api/appointments/:id. Only the
// status field is mutable once an appointment exists.
func (h *DirectoryHandler) UpdateAppointmentStatus(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such appointment"})
	}
	var req appointmentStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !validAppointmentStatuses[status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx := c.Request().Context()
	if _, err := h.Appointments.GetByID(ctx, id); err != nil {
		if err == repository.ErrAppointmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such appointment"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	det, err := h.Appointments.UpdateStatus(ctx, id, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, det)
}

// DeleteAppointment handles DELETE /api/appointments/:id.
func (h *DirectoryHandler) DeleteAppointment(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such appointment"})
	}
	err := h.Appointments.Delete(c.Request().Context(), id)
	if err == repository.ErrAppointmentNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such appointment"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
