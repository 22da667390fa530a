package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/visitor-pass-service/internal/model"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
)

// DirectoryHandler bundles the repositories behind the visitor, host
// and appointment CRUD screens.
type DirectoryHandler struct {
	Visitors     *repository.VisitorRepo
	Hosts        *repository.HostRepo
	Appointments *repository.AppointmentRepo
}

// NewDirectoryHandler constructs a DirectoryHandler and panics if
// any dependency is nil.
func NewDirectoryHandler(v *repository.VisitorRepo, h *repository.HostRepo, a *repository.AppointmentRepo) *DirectoryHandler {
	if v == nil || h == nil || a == nil {
		panic("nil repository passed to NewDirectoryHandler")
	}
	return &DirectoryHandler{Visitors: v, Hosts: h, Appointments: a}
}

type visitorReq struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// CreateVisitor handles POST /api/visitors.
func (h *DirectoryHandler) CreateVisitor(c echo.Context) error {
	var req visitorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	v := &model.Visitor{Name: req.Name, Email: req.Email, Phone: req.Phone, Company: req.Company}
	if err := h.Visitors.Create(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, v)
}

// ListVisitors handles GET /api/visitors.
func (h *DirectoryHandler) ListVisitors(c echo.Context) error {
	items, err := h.Visitors.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetVisitor handles GET /api/visitors/:id.
func (h *DirectoryHandler) GetVisitor(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such visitor"})
	}
	v, err := h.Visitors.GetByID(c.Request().Context(), id)
	if err == repository.ErrVisitorNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such visitor"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateVisitor handles PUT /api/visitors/:id.
func (h *DirectoryHandler) UpdateVisitor(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such visitor"})
	}
	var req visitorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Visitors.GetByID(ctx, id); err != nil {
		if err == repository.ErrVisitorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such visitor"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	v, err := h.Visitors.Update(ctx, id, req.Name, req.Email, req.Phone, req.Company)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVisitor handles DELETE /api/visitors/:id.
func (h *DirectoryHandler) DeleteVisitor(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such visitor"})
	}
	err := h.Visitors.Delete(c.Request().Context(), id)
	if err == repository.ErrVisitorNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such visitor"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
