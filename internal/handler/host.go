package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/visitor-pass-service/internal/model"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
)

type hostReq struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
}

// CreateHost handles POST /api/hosts.
func (h *DirectoryHandler) CreateHost(c echo.Context) error {
	var req hostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	host := &model.Host{Name: req.Name, Email: req.Email, Department: req.Department}
	if err := h.Hosts.Create(c.Request().Context(), host); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, host)
}

// ListHosts handles GET /api/hosts.
func (h *DirectoryHandler) ListHosts(c echo.Context) error {
	items, err := h.Hosts.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetHost handles GET /api/hosts/:id.
func (h *DirectoryHandler) GetHost(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such host"})
	}
	host, err := h.Hosts.GetByID(c.Request().Context(), id)
	if err == repository.ErrHostNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such host"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, host)
}

// UpdateHost handles PUT /api/hosts/:id.
func (h *DirectoryHandler) UpdateHost(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such host"})
	}
	var req hostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hosts.GetByID(ctx, id); err != nil {
		if err == repository.ErrHostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such host"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	host, err := h.Hosts.Update(ctx, id, req.Name, req.Email, req.Department)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, host)
}

// DeleteHost handles DELETE /api/hosts/:id.
func (h *DirectoryHandler) DeleteHost(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such host"})
	}
	err := h.Hosts.Delete(c.Request().Context(), id)
	if err == repository.ErrHostNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such host"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
