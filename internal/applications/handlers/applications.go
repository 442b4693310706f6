package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"vestiga-portal/internal/applications"
	"vestiga-portal/internal/applications/entities"

	"github.com/labstack/echo/v4"
)

// CreatedNotifier is the hook fired after a submission lands, feeding the
// reconciliation queue. May be nil when running without redis.
type CreatedNotifier interface {
	ApplicationCreated(ctx context.Context, applicationID string)
}

type ApplicationHandler struct {
	service  *applications.Service
	notifier CreatedNotifier
}

func NewApplicationHandler(service *applications.Service, notifier CreatedNotifier) *ApplicationHandler {
	return &ApplicationHandler{service: service, notifier: notifier}
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var app entities.Application
	if err := c.Bind(&app); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid Request",
			"message": "Malformed request body",
		})
	}

	saved, err := h.service.Create(c.Request().Context(), app)
	if err != nil {
		var validation *applications.ValidationError
		if errors.As(err, &validation) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Validation Error",
				"details": validation.Details,
			})
		}
		if errors.Is(err, applications.ErrDuplicateIDNumber) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Duplicate Entry",
				"message": "An application with this ID number already exists",
			})
		}
		slog.Error("create application failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to create application",
		})
	}

	if h.notifier != nil {
		h.notifier.ApplicationCreated(c.Request().Context(), saved.ID)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    saved.ID,
		"message": "Application created successfully",
	})
}

func (h *ApplicationHandler) GetAll(c echo.Context) error {
	apps := h.service.GetAll(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(apps),
		"data":    apps,
	})
}

func (h *ApplicationHandler) GetByID(c echo.Context) error {
	app, exists := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Not Found",
			"message": "Application not found",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    app,
	})
}

func (h *ApplicationHandler) Update(c echo.Context) error {
	var app entities.Application
	if err := c.Bind(&app); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid Request",
			"message": "Malformed request body",
		})
	}
	app.ID = c.Param("id")

	updated, exists, err := h.service.Update(c.Request().Context(), app)
	if err != nil {
		var validation *applications.ValidationError
		if errors.As(err, &validation) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Validation Error",
				"details": validation.Details,
			})
		}
		if errors.Is(err, applications.ErrDuplicateIDNumber) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Duplicate Entry",
				"message": "An application with this ID number already exists",
			})
		}
		slog.Error("update application failed", "id", app.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to update application",
		})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Not Found",
			"message": "Application not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    updated,
		"message": "Application updated successfully",
	})
}

func (h *ApplicationHandler) Delete(c echo.Context) error {
	deleted, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete application failed", "id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to delete application",
		})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Not Found",
			"message": "Application not found",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Application deleted successfully",
	})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *ApplicationHandler) DeleteMany(c echo.Context) error {
	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid Request",
			"message": "Please provide an array of application IDs to delete",
		})
	}

	deleted, err := h.service.DeleteMany(c.Request().Context(), req.IDs)
	if err != nil {
		slog.Error("bulk delete failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to delete applications",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("%d application(s) deleted successfully", deleted),
	})
}
