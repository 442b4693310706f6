package handlers

import (
	"log/slog"
	"net/http"

	"vestiga-portal/internal/applications/entities"
	"vestiga-portal/internal/sheets"

	"github.com/labstack/echo/v4"
)

// SheetsHandler exposes the manual sync endpoints the admin frontend uses.
type SheetsHandler struct {
	service *sheets.Service
}

func NewSheetsHandler(service *sheets.Service) *SheetsHandler {
	return &SheetsHandler{service: service}
}

type syncRequest struct {
	Application *entities.Application `json:"application"`
}

func (h *SheetsHandler) AddApplication(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil || req.Application == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing application data",
			"message": "Application data is required",
		})
	}

	if err := h.service.AppendApplication(c.Request().Context(), *req.Application); err != nil {
		slog.Error("sheets append failed", "applicationId", req.Application.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to add application to Google Sheets",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Application added to Google Sheets successfully",
	})
}

func (h *SheetsHandler) UpdateApplication(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil || req.Application == nil || req.Application.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing application data",
			"message": "Application data with ID is required",
		})
	}

	if err := h.service.UpdateApplication(c.Request().Context(), *req.Application); err != nil {
		slog.Error("sheets update failed", "applicationId", req.Application.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to update application in Google Sheets",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Application updated in Google Sheets successfully",
	})
}

func (h *SheetsHandler) DeleteApplication(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing application ID",
			"message": "Application ID is required",
		})
	}

	if err := h.service.DeleteApplication(c.Request().Context(), id); err != nil {
		slog.Error("sheets delete failed", "applicationId", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to delete application from Google Sheets",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Application deleted from Google Sheets successfully",
	})
}
