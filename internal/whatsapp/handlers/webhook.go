package handlers

import (
	"log/slog"
	"net/http"

	"vestiga-portal/internal/applications/entities"
	"vestiga-portal/internal/whatsapp"

	"github.com/labstack/echo/v4"
)

type WhatsAppHandler struct {
	client *whatsapp.Client
}

func NewWhatsAppHandler(client *whatsapp.Client) *WhatsAppHandler {
	return &WhatsAppHandler{client: client}
}

// VerifyWebhook answers the Graph API subscription handshake.
func (h *WhatsAppHandler) VerifyWebhook(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	echoed, ok := h.client.VerifyWebhook(mode, token, challenge)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{
			"success": false,
			"error":   "Verification failed",
			"message": "Invalid verification token",
		})
	}
	return c.String(http.StatusOK, echoed)
}

type webhookEvent struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string                 `json:"field"`
			Value map[string]interface{} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleWebhook acknowledges delivery events. Incoming messages are only
// logged; the portal does not converse.
func (h *WhatsAppHandler) HandleWebhook(c echo.Context) error {
	var event webhookEvent
	if err := c.Bind(&event); err == nil && event.Object == "whatsapp_business_account" {
		for _, entry := range event.Entry {
			for _, change := range entry.Changes {
				if change.Field == "messages" {
					slog.Info("whatsapp message received", "value", change.Value)
				}
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Webhook event processed",
	})
}

type sendRequest struct {
	Application *entities.Application `json:"application"`
	UpdateType  string                `json:"updateType"`
}

func (h *WhatsAppHandler) bindApplication(c echo.Context) (*sendRequest, bool) {
	var req sendRequest
	if err := c.Bind(&req); err != nil || req.Application == nil || req.Application.Mobile == "" {
		return nil, false
	}
	return &req, true
}

func (h *WhatsAppHandler) SendConfirmation(c echo.Context) error {
	req, ok := h.bindApplication(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing application data",
			"message": "Application data with mobile number is required",
		})
	}

	if err := h.client.SendApplicationConfirmation(c.Request().Context(), *req.Application); err != nil {
		slog.Error("whatsapp confirmation failed", "mobile", req.Application.Mobile, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to send WhatsApp confirmation",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "WhatsApp confirmation sent successfully",
	})
}

func (h *WhatsAppHandler) SendPaymentConfirmation(c echo.Context) error {
	req, ok := h.bindApplication(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing application data",
			"message": "Application data with mobile number is required",
		})
	}

	if err := h.client.SendPaymentConfirmation(c.Request().Context(), *req.Application); err != nil {
		slog.Error("whatsapp payment confirmation failed", "mobile", req.Application.Mobile, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to send WhatsApp payment confirmation",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "WhatsApp payment confirmation sent successfully",
	})
}

func (h *WhatsAppHandler) SendUpdate(c echo.Context) error {
	req, ok := h.bindApplication(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing application data",
			"message": "Application data with mobile number is required",
		})
	}

	if err := h.client.SendApplicationUpdate(c.Request().Context(), *req.Application, whatsapp.UpdateKind(req.UpdateType)); err != nil {
		slog.Error("whatsapp update failed", "mobile", req.Application.Mobile, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to send WhatsApp update",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "WhatsApp update sent successfully",
	})
}
