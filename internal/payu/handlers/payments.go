package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vestiga-portal/internal/payu"

	"github.com/go-redsync/redsync/v4"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	builder    *payu.RequestBuilder
	verifier   *payu.Verifier
	machine    *payu.StateMachine
	notifier   payu.TransitionNotifier
	locker     *redsync.Redsync
	paymentURL string
}

// NewPaymentHandler wires the payment core behind the two gateway-facing
// routes. locker may be nil when running without redis.
func NewPaymentHandler(builder *payu.RequestBuilder, verifier *payu.Verifier, machine *payu.StateMachine, notifier payu.TransitionNotifier, locker *redsync.Redsync, paymentURL string) *PaymentHandler {
	return &PaymentHandler{
		builder:    builder,
		verifier:   verifier,
		machine:    machine,
		notifier:   notifier,
		locker:     locker,
		paymentURL: paymentURL,
	}
}

type initiateRequest struct {
	ApplicationID string      `json:"applicationId" form:"applicationId"`
	Amount        json.Number `json:"amount" form:"amount"`
	FirstName     string      `json:"firstName" form:"firstName"`
	Email         string      `json:"email" form:"email"`
	Phone         string      `json:"phone" form:"phone"`
}

func (h *PaymentHandler) Initiate(c echo.Context) error {
	var req initiateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid Request",
			"message": "Malformed request body",
		})
	}

	signed, err := h.builder.Build(payu.InitiateParams{
		ApplicationID: req.ApplicationID,
		Amount:        req.Amount.String(),
		FirstName:     req.FirstName,
		Email:         req.Email,
		Phone:         req.Phone,
	})
	if err != nil {
		if errors.Is(err, payu.ErrInvalidRequest) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Missing required fields",
				"message": "Application ID, amount, first name, email, and phone are required",
			})
		}
		slog.Error("payment initiation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to initiate payment",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"paymentUrl":  h.paymentURL,
			"paymentData": signed,
			"txnId":       signed.TxnID,
		},
		"message": "Payment initiated successfully",
	})
}

func (h *PaymentHandler) Callback(c echo.Context) error {
	var cb payu.Callback
	if err := c.Bind(&cb); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid Request",
			"message": "Malformed callback body",
		})
	}

	verified, err := h.verifier.Verify(cb)
	if err != nil {
		if errors.Is(err, payu.ErrIntegrity) {
			// Security-relevant: either tampering or a misconfigured salt.
			slog.Warn("callback rejected: hash mismatch", "txnid", cb.TxnID, "status", cb.Status)
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Invalid hash",
				"message": "Payment verification failed",
			})
		}
		slog.Warn("callback rejected: malformed fields", "txnid", cb.TxnID, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid Request",
			"message": "Payment verification failed",
		})
	}

	ctx := c.Request().Context()

	// The status write itself is idempotent; the lock only serializes
	// concurrent gateway retries for the same applicant across instances.
	if h.locker != nil {
		mutex := h.locker.NewMutex("payment:app:"+verified.ApplicationID, redsync.WithExpiry(8*time.Second))
		if err := mutex.LockContext(ctx); err != nil {
			slog.Warn("callback lock not acquired, applying anyway", "applicationId", verified.ApplicationID, "error", err)
		} else {
			defer mutex.UnlockContext(ctx)
		}
	}

	result, err := h.machine.Apply(ctx, verified.ApplicationID, verified.Outcome)
	if err != nil {
		if errors.Is(err, payu.ErrNotFound) {
			// Acknowledge so the gateway stops retrying; there is nothing to
			// mutate on our side.
			slog.Warn("callback for unknown application", "applicationId", verified.ApplicationID, "txnid", verified.TxnID)
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"message": "Payment status updated successfully",
			})
		}
		slog.Error("payment state update failed", "applicationId", verified.ApplicationID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
			"message": "Failed to process payment callback",
		})
	}

	if result.Anomaly {
		slog.Warn("failed outcome after settled payment, keeping status",
			"applicationId", result.ApplicationID, "txnid", verified.TxnID, "status", result.OldStatus)
	}

	if result.Changed {
		h.notifier.NotifyTransition(ctx, result)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment status updated successfully",
	})
}
