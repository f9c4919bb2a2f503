package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"deliverysync/internal/sandbox"
	"deliverysync/pkg"
)

// OrderHandler serves order reads from the sandbox backend.
type OrderHandler struct {
	emulator *sandbox.Emulator
}

func NewOrderHandler(emulator *sandbox.Emulator) *OrderHandler {
	return &OrderHandler{emulator: emulator}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.emulator.GetOrder(c.Param("id"))
	if err != nil {
		appErr := mapSandboxError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, order)
}

func mapSandboxError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, sandbox.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, sandbox.ErrNegotiationNotFound):
		return pkg.NewDomainErrorSimple("NEGOTIATION_NOT_FOUND", "Negotiation not found", http.StatusNotFound)
	case errors.Is(err, sandbox.ErrNegotiationClosed):
		return pkg.NewDomainErrorSimple("NEGOTIATION_CLOSED", "Negotiation already closed", http.StatusConflict)
	case errors.Is(err, sandbox.ErrNegotiationExists):
		return pkg.NewDomainErrorSimple("NEGOTIATION_ALREADY_EXISTS", "Negotiation already exists for this order", http.StatusConflict)
	case errors.Is(err, sandbox.ErrInvalidAction), errors.Is(err, sandbox.ErrMissingCounterOffer):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, sandbox.ErrWeakPassword):
		return pkg.NewDomainErrorSimple("WEAK_PASSWORD", "Password must be at least 8 characters", http.StatusBadRequest)
	case errors.Is(err, sandbox.ErrInvalidResetToken):
		return pkg.NewDomainErrorSimple("INVALID_RESET_TOKEN", "Invalid or expired reset token", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
