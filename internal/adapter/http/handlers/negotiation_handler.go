package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	request "deliverysync/internal/adapter/http/dto/request"
	"deliverysync/internal/domain/entities"
	"deliverysync/internal/sandbox"
	"deliverysync/pkg"
)

var errInvalidNegotiationPayload = pkg.NewDomainErrorSimple("INVALID_NEGOTIATION_INPUT", "Invalid negotiation payload", http.StatusBadRequest)

// NegotiationHandler serves the negotiation endpoints from the sandbox
// backend.
type NegotiationHandler struct {
	emulator *sandbox.Emulator
}

func NewNegotiationHandler(emulator *sandbox.Emulator) *NegotiationHandler {
	return &NegotiationHandler{emulator: emulator}
}

func (h *NegotiationHandler) GetByOrderID(c *gin.Context) {
	negotiation, err := h.emulator.NegotiationByOrder(c.Param("orderId"))
	if err != nil {
		appErr := mapSandboxError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, negotiation)
}

func (h *NegotiationHandler) CustomerResponse(c *gin.Context) {
	var payload request.CustomerResponseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidNegotiationPayload.HTTPStatus, errInvalidNegotiationPayload.ToHTTPError())
		return
	}
	if err := payload.ValidateCounterOffer(); err != nil {
		c.JSON(errInvalidNegotiationPayload.HTTPStatus, errInvalidNegotiationPayload.ToHTTPError())
		return
	}

	negotiation, err := h.emulator.CustomerResponse(c.Param("id"), payload.NormalizedAction(), payload.CounterOffer)
	if err != nil {
		appErr := mapSandboxError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, negotiation)
}

func (h *NegotiationHandler) Create(c *gin.Context) {
	var payload request.CreateNegotiationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidNegotiationPayload.HTTPStatus, errInvalidNegotiationPayload.ToHTTPError())
		return
	}

	negotiation, err := h.emulator.CreateNegotiation(payload.OrderID, payload.InitialPrice)
	if err != nil {
		appErr := mapSandboxError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, negotiation)
}

// PendingForCustomer lists the caller's open negotiations. The sandbox
// convention is that the bearer token is the customer email.
func (h *NegotiationHandler) PendingForCustomer(c *gin.Context) {
	email := c.GetString(ContextCustomerEmail)
	list := h.emulator.PendingForCustomer(email)
	if list == nil {
		list = []entities.Negotiation{}
	}
	c.JSON(http.StatusOK, list)
}
