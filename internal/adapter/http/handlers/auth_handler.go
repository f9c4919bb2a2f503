package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	request "deliverysync/internal/adapter/http/dto/request"
	response "deliverysync/internal/adapter/http/dto/response"
	"deliverysync/internal/sandbox"
	"deliverysync/pkg"
)

var errInvalidResetPayload = pkg.NewDomainErrorSimple("INVALID_RESET_INPUT", "Invalid reset payload", http.StatusBadRequest)

// AuthHandler serves the unauthenticated password-reset endpoint.
type AuthHandler struct {
	emulator *sandbox.Emulator
}

func NewAuthHandler(emulator *sandbox.Emulator) *AuthHandler {
	return &AuthHandler{emulator: emulator}
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var payload request.ResetPasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidResetPayload.HTTPStatus, errInvalidResetPayload.ToHTTPError())
		return
	}

	if err := h.emulator.ResetPassword(payload.Token, payload.NewPassword); err != nil {
		appErr := mapSandboxError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.ResetPasswordResponse{Success: true, Message: "password updated"})
}
