package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"deliverysync/pkg"
)

// ContextCustomerEmail is the gin context key holding the authenticated
// customer's email.
const ContextCustomerEmail = "customerEmail"

var errMissingBearer = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid bearer token", http.StatusUnauthorized)

// BearerAuth rejects requests without a bearer token. The sandbox has no
// user database; the token itself is taken as the customer email.
func BearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(errMissingBearer.HTTPStatus, errMissingBearer.ToHTTPError())
			return
		}
		c.Set(ContextCustomerEmail, strings.TrimSpace(token))
		c.Next()
	}
}
