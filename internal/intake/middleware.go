package intake

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	formTokenHeader = "X-Form-Token"

	// ctxFormTokenType is the gin context key holding the lead type the
	// presented token is scoped to.
	ctxFormTokenType = "formTokenLeadType"
	ctxFormTokenID   = "formTokenID"
)

// FormTokenAuthMiddleware validates the X-Form-Token header and records
// the lead type the token is scoped to. The handler enforces that the
// submission's type matches the token scope.
func FormTokenAuthMiddleware(repo *TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(formTokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing form token"})
			return
		}

		record, err := repo.GetByHash(c.Request.Context(), HashToken(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid form token"})
			return
		}

		c.Set(ctxFormTokenType, string(record.LeadType))
		c.Set(ctxFormTokenID, record.ID)
		c.Next()
	}
}
