package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/crop-advisor/internal/domain/admin"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

func adminMiddleware(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.Enabled() {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "admin endpoints disabled", nil))
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			status := http.StatusForbidden
			code := admin.CodeInvalidToken
			if !apperrors.IsCode(err, admin.CodeInvalidToken) {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
