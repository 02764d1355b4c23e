package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
)

// RequireAuth validates the bearer token and stores the caller's
// identity in the gin context.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Warn().Err(err).Msg("RequireAuth: token rejected")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		ctx.Set(ContextUserID, claims.UserID)
		ctx.Set(ContextIsAdmin, claims.IsAdmin)
		ctx.Next()
	}
}

// RequireAdmin gates admin routes. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !ctx.GetBool(ContextIsAdmin) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated caller's id from the context.
func UserID(ctx *gin.Context) uint {
	return ctx.GetUint(ContextUserID)
}
