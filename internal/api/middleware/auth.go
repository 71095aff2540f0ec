package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

const (
	ContextKeyUserID      = "userID"
	ContextKeyCurrentUser = "currentUser"
)

var (
	errMissingToken      = errors.New("missing bearer token")
	errUserAgentMismatch = errors.New("token was issued to a different client")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT checks the bearer token and stores its user id in the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, strings.TrimSpace(token))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentMismatch))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

type UserFinder interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// RequireRole loads the caller's account and rejects it unless it holds one
// of roles. The role is read from storage so a demoted coordinator loses
// access before their token expires.
func RequireRole(users UserFinder, roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(ContextKeyUserID)
		if userID == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("account %s no longer exists", userID)))
				return
			}
			response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("middleware.RequireRole -> users.GetUser -> %w", err)))
			return
		}

		if len(roles) > 0 && !hasRole(user.Role, roles) {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("role %s may not access this resource", user.Role)))
			return
		}

		ctx.Set(ContextKeyCurrentUser, user)
		ctx.Next()
	}
}

func hasRole(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser returns the account stored by RequireRole.
func CurrentUser(ctx *gin.Context) (domain.User, bool) {
	v, ok := ctx.Get(ContextKeyCurrentUser)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}
