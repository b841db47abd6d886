package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clinicai/clinicai-api/pkg/jwt"
	"github.com/clinicai/clinicai-api/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	TokenIDKey  contextKey = "token_id"
)

const redisAccessTokenPrefix = "auth:access:"

type AuthMiddleware struct {
	jwtManager  *jwt.Manager
	redisClient *redis.Client
}

func NewAuthMiddleware(jwtManager *jwt.Manager, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:  jwtManager,
		redisClient: redisClient,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.resolve(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Optional attaches the identity when a valid token is present but lets
// anonymous requests through. Flows that need authentication reject them
// downstream, which lets the client distinguish "log in first" from
// "forbidden".
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, ok := m.resolve(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (m *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) (*jwt.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		response.Unauthorized(w, "Authorization header is required")
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(w, "Invalid authorization header format")
		return nil, false
	}

	claims, err := m.jwtManager.Parse(parts[1])
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return nil, false
	}
	if claims.TokenType != jwt.AccessToken {
		response.Unauthorized(w, "Invalid token type")
		return nil, false
	}

	// Logout removes the allow-list entry, so revoked tokens die here
	exists, err := m.redisClient.Exists(r.Context(), redisAccessTokenPrefix+claims.ID).Result()
	if err != nil {
		response.InternalServerError(w, "Failed to validate token")
		return nil, false
	}
	if exists == 0 {
		response.Unauthorized(w, "Token has been revoked")
		return nil, false
	}

	return claims, true
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	ctx = context.WithValue(ctx, TokenIDKey, claims.ID)
	return ctx
}

// GetUserIDFromContext extracts the authenticated user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserRoleFromContext extracts the authenticated user's role from context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// GetTokenIDFromContext extracts the access token id from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
