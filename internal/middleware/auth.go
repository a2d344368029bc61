package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	RoleKey      contextKey = "role"
	IsSuperKey   contextKey = "is_super"
	StoreIDKey   contextKey = "store_id"
)

// AuthMiddleware validates session tokens and puts the account claims on the
// request context
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if err == jwt.ErrTokenExpired {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			accountIDRaw, ok := claims["account_id"].(string)
			if !ok {
				logger.Error("Missing account_id in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}
			accountID, err := uuid.Parse(accountIDRaw)
			if err != nil {
				logger.Error("Malformed account_id in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			role, ok := claims["role"].(string)
			if !ok {
				logger.Error("Missing role in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), AccountIDKey, accountID)
			ctx = context.WithValue(ctx, RoleKey, role)

			if isSuper, ok := claims["is_super"].(bool); ok {
				ctx = context.WithValue(ctx, IsSuperKey, isSuper)
			}
			if storeIDRaw, ok := claims["store_id"].(string); ok {
				if storeID, err := uuid.Parse(storeIDRaw); err == nil {
					ctx = context.WithValue(ctx, StoreIDKey, storeID)
				}
			}

			logger.Debug("Account authenticated",
				zap.String("account_id", accountID.String()),
				zap.String("role", role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountID extracts the authenticated account ID from the request context
func GetAccountID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	return id, ok
}

// GetRole extracts the authenticated role from the request context
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// IsSuperAdmin reports whether the authenticated admin is a super admin
func IsSuperAdmin(ctx context.Context) bool {
	isSuper, ok := ctx.Value(IsSuperKey).(bool)
	return ok && isSuper
}

// GetStoreID extracts the admin's store scope from the request context
func GetStoreID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(StoreIDKey).(uuid.UUID)
	return id, ok
}
