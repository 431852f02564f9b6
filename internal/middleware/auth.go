// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	ClaimsKey   contextKey = "jwt_claims"
)

var (
	errMissingToken   = errors.New("missing authorization header")
	errMalformedToken = errors.New("malformed authorization header")
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*AccessTokenClaims, error)
}

// RoleLookup returns the role currently stored for a user, or core.ErrNotFound
// when the account no longer exists.
type RoleLookup interface {
	CurrentRole(ctx context.Context, userID string) (core.Role, error)
}

type AccessTokenClaims struct {
	UserID   string
	Role     core.Role
	IssuedAt time.Time
	TokenID  string
}

// Authenticator rejects requests without a verifiable bearer token and stores
// the decoded claims in the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractToken(r)
			if err != nil {
				if errors.Is(err, errMissingToken) {
					core.Unauthorized(w, "No token provided")
					return
				}
				core.Unauthorized(w, "Invalid token format")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through untouched.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractToken(r)
			if err == nil {
				claims, verr := verifier.Verify(r.Context(), token)
				if verr == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(role core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := core.Authorize(GetUserRole(r.Context()), role)
			if errors.Is(err, core.ErrUnauthorized) {
				core.Unauthorized(w, "")
				return
			}
			if err != nil {
				core.Forbidden(w, "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(core.RoleAdmin)(next)
}

func RequireUser(next http.Handler) http.Handler {
	return RequireRole(core.RoleUser)(next)
}

// ConfirmRole re-reads the caller's stored role after the token gate passed.
// A token issued before a role downgrade still carries the old role, so admin
// mutations check both.
func ConfirmRole(
	lookup RoleLookup,
	role core.Role,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.Unauthorized(w, "")
				return
			}

			stored, err := lookup.CurrentRole(r.Context(), userID)
			if errors.Is(err, core.ErrNotFound) {
				core.Unauthorized(w, "User not found")
				return
			}
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			if err := core.Authorize(stored, role); err != nil {
				core.Forbidden(w, deniedMessage(role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deniedMessage(role core.Role) string {
	if role == core.RoleAdmin {
		return "Access denied. Admin only."
	}
	return "Access denied"
}

func ExtractToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", errMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errMalformedToken
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errMalformedToken
	}

	return token, nil
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	if errors.Is(err, core.ErrTokenExpired) {
		core.JSONError(w, core.TokenExpiredError())
		return
	}

	core.JSONError(w, core.TokenInvalidError())
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	fillClaimsHolder(ctx, claims)
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	return context.WithValue(ctx, ClaimsKey, claims)
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) core.Role {
	if role, ok := ctx.Value(UserRoleKey).(core.Role); ok {
		return role
	}
	return ""
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == core.RoleAdmin
}
