// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/forms-backend/internal/config"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/middleware"
)

const tokenTypeAccess = "access"

// JWTManager issues and verifies HS256 access tokens with one process-wide
// secret. Tokens are stateless; there is no revocation list.
type JWTManager struct {
	key    jwk.Key
	config config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &JWTManager{
		key:    key,
		config: cfg,
	}, nil
}

// Issue signs a token binding subjectID to role. An expiry is only added when
// access_token_expire is configured.
func (m *JWTManager) Issue(subjectID string, role core.Role) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("issue token: empty subject: %w", core.ErrInvalidInput)
	}
	if !role.Valid() {
		return "", fmt.Errorf("issue token: role %q: %w", role, core.ErrInvalidInput)
	}

	now := time.Now()

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(subjectID).
		IssuedAt(now).
		Claim("role", role.String()).
		Claim("type", tokenTypeAccess)

	if m.config.AccessTokenExpire > 0 {
		builder = builder.Expiration(now.Add(m.config.AccessTokenExpire))
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// Verify checks signature, issuer, audience and token type and returns the
// decoded identity. Every failure except expiry wraps core.ErrTokenInvalid.
func (m *JWTManager) Verify(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeAccess {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var roleStr string
	if err := token.Get("role", &roleStr); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	role, err := core.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf(
			"verify token: unknown role: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.AccessTokenClaims{
		UserID: subject,
		Role:   role,
	}
	if iat, ok := token.IssuedAt(); ok {
		claims.IssuedAt = iat
	}
	if jti, ok := token.JwtID(); ok {
		claims.TokenID = jti
	}

	return claims, nil
}

var _ middleware.TokenVerifier = (*JWTManager)(nil)
