// AngelaMos | 2026
// context.go

package middleware

import (
	"context"
)

type contextKey string

const (
	RequestIDKey    contextKey = "request_id"
	claimsHolderKey contextKey = "claims_holder"
)

// withClaimsHolder lets outer middleware observe the identity that an inner
// Authenticator resolves for the same request.
func withClaimsHolder(
	ctx context.Context,
	holder *AccessTokenClaims,
) context.Context {
	return context.WithValue(ctx, claimsHolderKey, holder)
}

func fillClaimsHolder(ctx context.Context, claims *AccessTokenClaims) {
	if holder, ok := ctx.Value(claimsHolderKey).(*AccessTokenClaims); ok {
		*holder = *claims
	}
}
