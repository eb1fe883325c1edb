package core

import "context"

type contextKey int

// identityKey holds the claims of the request the gate let through.
const identityKey contextKey = 0

// GetClaims returns the identity stored by SetClaims as T. The gate and its
// adapters store a *validator.ValidatedClaims:
//
//	claims, err := core.GetClaims[*validator.ValidatedClaims](ctx)
//	if err != nil {
//	    return err
//	}
//	userID := claims.Get("userId") // from the ClaimSet given to the issuer
//
// ErrClaimsNotFound means the request never passed the gate. A stored value
// of another type yields a *ValidationError with ErrorCodeClaimsNotFound.
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	stored := ctx.Value(identityKey)
	if stored == nil {
		return zero, ErrClaimsNotFound
	}

	claims, ok := stored.(T)
	if !ok {
		return zero, NewValidationError(ErrorCodeClaimsNotFound, "stored identity has an unexpected type", nil)
	}
	return claims, nil
}

// SetClaims returns a child of ctx carrying the verified identity. The gate
// calls it once per accepted request; nothing else writes the slot.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// HasClaims reports whether ctx carries an identity.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(identityKey) != nil
}
