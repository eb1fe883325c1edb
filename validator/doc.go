/*
Package validator verifies shared-secret JWTs for the gate.

A Validator binds a secret, an algorithm allow-list and an optional clock
skew to a signing.Primitive. ValidateToken returns *ValidatedClaims, which
the middleware stores in the request context.

	v, err := validator.New(
	    validator.WithSecret(os.Getenv("JWT_SECRET")),
	    validator.WithAlgorithms(validator.HS256, validator.HS512),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := v.ValidateToken(ctx, token)

A token whose alg header is not in the allow-list is rejected even when its
signature would verify. The default primitive is golang-jwt; use
WithPrimitive(jwx.New()) to verify with lestrrat-go/jwx instead.
*/
package validator
