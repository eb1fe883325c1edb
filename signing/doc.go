/*
Package signing defines the sign/verify primitive the gate is built on.

A Primitive turns a claim map into a compact JWS and back. Two
implementations ship with this module:

  - signing/golangjwt, backed by github.com/golang-jwt/jwt/v5 (the default)
  - signing/jwx, backed by github.com/lestrrat-go/jwx/v2

Both behave identically: the token's alg header must appear in
VerifyOptions.Algorithms, the "none" algorithm is never accepted, and every
returned error wraps one of the failure classes declared here
(ErrTokenMalformed, ErrTokenExpired, ErrTokenNotValidYet,
ErrAlgorithmNotAllowed, ErrSignatureInvalid, ErrUnsupportedAlgorithm).
*/
package signing
