/*
Package jwtgate provides HTTP middleware that authenticates requests with
shared-secret JWT bearer tokens, and a companion issuer that mints them.

The gate extracts a token from the "Authorization: Bearer <token>" header,
verifies it against the secret and an algorithm allow-list, and either
stores the decoded claims in the request context and calls the next
handler, or writes a 401 response. It keeps no state between requests.

# Quick Start

	import "github.com/jwtgate/jwtgate"

	func main() {
	    secret := os.Getenv("JWT_SECRET")

	    gate, err := jwtgate.New(secret, nil)
	    if err != nil {
	        log.Fatalf("failed to set up the jwt middleware: %v", err)
	    }

	    http.Handle("/api/profile", gate.CheckJWT(http.HandlerFunc(profile)))
	    http.HandleFunc("/login", login)
	    log.Fatal(http.ListenAndServe(":3000", nil))
	}

	func login(w http.ResponseWriter, r *http.Request) {
	    token, err := jwtgate.GenerateToken(jwtgate.ClaimSet{"userId": "42"}, secret, nil)
	    if err != nil {
	        http.Error(w, "could not issue token", http.StatusInternalServerError)
	        return
	    }
	    _ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}

	func profile(w http.ResponseWriter, r *http.Request) {
	    claims := jwtgate.MustGetClaims(r.Context())
	    fmt.Fprintf(w, "hello %s", claims.Get("userId"))
	}

# Configuration

Config is layered over DefaultConfig field by field:

	Messages.Success  "Token is valid"
	Messages.Error    "Invalid token"
	ExpiresIn         "1h"
	Algorithms        ["HS256"]

The gate accepts a token signed with any listed algorithm. The issuer always
signs with Algorithms[0].

# Responses

Rejected requests get 401 with a JSON body {"message": ...}. A missing or
non-Bearer Authorization header yields MissingTokenMessage; every
verification failure (bad signature, expired, disallowed algorithm,
malformed) yields the configured error text. The specific reason is only
reported to the Logger, Metrics and Tracer.

# Frameworks

Adapters for gin, echo and gRPC live under framework/. They share the
gate's verification path through Authenticate and AuthenticateToken.
*/
package jwtgate
