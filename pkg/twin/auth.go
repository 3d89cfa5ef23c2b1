/*
Copyright 2026 the Stockroom Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package twin

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned for tokens that fail verification.
	ErrTokenInvalid = errors.New("token is not valid")
)

// TokenIssuer signs and verifies HS256 access tokens carrying the user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer uses secret if given, otherwise a random one.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)

		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
	}, nil
}

// Issue creates a signed token for the user.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(t.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry and returns the user id.
func (t *TokenIssuer) Verify(token string) (string, error) {
	keyFunc := func(*jwt.Token) (any, error) {
		return t.secret, nil
	}

	parsed, err := jwt.Parse(token, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing userId claim", ErrTokenInvalid)
	}

	return userID, nil
}

type userKeyType int

//nolint:gochecknoglobals
var userKey userKeyType

// userFromContext returns the user the authenticate middleware attached.
func userFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)

	return user, ok
}

// authenticate rejects requests without a valid bearer token for a known user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token expired. Please login again.")
				return
			}

			writeError(w, http.StatusUnauthorized, "Token is not valid.")

			return
		}

		user, err := s.store.UserByID(userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token is not valid. User not found.")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}
