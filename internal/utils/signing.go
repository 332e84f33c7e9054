package utils

import (
	"errors" // Error values
	"time"   // Time for link expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidSignature is returned for tampered, foreign or expired link signatures
var ErrInvalidSignature = errors.New("invalid signature")

// LinkClaims are carried by the signature of an email verification link
type LinkClaims struct {
	UserID uint   `json:"uid"`  // User the link was issued for
	Hash   string `json:"hash"` // Hash of the email the link was issued for
	jwt.RegisteredClaims
}

// SignLink creates an expiring signature binding a user id and email hash
func SignLink(userID uint, hash, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := LinkClaims{
		UserID: userID,
		Hash:   hash,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Link expires after ttl
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   "email-verification",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// VerifyLink checks that signature was issued by us, is not expired,
// and was issued for exactly this user id and hash
func VerifyLink(signature string, userID uint, hash, secret string, now time.Time) error {
	if signature == "" {
		return ErrInvalidSignature
	}
	claims := &LinkClaims{}
	token, err := jwt.ParseWithClaims(signature, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject("email-verification"),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return ErrInvalidSignature
	}
	// The URL parameters must be the ones that were signed
	if claims.UserID != userID || claims.Hash != hash {
		return ErrInvalidSignature
	}
	return nil
}
