package utils // package utils provides helper functions for staff tokens and passcode hashing

import (
	"errors" // errors reports malformed tokens
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// RoleStaff is the only role the back office issues.
const RoleStaff = "STAFF"

// ErrInvalidToken is returned by ParseStaffToken for expired, tampered or
// foreign tokens.
var ErrInvalidToken = errors.New("invalid token")

// StaffToken is a signed JWT together with its expiry.  The Token field is
// sent in the Authorization header when calling staff endpoints.
type StaffToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expiresAt"`
}

// NewStaffToken builds and signs an HS256 JWT for a back office session.
// subject identifies the session (a random id, staff have no accounts).
// The JWT carries sub, role, exp and iat.
func NewStaffToken(secret, subject string, ttlMin int) (StaffToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleStaff,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return StaffToken{}, err
	}
	return StaffToken{Token: signed, Exp: exp}, nil
}

// ParseStaffToken verifies signature and expiry and returns the claims.
// Only HS256 is accepted.
func ParseStaffToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
