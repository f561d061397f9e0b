package session

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload is the decoded claim set of a marketplace bearer token.
// The client never verifies the signature; the payload is a UI convenience
// and the server remains the authorization boundary.
type TokenPayload struct {
	UserID           string
	Email            string
	Name             string
	Username         string
	IsStaff          bool
	Role             string
	RoleID           string
	IssuedAtUnixUTC  int64
	ExpiresAtUnixUTC int64
}

// DecodeToken decodes the payload segment of a compact three-segment token.
// Any structural failure (segment count, base64url, JSON) yields nil rather
// than an error: a corrupted local credential must read as "no identity".
func DecodeToken(raw string) *TokenPayload {
	if raw == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}
	payload := &TokenPayload{
		UserID:           firstClaimString(claims, "nameid", "id"),
		Email:            claimString(claims, "email"),
		Name:             claimString(claims, "name"),
		Username:         claimString(claims, "username"),
		IsStaff:          staffClaim(claims["is_staff"]),
		Role:             claimString(claims, "role"),
		RoleID:           claimString(claims, "role_id"),
		IssuedAtUnixUTC:  claimUnix(claims, "iat"),
		ExpiresAtUnixUTC: claimUnix(claims, "exp"),
	}
	return payload
}

// IsExpired reports whether the token's exp claim is in the past. A token
// that cannot be decoded, or that carries no exp claim, counts as expired.
func IsExpired(raw string, nowUnixUTC int64) bool {
	payload := DecodeToken(raw)
	if payload == nil {
		return true
	}
	if payload.ExpiresAtUnixUTC == 0 {
		return true
	}
	return payload.ExpiresAtUnixUTC < nowUnixUTC
}

func claimString(claims jwt.MapClaims, key string) string {
	switch value := claims[key].(type) {
	case string:
		return value
	case float64:
		return strconv.FormatInt(int64(value), 10)
	default:
		return ""
	}
}

func firstClaimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value := claimString(claims, key); value != "" {
			return value
		}
	}
	return ""
}

func claimUnix(claims jwt.MapClaims, key string) int64 {
	switch value := claims[key].(type) {
	case float64:
		return int64(value)
	case int64:
		return value
	default:
		return 0
	}
}

// staffClaim coerces the is_staff claim. Only boolean true and the exact
// string "true" count; every other shape is non-staff.
func staffClaim(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		return typed == "true"
	default:
		return false
	}
}
