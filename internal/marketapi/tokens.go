package marketapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gamevault/storefront/internal/store/marketstore"
)

var errInvalidToken = errors.New("invalid token")

// tokenClaims is the verified server-side view of a bearer token. The
// client decodes the same payload unverified for its UI; this struct is
// what authorization decisions are actually made from.
type tokenClaims struct {
	UserID   string
	Email    string
	Name     string
	Username string
	IsStaff  bool
	Role     string
	RoleID   string
}

// mintToken issues a signed HS256 bearer token for an account.
func mintToken(user marketstore.User, issuedAt time.Time, cfg Config) (string, error) {
	expiresAt := issuedAt.Add(cfg.TokenTTL)
	claims := jwt.MapClaims{
		"nameid":   user.UserID,
		"email":    user.Email,
		"name":     user.Name,
		"username": user.Username,
		"is_staff": user.IsStaff,
		"role":     user.Role,
		"role_id":  user.RoleID,
		"iss":      cfg.TokenIssuer,
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.TokenSigningKey))
}

// verifyToken checks signature, issuer, and expiry. This is the trust
// boundary: nothing the client derived locally is believed here.
func verifyToken(raw string, cfg Config) (*tokenClaims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", errInvalidToken, token.Header["alg"])
		}
		return []byte(cfg.TokenSigningKey), nil
	}, jwt.WithIssuer(cfg.TokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}
	claims := &tokenClaims{
		UserID:   stringClaim(mapClaims, "nameid"),
		Email:    stringClaim(mapClaims, "email"),
		Name:     stringClaim(mapClaims, "name"),
		Username: stringClaim(mapClaims, "username"),
		Role:     stringClaim(mapClaims, "role"),
		RoleID:   stringClaim(mapClaims, "role_id"),
	}
	if staff, ok := mapClaims["is_staff"].(bool); ok {
		claims.IsStaff = staff
	}
	if claims.UserID == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}
