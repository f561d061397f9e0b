package session

import "strings"

const fallbackDisplayName = "User"

// Identity is the client-derived view of the signed-in user.
type Identity struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	DisplayName      string `json:"display_name"`
	Username         string `json:"username"`
	IsStaff          bool   `json:"is_staff"`
	Role             string `json:"role"`
	RoleID           string `json:"role_id"`
	ExpiresAtUnixUTC int64  `json:"expires_at_unix_utc"`
}

// DeriveIdentity builds an Identity from a bearer token. Returns nil when
// the token does not decode.
func DeriveIdentity(raw string) *Identity {
	payload := DecodeToken(raw)
	if payload == nil {
		return nil
	}
	identity := &Identity{
		UserID:           payload.UserID,
		Email:            payload.Email,
		DisplayName:      resolveDisplayName(payload.Name, payload.Username, payload.Email),
		Username:         payload.Username,
		IsStaff:          payload.IsStaff,
		Role:             payload.Role,
		RoleID:           payload.RoleID,
		ExpiresAtUnixUTC: payload.ExpiresAtUnixUTC,
	}
	return identity
}

// IsStaff reports the staff flag carried by the token, defaulting to false
// for anything that does not decode. UI gating only; the server re-checks.
func IsStaff(raw string) bool {
	identity := DeriveIdentity(raw)
	if identity == nil {
		return false
	}
	return identity.IsStaff
}

// resolveDisplayName applies the fallback chain:
// explicit name, username, local part of the email, then "User".
func resolveDisplayName(name string, username string, email string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	if trimmed := strings.TrimSpace(username); trimmed != "" {
		return trimmed
	}
	localPart, _, _ := strings.Cut(email, "@")
	if trimmed := strings.TrimSpace(localPart); trimmed != "" {
		return trimmed
	}
	return fallbackDisplayName
}
