package restclient

import (
	"context"
	"net/http"

	"github.com/gamevault/storefront/pkg/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUserPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	Role     string `json:"role"`
	RoleID   string `json:"role_id"`
}

type loginResponse struct {
	Token            string           `json:"token"`
	RefreshToken     string           `json:"refresh_token"`
	User             loginUserPayload `json:"user"`
	ExpiresAtUnixUTC int64            `json:"expires_at"`
}

// Login exchanges credentials for a credential record ready to persist.
// The stored identity prefers what the token itself carries; the response
// payload fills in when the token does not decode.
func (client *Client) Login(ctx context.Context, email string, password string) (*session.CredentialRecord, error) {
	var response loginResponse
	err := client.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &response)
	if err != nil {
		return nil, err
	}

	identity := session.DeriveIdentity(response.Token)
	if identity == nil {
		identity = &session.Identity{
			UserID:      response.User.ID,
			Email:       response.User.Email,
			DisplayName: response.User.Name,
			Username:    response.User.Username,
			IsStaff:     response.User.IsStaff,
			Role:        response.User.Role,
			RoleID:      response.User.RoleID,
		}
	}
	return &session.CredentialRecord{
		Token:            response.Token,
		RefreshToken:     response.RefreshToken,
		User:             *identity,
		ExpiresAtUnixUTC: response.ExpiresAtUnixUTC,
	}, nil
}

// Logout tells the server to drop the session. The caller clears the local
// credential regardless of the outcome here.
func (client *Client) Logout(ctx context.Context) error {
	return client.doJSON(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil)
}
