package marketapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamevault/storefront/internal/store/marketstore"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	Role     string `json:"role"`
	RoleID   string `json:"role_id"`
}

type loginResponse struct {
	Token            string      `json:"token"`
	RefreshToken     string      `json:"refresh_token"`
	User             userPayload `json:"user"`
	ExpiresAtUnixUTC int64       `json:"expires_at"`
}

func (handler *httpHandler) handleLogin(ctx *gin.Context) {
	var request loginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "email and password are required"))
		return
	}

	user, err := handler.store.GetUserByEmail(ctx.Request.Context(), request.Email)
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusUnauthorized, errorResponse("invalid_credentials", "email or password is incorrect"))
			return
		}
		handler.logger.Error("user lookup failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "login unavailable"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse("invalid_credentials", "email or password is incorrect"))
		return
	}

	now := handler.nowFn()
	token, err := mintToken(user, now, handler.cfg)
	if err != nil {
		handler.logger.Error("token mint failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("token_error", "login unavailable"))
		return
	}

	ctx.JSON(http.StatusOK, loginResponse{
		Token:        token,
		RefreshToken: uuid.NewString(),
		User: userPayload{
			ID:       user.UserID,
			Email:    user.Email,
			Name:     user.Name,
			Username: user.Username,
			IsStaff:  user.IsStaff,
			Role:     user.Role,
			RoleID:   user.RoleID,
		},
		ExpiresAtUnixUTC: now.Add(handler.cfg.SessionTTL).Unix(),
	})
}

// handleLogout acknowledges unconditionally. The client clears its local
// credential regardless of this call's outcome, so the server keeps the
// endpoint deliberately forgiving.
func (handler *httpHandler) handleLogout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
