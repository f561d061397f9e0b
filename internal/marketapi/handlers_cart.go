package marketapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamevault/storefront/internal/store/marketstore"
)

type gameSnapshotPayload struct {
	Name          string `json:"name"`
	CoverImageURL string `json:"cover_image_url"`
}

type lineItemPayload struct {
	ID             string              `json:"id"`
	GameKeyID      string              `json:"game_key_id"`
	Game           gameSnapshotPayload `json:"game"`
	KeyType        string              `json:"key_type"`
	UnitPriceCents int64               `json:"unit_price_cents"`
	Quantity       int64               `json:"quantity"`
}

type addCartRequest struct {
	GameKeyID string `json:"game_key_id" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

// handleListCartItems answers with the legacy envelope shape; the client's
// normalizing adapter handles both this and bare arrays.
func (handler *httpHandler) handleListCartItems(ctx *gin.Context) {
	claims := getClaims(ctx)
	items, err := handler.store.ListCartItems(ctx.Request.Context(), claims.UserID)
	if err != nil {
		handler.logger.Error("cart list failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}
	payload := make([]lineItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, toLineItemPayload(item))
	}
	ctx.JSON(http.StatusOK, gin.H{"data": payload})
}

func (handler *httpHandler) handleAddCartItem(ctx *gin.Context) {
	claims := getClaims(ctx)
	var request addCartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "game_key_id is required"))
		return
	}
	if request.Quantity == 0 {
		request.Quantity = 1
	}
	if request.Quantity < 1 {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_quantity", "quantity must be at least 1"))
		return
	}

	offer, err := handler.store.GetKeyOffer(ctx.Request.Context(), request.GameKeyID)
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_key", "no such game key"))
			return
		}
		handler.logger.Error("offer lookup failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}
	if offer.Stock < request.Quantity {
		ctx.JSON(http.StatusConflict, errorResponse("out_of_stock", "not enough keys in stock"))
		return
	}
	game, err := handler.store.GetGame(ctx.Request.Context(), offer.GameID)
	if err != nil {
		handler.logger.Error("game lookup failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}

	item, err := handler.store.UpsertCartItem(ctx.Request.Context(), claims.UserID, offer, game, request.Quantity)
	if err != nil {
		handler.logger.Error("cart upsert failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, toLineItemPayload(item))
}

func (handler *httpHandler) handleUpdateCartItem(ctx *gin.Context) {
	claims := getClaims(ctx)
	var request updateCartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "quantity is required"))
		return
	}
	if request.Quantity < 1 {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_quantity", "quantity must be at least 1"))
		return
	}

	item, err := handler.store.UpdateCartItemQuantity(ctx.Request.Context(), claims.UserID, ctx.Param("id"), request.Quantity)
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_item", "no such cart item"))
			return
		}
		handler.logger.Error("cart update failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, toLineItemPayload(item))
}

func (handler *httpHandler) handleRemoveCartItem(ctx *gin.Context) {
	claims := getClaims(ctx)
	err := handler.store.RemoveCartItem(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_item", "no such cart item"))
			return
		}
		handler.logger.Error("cart remove failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (handler *httpHandler) handleClearCart(ctx *gin.Context) {
	claims := getClaims(ctx)
	if err := handler.store.ClearCart(ctx.Request.Context(), claims.UserID); err != nil {
		handler.logger.Error("cart clear failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "cart unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toLineItemPayload(item marketstore.CartItem) lineItemPayload {
	return lineItemPayload{
		ID:        item.ItemID,
		GameKeyID: item.OfferID,
		Game: gameSnapshotPayload{
			Name:          item.GameName,
			CoverImageURL: item.GameCoverURL,
		},
		KeyType:        item.KeyType,
		UnitPriceCents: item.UnitPriceCents,
		Quantity:       item.Quantity,
	}
}
