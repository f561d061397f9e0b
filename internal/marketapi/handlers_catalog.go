package marketapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/gamevault/storefront/internal/store/marketstore"
	"github.com/gamevault/storefront/pkg/catalog"
)

// handleListGames answers with a bare array, unlike the cart list's
// envelope. Both shapes exist in the wild and the client normalizes them.
func (handler *httpHandler) handleListGames(ctx *gin.Context) {
	games, err := handler.store.ListGames(ctx.Request.Context())
	if err != nil {
		handler.logger.Error("catalog list failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	payload := make([]catalog.Game, 0, len(games))
	for _, game := range games {
		payload = append(payload, toGamePayload(game))
	}
	ctx.JSON(http.StatusOK, payload)
}

func (handler *httpHandler) handleGetGame(ctx *gin.Context) {
	game, err := handler.store.GetGame(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_game", "no such game"))
			return
		}
		handler.logger.Error("game lookup failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, toGamePayload(game))
}

func (handler *httpHandler) handleListCategories(ctx *gin.Context) {
	categories, err := handler.store.ListCategories(ctx.Request.Context())
	if err != nil {
		handler.logger.Error("category list failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	payload := make([]catalog.Category, 0, len(categories))
	for _, category := range categories {
		payload = append(payload, catalog.Category{
			ID:   category.CategoryID,
			Name: category.Name,
			Slug: category.Slug,
		})
	}
	ctx.JSON(http.StatusOK, payload)
}

func (handler *httpHandler) handleCreateCategory(ctx *gin.Context) {
	var request catalog.Category
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Name == "" || request.Slug == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "name and slug are required"))
		return
	}
	category := marketstore.Category{Name: request.Name, Slug: request.Slug}
	if err := handler.store.CreateCategory(ctx.Request.Context(), &category); err != nil {
		if errors.Is(err, marketstore.ErrDuplicate) {
			ctx.JSON(http.StatusConflict, errorResponse("duplicate_slug", "category slug already exists"))
			return
		}
		handler.logger.Error("category create failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	ctx.JSON(http.StatusCreated, catalog.Category{ID: category.CategoryID, Name: category.Name, Slug: category.Slug})
}

func (handler *httpHandler) handleCreateGame(ctx *gin.Context) {
	var request catalog.GameInput
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Name == "" || request.Slug == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "name and slug are required"))
		return
	}
	game := marketstore.Game{
		Name:          request.Name,
		Slug:          request.Slug,
		Description:   request.Description,
		CoverImageURL: request.CoverImageURL,
		CategoryID:    request.CategoryID,
		Metadata:      datatypes.JSON(request.Metadata),
	}
	if err := handler.store.CreateGame(ctx.Request.Context(), &game); err != nil {
		if errors.Is(err, marketstore.ErrDuplicate) {
			ctx.JSON(http.StatusConflict, errorResponse("duplicate_slug", "game slug already exists"))
			return
		}
		handler.logger.Error("game create failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	ctx.JSON(http.StatusCreated, toGamePayload(game))
}

func (handler *httpHandler) handleUpdateGame(ctx *gin.Context) {
	var request catalog.GameInput
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Name == "" || request.Slug == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "name and slug are required"))
		return
	}
	game := marketstore.Game{
		GameID:        ctx.Param("id"),
		Name:          request.Name,
		Slug:          request.Slug,
		Description:   request.Description,
		CoverImageURL: request.CoverImageURL,
		CategoryID:    request.CategoryID,
		Metadata:      datatypes.JSON(request.Metadata),
	}
	if err := handler.store.UpdateGame(ctx.Request.Context(), game); err != nil {
		switch {
		case errors.Is(err, marketstore.ErrNotFound):
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_game", "no such game"))
		case errors.Is(err, marketstore.ErrDuplicate):
			ctx.JSON(http.StatusConflict, errorResponse("duplicate_slug", "game slug already exists"))
		default:
			handler.logger.Error("game update failed", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		}
		return
	}
	updated, err := handler.store.GetGame(ctx.Request.Context(), game.GameID)
	if err != nil {
		handler.logger.Error("game reload failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, toGamePayload(updated))
}

func (handler *httpHandler) handleDeleteGame(ctx *gin.Context) {
	if err := handler.store.DeleteGame(ctx.Request.Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_game", "no such game"))
			return
		}
		handler.logger.Error("game delete failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (handler *httpHandler) handleCreateKeyOffer(ctx *gin.Context) {
	var request catalog.KeyOfferInput
	if err := ctx.ShouldBindJSON(&request); err != nil || request.KeyType == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "key_type is required"))
		return
	}
	if request.PriceCents < 0 || request.Stock < 0 {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "price and stock must be non-negative"))
		return
	}
	if _, err := handler.store.GetGame(ctx.Request.Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, marketstore.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_game", "no such game"))
			return
		}
		handler.logger.Error("game lookup failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	offer := marketstore.KeyOffer{
		GameID:     ctx.Param("id"),
		KeyType:    request.KeyType,
		PriceCents: request.PriceCents,
		Stock:      request.Stock,
	}
	if err := handler.store.CreateKeyOffer(ctx.Request.Context(), &offer); err != nil {
		if errors.Is(err, marketstore.ErrDuplicate) {
			ctx.JSON(http.StatusConflict, errorResponse("duplicate_offer", "offer for this platform already exists"))
			return
		}
		handler.logger.Error("offer create failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("store_error", "catalog unavailable"))
		return
	}
	ctx.JSON(http.StatusCreated, catalog.KeyOffer{
		ID:         offer.OfferID,
		GameID:     offer.GameID,
		KeyType:    offer.KeyType,
		PriceCents: offer.PriceCents,
		Stock:      offer.Stock,
	})
}

func toGamePayload(game marketstore.Game) catalog.Game {
	offers := make([]catalog.KeyOffer, 0, len(game.Offers))
	for _, offer := range game.Offers {
		offers = append(offers, catalog.KeyOffer{
			ID:         offer.OfferID,
			GameID:     offer.GameID,
			KeyType:    offer.KeyType,
			PriceCents: offer.PriceCents,
			Stock:      offer.Stock,
		})
	}
	return catalog.Game{
		ID:            game.GameID,
		Name:          game.Name,
		Slug:          game.Slug,
		Description:   game.Description,
		CoverImageURL: game.CoverImageURL,
		CategoryID:    game.CategoryID,
		Metadata:      json.RawMessage(game.Metadata),
		Offers:        offers,
	}
}
