package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type FavoriteHandler struct {
	favorites FavoriteService
}

func NewFavoriteHandler(favorites FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List returns the bookmarked products of the session user.
func (h *FavoriteHandler) List(c *gin.Context) {
	products, err := h.favorites.Products(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Favorites retrieved", products)
}

// IDs returns the bookmarked product ids, used to mark hearts on listing pages.
func (h *FavoriteHandler) IDs(c *gin.Context) {
	favorites, err := h.favorites.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProductID)
	}
	utils.Success(c, http.StatusOK, "Favorites retrieved", ids)
}

// Toggle flips the bookmark of :id.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	res, err := h.favorites.Toggle(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Removed from favorites"
	if res.Favorited {
		message = "Added to favorites"
	}
	utils.Success(c, http.StatusOK, message, res)
}
