package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/filter"
	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type SavedFilterHandler struct {
	filters SavedFilterService
}

func NewSavedFilterHandler(filters SavedFilterService) *SavedFilterHandler {
	return &SavedFilterHandler{filters: filters}
}

func (h *SavedFilterHandler) List(c *gin.Context) {
	list, err := h.filters.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Saved filters retrieved", list)
}

// Save stores the filter sent as browse query parameters under a name.
func (h *SavedFilterHandler) Save(c *gin.Context) {
	var req struct {
		Name   string            `json:"name"`
		Filter map[string]string `json:"filter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	params := url.Values{}
	for k, v := range req.Filter {
		params.Set(k, v)
	}

	list, err := h.filters.Save(c.Request.Context(), middleware.CurrentUser(c), req.Name, filter.FromQuery(params))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Filter saved", list)
}

// Load returns the saved filter as a fresh browse state.
func (h *SavedFilterHandler) Load(c *gin.Context) {
	state, err := h.filters.Load(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Filter loaded", gin.H{
		"filter":        state,
		"fields":        state.FieldValues(),
		"activeFilters": state.ActiveCount(),
		"query":         state.ToQuery().Encode(),
	})
}

func (h *SavedFilterHandler) Delete(c *gin.Context) {
	list, err := h.filters.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Filter deleted", list)
}
