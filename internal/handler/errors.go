package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{utils.ErrValidation, http.StatusBadRequest},
	{utils.ErrFilterNameRequired, http.StatusBadRequest},
	{utils.ErrTooManyImages, http.StatusBadRequest},
	{utils.ErrInvalidStatus, http.StatusBadRequest},
	{utils.ErrInvalidPassword, http.StatusUnauthorized},
	{utils.ErrInvalidToken, http.StatusUnauthorized},
	{utils.ErrForbidden, http.StatusForbidden},
	{utils.ErrAccountInactive, http.StatusForbidden},
	{utils.ErrNotFound, http.StatusNotFound},
	{utils.ErrEmailTaken, http.StatusConflict},
	{utils.ErrAlreadyReviewed, http.StatusConflict},
	{utils.ErrPaymentConfirmed, http.StatusConflict},
	{utils.ErrStaleResult, http.StatusConflict},
	{utils.ErrImageRejected, http.StatusUnprocessableEntity},
}

// respondError maps service errors to the response envelope.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrLoginRequired) {
		utils.LoginRequired(c, middleware.ReturnPath(c))
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			code := e.err.Error()
			utils.Error(c, e.status, code, strings.TrimPrefix(err.Error(), code+": "))
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func badRequest(c *gin.Context, message string) {
	utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
