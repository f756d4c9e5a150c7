package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pcstats/models"
)

// Abort writes err as a failed ParseResponse and stops the handler chain.
// Middleware rejections go through here so every endpoint shares one error
// envelope.
func Abort(c *gin.Context, err error) {
	se := models.AsScrapeError(err)
	c.AbortWithStatusJSON(StatusOf(se), models.ParseResponse{
		Success: false,
		Error:   se.ToDetail(),
	})
}

// respondError maps an error to the correct HTTP status code and writes a
// structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	scrapeErr := models.AsScrapeError(err)
	if scrapeErr.Code == models.ErrCodeInternal {
		slog.Error("parse failed", "error", err)
	}

	c.JSON(StatusOf(scrapeErr), models.ParseResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
		Timing:  timing,
	})
}

// StatusOf translates error codes to HTTP status codes.
func StatusOf(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeFetch:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidField:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnknownPage, models.ErrCodeInvalidDocument, models.ErrCodeStructuralMismatch:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
