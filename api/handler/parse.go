package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pcstats/config"
	"github.com/use-agent/pcstats/engine"
	"github.com/use-agent/pcstats/models"
	"github.com/use-agent/pcstats/scraper"
)

// Parse returns a handler for POST /api/v1/parse.
//
// Flow:
//  1. Bind the request.
//  2. Fetch the page unless the client sent its markup (records fetch_ms).
//  3. Parse the requested fields (records parse_ms).
func Parse(e engine.Engine, cfg config.FetchConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err), models.TimingInfo{})
			return
		}

		// ── 2. Obtain the page ──────────────────────────────────────
		var (
			entity     scraper.Entity
			engineUsed string
			err        error
		)
		fetchStart := time.Now()
		if req.HTML != "" {
			entity, err = scraper.New(req.URL, req.HTML)
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.ClampTimeout(req.Timeout))
			entity, err = scraper.Fetch(ctx, e, req.URL)
			cancel()
			engineUsed = e.Name()
		}
		fetchMs := time.Since(fetchStart).Milliseconds()
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
				FetchMs: fetchMs,
			})
			return
		}

		// ── 3. Parse ────────────────────────────────────────────────
		parseStart := time.Now()
		data, err := entity.Parse(req.Fields...)
		parseMs := time.Since(parseStart).Milliseconds()
		timing := models.TimingInfo{
			TotalMs: time.Since(totalStart).Milliseconds(),
			FetchMs: fetchMs,
			ParseMs: parseMs,
		}
		if err != nil {
			respondError(c, err, timing)
			return
		}

		slog.Info("page parsed",
			"identifier", entity.Identifier(),
			"kind", entity.Kind(),
			"fields", data.Len(),
			"total_ms", timing.TotalMs,
		)
		c.JSON(http.StatusOK, models.ParseResponse{
			Success:    true,
			Identifier: entity.Identifier(),
			Kind:       string(entity.Kind()),
			Data:       data,
			EngineUsed: engineUsed,
			Timing:     timing,
		})
	}
}

// Fields returns a handler for GET /api/v1/fields?url=.
func Fields() gin.HandlerFunc {
	return func(c *gin.Context) {
		url := c.Query("url")
		if url == "" {
			err := models.NewScrapeError(models.ErrCodeInvalidInput, "url query parameter is required", nil)
			c.JSON(StatusOf(err), models.FieldsResponse{Error: err.ToDetail()})
			return
		}
		entity, err := scraper.New(url, "")
		if err != nil {
			se := models.AsScrapeError(err)
			c.JSON(StatusOf(se), models.FieldsResponse{Error: se.ToDetail()})
			return
		}
		c.JSON(http.StatusOK, models.FieldsResponse{
			Success:    true,
			Identifier: entity.Identifier(),
			Kind:       string(entity.Kind()),
			Fields:     entity.Fields(),
		})
	}
}
