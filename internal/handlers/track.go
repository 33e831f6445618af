package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/taxgeniuspro/linktrack/internal/models"
	"github.com/taxgeniuspro/linktrack/internal/services"

	"github.com/gin-gonic/gin"
)

const linkCacheTTL = 10 * time.Minute

// TrackRedirect records an inbound visit and forwards the visitor to the
// link's destination. Visitors never see an error: dead or unknown codes
// redirect to the configured fallback and the failure is only logged.
func (h *Handler) TrackRedirect(c *gin.Context) {
	code := c.Param("code")

	link, err := h.trackerService.RecordClick(services.ClickDTO{
		Code:      code,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	})

	switch {
	case err == nil:
		if !link.Active {
			h.logger.Warn("Track: click on deactivated link", "code", code)
			c.Redirect(http.StatusFound, h.cfg.FallbackURL)
			return
		}
		h.cacheLink(link)
		c.Redirect(http.StatusFound, link.DestinationURL)

	case errors.Is(err, services.ErrLinkNotFound), errors.Is(err, services.ErrInvalidInput):
		h.logger.Warn("Track: unknown link code", "code", code, "ip", c.ClientIP())
		c.Redirect(http.StatusFound, h.cfg.FallbackURL)

	default:
		// Store trouble: the click is lost, but a cached destination keeps
		// the redirect itself working.
		h.logger.Error("Track: failed to record click", "code", code, "error", err)
		if cached := h.cachedLink(code); cached != nil && cached.Active {
			c.Redirect(http.StatusFound, cached.DestinationURL)
			return
		}
		c.Redirect(http.StatusFound, h.cfg.FallbackURL)
	}
}

func (h *Handler) cacheLink(link *models.Link) {
	if h.rdb == nil {
		return
	}
	ctx := context.Background()
	data, err := json.Marshal(link)
	if err != nil {
		return
	}
	if err := h.rdb.Set(ctx, "link:"+link.Code, data, linkCacheTTL).Err(); err != nil {
		h.logger.Warn("Track: failed to cache link", "code", link.Code, "error", err)
	}
}

func (h *Handler) cachedLink(code string) *models.Link {
	if h.rdb == nil {
		return nil
	}
	val, err := h.rdb.Get(context.Background(), "link:"+code).Result()
	if err != nil {
		return nil
	}
	var link models.Link
	if err := json.Unmarshal([]byte(val), &link); err != nil {
		return nil
	}
	return &link
}
