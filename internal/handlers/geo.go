package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gaiaterm/internal/middleware"
	"gaiaterm/internal/services"
)

const geoCacheTTL = 24 * time.Hour

// GeoHandler resolves the caller's coarse location, caching lookups.
type GeoHandler struct {
	geoip  services.GeoIP
	cache  services.Cache
	logger *slog.Logger
}

func NewGeoHandler(geoip services.GeoIP, cache services.Cache, logger *slog.Logger) *GeoHandler {
	return &GeoHandler{
		geoip:  geoip,
		cache:  cache,
		logger: logger,
	}
}

func (h *GeoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.", "")
		return
	}

	ip := middleware.ClientIP(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cacheKey := "geo:" + ip
	if cached, err := h.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var loc services.GeoLocation
		if err := json.Unmarshal([]byte(cached), &loc); err == nil {
			h.writeLocation(w, &loc)
			return
		}
		h.logger.Warn("Corrupt geo cache entry", "ip", ip)
		_ = h.cache.Del(ctx, cacheKey)
	}

	loc, err := h.geoip.Lookup(ctx, ip)
	if err != nil {
		h.logger.Error("GeoIP lookup failed", "ip", ip, "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "Location lookup failed.", "")
		return
	}

	if data, err := json.Marshal(loc); err == nil {
		if err := h.cache.Set(ctx, cacheKey, string(data), geoCacheTTL); err != nil {
			h.logger.Warn("Failed to cache geo lookup", "ip", ip, "error", err)
		}
	}

	h.writeLocation(w, loc)
}

func (h *GeoHandler) writeLocation(w http.ResponseWriter, loc *services.GeoLocation) {
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(loc); err != nil {
		h.logger.Error("Error encoding geo response", "error", err)
	}
}
