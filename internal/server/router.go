// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"
	"time"

	"github.com/cardsd/cardsd/internal/server/handlers"
	"github.com/cardsd/cardsd/internal/server/ratelimit"
	"github.com/cardsd/cardsd/internal/store"
)

// NewRouter creates and configures the HTTP router. Reads are open; mutations
// require the admin token and are rate limited per client IP.
func NewRouter(svc *store.Service, cfg *store.Config, version string) http.Handler {
	mux := &http.ServeMux{}

	ch := handlers.NewCardsHandler(svc)
	hh := handlers.NewHealthHandler(version)

	var writeLimiter *ratelimit.Limiter
	if cfg.RateLimits.WriteRatePerMin > 0 {
		writeLimiter = ratelimit.NewLimiter(cfg.RateLimits.WriteRatePerMin, time.Minute)
	}

	mux.Handle("GET /api/health", Wrap(hh.Health))
	mux.Handle("GET /api/cards", Wrap(ch.GetCards))
	mux.Handle("GET /api/cards/schema", Wrap(ch.GetSchema))
	mux.Handle("PUT /api/cards", WrapAdmin(ch.ReplaceCards, cfg.AdminToken, writeLimiter))
	mux.Handle("POST /api/cards", WrapAdmin(ch.UpsertCards, cfg.AdminToken, writeLimiter))

	return CORS(mux)
}
