package deps

import (
	"time"

	"github.com/newsclip-dev/newsclip/internal/auth"
	"github.com/newsclip-dev/newsclip/internal/catalog"
	"github.com/newsclip-dev/newsclip/internal/enrich"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/store"
	"github.com/newsclip-dev/newsclip/internal/watch"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Store    store.Bookmarks // bookmark record store (redis or memory)
	Watcher  *watch.Watcher  // realtime subscription layer over Store
	Auth     auth.Provider   // identity provider backing auth-gated sessions
	Catalog  *catalog.Index  // article catalog index (nil if catalog disabled)
	Enricher *enrich.Fetcher // OpenGraph metadata fetcher (nil if enrichment disabled)

	ReloadTrigger chan struct{} // Channel to trigger manual catalog reload (nil if catalog disabled)

	RateLimitBurst  int // token bucket burst for mutation endpoints
	RateLimitPerMin int // refill per IP per minute for mutation endpoints
}
