package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironwala/ironwala-api/internal/pkg/cache"
)

const cacheTTL = 24 * time.Hour

// cachedResult distinguishes a cached miss from a cached hit, so repeated
// lookups of an unmappable coordinate also skip the provider.
type cachedResult struct {
	OK         bool       `json:"ok"`
	Components Components `json:"components"`
}

// CachedGeocoder decorates a Geocoder with a Redis cache. Coordinates are
// rounded to five decimals (~1 m) for the key.
type CachedGeocoder struct {
	next  Geocoder
	cache cache.Cache
}

func NewCachedGeocoder(next Geocoder, c cache.Cache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: c}
}

var _ Geocoder = (*CachedGeocoder)(nil)

func (g *CachedGeocoder) ReverseGeocode(ctx context.Context, coord Coordinate) (Components, bool, error) {
	key := g.cache.GenerateKey("revgeo", fmt.Sprintf("%.5f,%.5f", coord.Lat, coord.Lon))

	if cached, err := g.cache.Get(ctx, key); err == nil && cached != "" {
		var res cachedResult
		if err := json.Unmarshal([]byte(cached), &res); err == nil {
			return res.Components, res.OK, nil
		}
	}

	comp, ok, err := g.next.ReverseGeocode(ctx, coord)
	if err != nil {
		return Components{}, false, err
	}

	if b, err := json.Marshal(cachedResult{OK: ok, Components: comp}); err == nil {
		if err := g.cache.Set(ctx, key, string(b), cacheTTL); err != nil {
			slog.WarnContext(ctx, "reverse geocode cache write failed", "error", err)
		}
	}

	return comp, ok, nil
}
