// Package firestore implements pricing.ConfigSource on top of the hosted
// document store, with a Redis read-through cache in front of it.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ironwala/ironwala-api/internal/pkg/cache"
	"github.com/ironwala/ironwala-api/internal/pricing"
)

const (
	configCollection = "config"
	feesDocument     = "fees"

	cacheTTL = 10 * time.Minute
)

// feesDoc is the wire shape of the config/fees document. Amounts are plain
// numbers in the store; decimals only exist on our side of the boundary.
type feesDoc struct {
	ServiceFee float64 `firestore:"serviceFee" json:"serviceFee"`
	Discount   float64 `firestore:"discount" json:"discount"`
}

// ConfigSource loads the fee/discount pair from config/fees. A missing
// document is seeded with the defaults and the defaults are returned, so
// first run behaves like every other run.
type ConfigSource struct {
	client *firestore.Client
	cache  cache.Cache
}

func NewConfigSource(client *firestore.Client, c cache.Cache) *ConfigSource {
	return &ConfigSource{client: client, cache: c}
}

var _ pricing.ConfigSource = (*ConfigSource)(nil)

func (s *ConfigSource) Load(ctx context.Context) (pricing.FeeConfig, error) {
	key := s.cache.GenerateKey("feeconfig", feesDocument)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var doc feesDoc
		if err := json.Unmarshal([]byte(cached), &doc); err == nil {
			return doc.toConfig(), nil
		}
	}

	snap, err := s.client.Collection(configCollection).Doc(feesDocument).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return s.seed(ctx, key)
	}
	if err != nil {
		return pricing.FeeConfig{}, fmt.Errorf("firestore: load fee config: %w", err)
	}

	var doc feesDoc
	if err := snap.DataTo(&doc); err != nil {
		return pricing.FeeConfig{}, fmt.Errorf("firestore: decode fee config: %w", err)
	}

	s.cachePut(ctx, key, doc)
	return doc.toConfig(), nil
}

// seed writes the default fee config back to the store and returns it.
func (s *ConfigSource) seed(ctx context.Context, key string) (pricing.FeeConfig, error) {
	def := pricing.DefaultFeeConfig()
	doc := feesDoc{
		ServiceFee: def.ServiceFee.InexactFloat64(),
		Discount:   def.Discount.InexactFloat64(),
	}
	_, err := s.client.Collection(configCollection).Doc(feesDocument).Set(ctx, doc)
	if err != nil {
		return pricing.FeeConfig{}, fmt.Errorf("firestore: seed fee config: %w", err)
	}

	slog.InfoContext(ctx, "seeded default fee config",
		"serviceFee", doc.ServiceFee, "discount", doc.Discount)

	s.cachePut(ctx, key, doc)
	return def, nil
}

// cachePut is best-effort: a cache failure only costs the next read a trip
// to the store.
func (s *ConfigSource) cachePut(ctx context.Context, key string, doc feesDoc) {
	b, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(b), cacheTTL); err != nil {
		slog.WarnContext(ctx, "fee config cache write failed", "error", err)
	}
}

func (d feesDoc) toConfig() pricing.FeeConfig {
	return pricing.FeeConfig{
		ServiceFee: decimal.NewFromFloat(d.ServiceFee),
		Discount:   decimal.NewFromFloat(d.Discount),
	}
}
