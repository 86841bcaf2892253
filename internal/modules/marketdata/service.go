package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/domain"
	"github.com/aristath/meridian/internal/pricestore"
)

// SeriesFetcher is the provider client surface the service needs.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, start, end domain.Date) ([]domain.PricePoint, error)
}

// Config tunes the batch fetch behavior.
type Config struct {
	// EquityBatchSize bounds concurrent equity fetches per chunk.
	EquityBatchSize int
	// EquityBatchPause is the pause between equity chunks.
	EquityBatchPause time.Duration
}

// Service resolves symbols to providers and fetches their series, consulting
// the persistent price store before the network and writing successful
// fetches back to it.
type Service struct {
	equity SeriesFetcher
	crypto SeriesFetcher
	store  *pricestore.Store // optional
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a new market data service. store may be nil to disable
// persistent caching.
func NewService(equity, crypto SeriesFetcher, store *pricestore.Store, cfg Config, log zerolog.Logger) *Service {
	if cfg.EquityBatchSize < 1 {
		cfg.EquityBatchSize = 5
	}
	return &Service{
		equity: equity,
		crypto: crypto,
		store:  store,
		cfg:    cfg,
		log:    log.With().Str("service", "marketdata").Logger(),
	}
}

func (s *Service) client(kind domain.ProviderKind) SeriesFetcher {
	if kind == domain.ProviderCrypto {
		return s.crypto
	}
	return s.equity
}

// storeTTL picks the persistence TTL for a classification: benchmark/index
// series tolerate staler data than the single-symbol hot path.
func storeTTL(c Classification) time.Duration {
	if c.IsIndex {
		return pricestore.TTLBenchmarkSeries
	}
	return pricestore.TTLSeries
}

// FetchOne fetches the series for one symbol: fresh store entry first, then
// the classified provider, then one retry against the alternate provider,
// then a stale store entry as the degraded-provider fallback.
func (s *Service) FetchOne(ctx context.Context, symbol string, start, end domain.Date) ([]domain.PricePoint, error) {
	c := Classify(symbol)
	key := pricestore.Key(c.Kind, c.Symbol, start, end)

	if s.store != nil {
		if points, err := s.store.GetIfFresh(key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Price store read failed")
		} else if len(points) > 0 {
			return points, nil
		}
	}

	points, err := s.client(c.Kind).FetchSeries(ctx, c.Symbol, start, end)
	if err != nil {
		if fallbackKind, ok := Fallback(c); ok {
			s.log.Debug().
				Str("symbol", c.Symbol).
				Str("primary", string(c.Kind)).
				Str("fallback", string(fallbackKind)).
				Err(err).
				Msg("Primary fetch failed, trying alternate provider")

			fbPoints, fbErr := s.client(fallbackKind).FetchSeries(ctx, c.Symbol, start, end)
			if fbErr == nil {
				s.persist(pricestore.Key(fallbackKind, c.Symbol, start, end), fbPoints, storeTTL(c))
				return fbPoints, nil
			}
		}

		// Last resort: a stale store entry beats no data at all.
		if s.store != nil {
			if stale, staleErr := s.store.Get(key); staleErr == nil && len(stale) > 0 {
				s.log.Warn().Str("symbol", c.Symbol).Msg("Serving stale cached series after fetch failure")
				return stale, nil
			}
		}

		return nil, err
	}

	s.persist(key, points, storeTTL(c))
	return points, nil
}

func (s *Service) persist(key string, points []domain.PricePoint, ttl time.Duration) {
	if s.store == nil || len(points) == 0 {
		return
	}
	if err := s.store.Store(key, points, ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to persist series")
	}
}

// FetchAll fetches every symbol's series, partitioned by provider. Equity
// symbols fetch in bounded-concurrency chunks with a pause between chunks;
// crypto symbols fetch strictly sequentially behind their tighter throttle.
// The two partitions run concurrently with each other. Per-symbol failures
// come back as FetchOutcome errors, not an overall error.
func (s *Service) FetchAll(ctx context.Context, symbols []string, start, end domain.Date) map[string]domain.FetchOutcome {
	var equitySyms, cryptoSyms []string
	for _, sym := range symbols {
		if Classify(sym).Kind == domain.ProviderCrypto {
			cryptoSyms = append(cryptoSyms, sym)
		} else {
			equitySyms = append(equitySyms, sym)
		}
	}

	outcomes := make(map[string]domain.FetchOutcome, len(symbols))
	var mu sync.Mutex
	record := func(o domain.FetchOutcome) {
		mu.Lock()
		outcomes[o.Symbol] = o
		mu.Unlock()
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.fetchEquityBatch(ctx, equitySyms, start, end, record)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, sym := range cryptoSyms {
			points, err := s.FetchOne(ctx, sym, start, end)
			record(domain.FetchOutcome{Symbol: sym, Points: points, Err: err})
		}
	}()

	wg.Wait()
	return outcomes
}

// fetchEquityBatch processes symbols in chunks of EquityBatchSize, all
// requests of a chunk in flight at once, pausing between chunks.
func (s *Service) fetchEquityBatch(ctx context.Context, symbols []string, start, end domain.Date, record func(domain.FetchOutcome)) {
	for i := 0; i < len(symbols); i += s.cfg.EquityBatchSize {
		chunk := symbols[i:min(i+s.cfg.EquityBatchSize, len(symbols))]

		var wg sync.WaitGroup
		for _, sym := range chunk {
			wg.Add(1)
			go func(sym string) {
				defer wg.Done()
				points, err := s.FetchOne(ctx, sym, start, end)
				record(domain.FetchOutcome{Symbol: sym, Points: points, Err: err})
			}(sym)
		}
		wg.Wait()

		if i+s.cfg.EquityBatchSize < len(symbols) && s.cfg.EquityBatchPause > 0 {
			time.Sleep(s.cfg.EquityBatchPause)
		}
	}
}
