package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/totegamma/textcanon/internal/domain"
)

const defaultTTL = 10 * time.Minute

// TranslationCache keeps the latest revision per (text content, language)
// in memcached. Cache failures are logged and treated as misses.
//
// Entries are keyed by a per-pair generation counter. Invalidation bumps
// the counter, so a reader that loaded a revision before the bump writes
// under a generation nobody reads anymore.
type TranslationCache struct {
	mc     *memcache.Client
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewTranslationCache(mc *memcache.Client, logger *slog.Logger) *TranslationCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationCache{mc: mc, ttl: defaultTTL, logger: logger, now: time.Now}
}

func generationKey(textContentID, languageID int64) string {
	return fmt.Sprintf("textcanon:translation:gen:%d:%d", textContentID, languageID)
}

func latestKey(textContentID, languageID int64, generation uint64) string {
	return fmt.Sprintf("textcanon:translation:latest:%d:%d:%d", textContentID, languageID, generation)
}

// generation reads the counter of a pair, creating it when missing. A
// fresh counter starts at the current time in nanoseconds so an evicted
// counter never falls back to an old generation. 0 means unknown.
func (c *TranslationCache) generation(ctx context.Context, textContentID, languageID int64) uint64 {
	key := generationKey(textContentID, languageID)
	for i := 0; i < 2; i++ {
		item, err := c.mc.Get(key)
		if err == nil {
			gen, err := strconv.ParseUint(string(item.Value), 10, 64)
			if err != nil {
				return 0
			}
			return gen
		}
		if err != memcache.ErrCacheMiss {
			c.logger.WarnContext(ctx, "translation cache generation get failed", slog.String("error", err.Error()))
			return 0
		}
		err = c.mc.Add(&memcache.Item{Key: key, Value: c.seed()})
		if err != nil && err != memcache.ErrNotStored {
			c.logger.WarnContext(ctx, "translation cache generation add failed", slog.String("error", err.Error()))
			return 0
		}
	}
	return 0
}

func (c *TranslationCache) seed() []byte {
	return []byte(strconv.FormatUint(uint64(c.now().UnixNano()), 10))
}

// GetLatest returns the cached revision. On a miss it returns the
// generation the caller must hand to SetLatest.
func (c *TranslationCache) GetLatest(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, uint64, bool) {
	gen := c.generation(ctx, textContentID, languageID)
	if gen == 0 {
		return domain.TextTranslation{}, 0, false
	}

	item, err := c.mc.Get(latestKey(textContentID, languageID, gen))
	if err != nil {
		if err != memcache.ErrCacheMiss {
			c.logger.WarnContext(ctx, "translation cache get failed", slog.String("error", err.Error()))
		}
		return domain.TextTranslation{}, gen, false
	}

	var t domain.TextTranslation
	if err := json.Unmarshal(item.Value, &t); err != nil {
		return domain.TextTranslation{}, gen, false
	}
	return t, gen, true
}

// SetLatest stores t under generation. Generation 0 is never stored.
func (c *TranslationCache) SetLatest(ctx context.Context, t domain.TextTranslation, generation uint64) {
	if generation == 0 {
		return
	}
	value, err := json.Marshal(t)
	if err != nil {
		return
	}
	err = c.mc.Set(&memcache.Item{
		Key:        latestKey(t.TextContentID, t.LanguageTargetID, generation),
		Value:      value,
		Expiration: int32(c.ttl.Seconds()),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "translation cache set failed", slog.String("error", err.Error()))
	}
}

func (c *TranslationCache) InvalidateLatest(ctx context.Context, textContentID, languageID int64) {
	key := generationKey(textContentID, languageID)
	_, err := c.mc.Increment(key, 1)
	if err == memcache.ErrCacheMiss {
		err = c.mc.Set(&memcache.Item{Key: key, Value: c.seed()})
	}
	if err != nil {
		c.logger.WarnContext(ctx, "translation cache invalidate failed", slog.String("error", err.Error()))
	}
}
