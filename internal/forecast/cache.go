package forecast

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// modelCache memoizes trained models per (dish, series fingerprint) so
// one batch run over many horizons or report tabs retrains each dish
// at most once. A changed sales table changes the fingerprint, which
// simply misses and retrains; nothing is ever served stale.
type modelCache struct {
	cache *lru.Cache[string, *TrainResult]
}

const modelCacheSize = 256

func newModelCache() *modelCache {
	c, err := lru.New[string, *TrainResult](modelCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &modelCache{cache: c}
}

func (m *modelCache) get(key string) (*TrainResult, bool) {
	return m.cache.Get(key)
}

func (m *modelCache) put(key string, r *TrainResult) {
	m.cache.Add(key, r)
}

// seriesKey fingerprints a trainable series by its dish, dates and
// quantities.
func seriesKey(s *Series) string {
	h := fnv.New64a()
	h.Write([]byte(s.Dish))
	var buf [8]byte
	for _, r := range s.Rows {
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Date.Unix()))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.Quantity))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%s:%d:%x", s.Dish, len(s.Rows), h.Sum64())
}
