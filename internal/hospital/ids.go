package hospital

import (
	"strconv"
	"sync"
	"time"
)

// idGenerator hands out prefix+millis identifiers. The numeric part is
// strictly increasing across all prefixes, so an ID is never reused even when
// several are minted within the same millisecond.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

var ids idGenerator

func (g *idGenerator) next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now

	return prefix + strconv.FormatInt(now, 10)
}
