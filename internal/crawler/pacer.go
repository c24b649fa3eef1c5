package crawler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/woodspider/internal/linkurl"
)

// Pacer spaces session-driven fetches. A global pacer shares one limiter
// across all URLs; a per-origin pacer keeps one limiter per root URL.
type Pacer struct {
	delay     time.Duration
	perOrigin bool

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPacer creates a pacer allowing one fetch per delay. A non-positive
// delay disables pacing.
func NewPacer(delay time.Duration, perOrigin bool) *Pacer {
	return &Pacer{
		delay:     delay,
		perOrigin: perOrigin,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a fetch of rawURL is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context, rawURL string) error {
	if p.delay <= 0 {
		return nil
	}
	return p.limiter(rawURL).Wait(ctx)
}

func (p *Pacer) limiter(rawURL string) *rate.Limiter {
	key := ""
	if p.perOrigin {
		key = linkurl.RootOf(rawURL)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(p.delay), 1)
		p.limiters[key] = l
	}
	return l
}
