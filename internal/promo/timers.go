// Package promo owns the storefront's periodic display state: the
// deal-of-day countdown and the hero slideshow rotation. Both write only
// their own state and stop when their context is cancelled.
package promo

import (
	"context"
	"sync"
	"time"
)

// DealCountdown reports the time left until the daily deal resets at local
// midnight.
type DealCountdown struct {
	now func() time.Time
}

func NewDealCountdown() *DealCountdown {
	return &DealCountdown{now: time.Now}
}

func (d *DealCountdown) Remaining() time.Duration {
	now := d.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}

// Rotator cycles through a fixed number of slides on its interval.
type Rotator struct {
	mu       sync.Mutex
	current  int
	slides   int
	interval time.Duration
}

func NewRotator(slides int, interval time.Duration) *Rotator {
	if slides < 1 {
		slides = 1
	}
	return &Rotator{slides: slides, interval: interval}
}

func (r *Rotator) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Rotator) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = (r.current + 1) % r.slides
}

// Run advances the rotation until ctx is cancelled. The ticker is stopped on
// the way out so no callback outlives the owning view.
func (r *Rotator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.advance()
		}
	}
}
