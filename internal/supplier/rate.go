package supplier

import "sync"

// rateEpsilon is the minimum difference before a discovered rate replaces
// the held one. Avoids churning on float noise from upstream.
const rateEpsilon = 0.01

// RateHolder guards the currently-known USD exchange rate. Discovery during
// a sync batch and administrator updates both go through here, so reads
// during normalization always see a consistent value.
type RateHolder struct {
	mu   sync.RWMutex
	rate float64
}

// NewRateHolder seeds the holder with the configured initial rate.
func NewRateHolder(initial float64) *RateHolder {
	return &RateHolder{rate: initial}
}

// Rate returns the currently held exchange rate.
func (h *RateHolder) Rate() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rate
}

// Set replaces the held rate unconditionally (administrator override).
func (h *RateHolder) Set(rate float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rate = rate
}

// Update applies a discovered rate if it differs from the held one by more
// than epsilon. Reports whether the rate changed.
func (h *RateHolder) Update(rate float64) bool {
	if rate <= 0 {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	diff := rate - h.rate
	if diff < 0 {
		diff = -diff
	}
	if diff <= rateEpsilon {
		return false
	}
	h.rate = rate
	return true
}
