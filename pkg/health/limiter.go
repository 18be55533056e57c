package health

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore manages per-customer rate limiters: customer email -> rate limiter
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func limiterKey(customerEmail string) string {
	return strings.ToLower(strings.TrimSpace(customerEmail))
}

func (s *RateLimiterStore) GetLimiter(customerEmail string) *rate.Limiter {
	key := limiterKey(customerEmail)

	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[key] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(customerEmail string, customerRate rate.Limit, customerBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[limiterKey(customerEmail)] = rate.NewLimiter(customerRate, customerBurst)
}

// Allow consumes a token for the customer. A nil store allows everything.
func (s *RateLimiterStore) Allow(customerEmail string) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(customerEmail).Allow()
}
